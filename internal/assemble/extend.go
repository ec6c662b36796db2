// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assemble

import (
	"github.com/ad3002/RNA-Bloom/internal/dbgraph"
	"github.com/ad3002/RNA-Bloom/internal/rnaconfig"
)

// Extend greedily walks forward from seed, one k-mer at a time, subject
// to the max-coverage-gradient, tip-length, and lookahead rules (spec
// §4.E). It terminates when no successor survives filtering or a
// canonical hash is revisited (a cycle). The returned Candidate is
// Rejected{tipOnly} if the final walk, seed included, holds fewer than
// cfg.MaxTipLength k-mers; otherwise it is Extended.
func Extend(g *dbgraph.Graph, cfg rnaconfig.Config, seed []dbgraph.Kmer) *Candidate {
	c := &Candidate{Kmers: append([]dbgraph.Kmer(nil), seed...), State: Seed}
	if len(c.Kmers) == 0 {
		return reject(c, ReasonNoPath)
	}

	visited := make(map[uint64]bool, len(c.Kmers))
	for _, km := range c.Kmers {
		visited[km.Hash] = true
	}

	for {
		cur := c.Kmers[len(c.Kmers)-1]
		succ, err := g.Successors(cur)
		if err != nil || len(succ) == 0 {
			break
		}

		candidates := filterGradient(cur, succ, cfg.MaxCovGradient)
		candidates = filterTips(g, cfg, candidates, visited)
		if len(candidates) == 0 {
			break
		}

		var next dbgraph.Kmer
		if len(candidates) == 1 {
			next = candidates[0]
		} else if best, ok := ResolveBranch(g, cfg, c.Kmers, candidates); ok {
			next = best
		} else {
			next = bestByLookahead(g, cfg, candidates, visited)
		}

		if visited[next.Hash] {
			break // cycle: stop before revisiting
		}
		c.Kmers = append(c.Kmers, next)
		visited[next.Hash] = true
	}

	if len(c.Kmers) < cfg.MaxTipLength {
		return reject(c, ReasonTipOnly)
	}
	c.State = Extended
	return c
}

// filterGradient drops successors whose count falls below
// maxCovGradient * cur.Count, the rule that keeps walks from veering
// into low-coverage error tips.
func filterGradient(cur dbgraph.Kmer, succ []dbgraph.Kmer, maxCovGradient float64) []dbgraph.Kmer {
	if cur.Count == 0 {
		return succ
	}
	threshold := maxCovGradient * float64(cur.Count)
	out := succ[:0:0]
	for _, s := range succ {
		if float64(s.Count) >= threshold {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return succ // all candidates would be excluded; fall back rather than dead-end
	}
	return out
}

// filterTips drops candidates whose own forward extension dead-ends
// within maxTipLength k-mers, i.e. short branches considered tips.
func filterTips(g *dbgraph.Graph, cfg rnaconfig.Config, candidates []dbgraph.Kmer, visited map[uint64]bool) []dbgraph.Kmer {
	if len(candidates) <= 1 || cfg.MaxTipLength <= 0 {
		return candidates
	}
	out := candidates[:0:0]
	for _, cand := range candidates {
		if pathLength(g, cand, visited, cfg.MaxTipLength) >= cfg.MaxTipLength {
			out = append(out, cand)
		}
	}
	if len(out) == 0 {
		return candidates
	}
	return out
}

// pathLength greedily walks from start (taking its highest-coverage
// successor at each step, never revisiting seen or already-visited
// hashes) up to limit k-mers, returning how far it got.
func pathLength(g *dbgraph.Graph, start dbgraph.Kmer, visited map[uint64]bool, limit int) int {
	seen := make(map[uint64]bool, limit)
	for h := range visited {
		seen[h] = true
	}
	cur := start
	n := 1
	seen[cur.Hash] = true
	for n < limit {
		succ, err := g.Successors(cur)
		if err != nil || len(succ) == 0 {
			break
		}
		var best dbgraph.Kmer
		found := false
		for _, s := range succ {
			if seen[s.Hash] {
				continue
			}
			if !found || s.Count > best.Count {
				best, found = s, true
			}
		}
		if !found {
			break
		}
		seen[best.Hash] = true
		cur = best
		n++
	}
	return n
}

// bestByLookahead scores each candidate by the cumulative coverage of
// its best path over the next cfg.Lookahead k-mers and returns the
// highest scorer, ties breaking in first-seen A<C<G<T order (candidates
// is already produced by Successors in that order).
func bestByLookahead(g *dbgraph.Graph, cfg rnaconfig.Config, candidates []dbgraph.Kmer, visited map[uint64]bool) dbgraph.Kmer {
	best := candidates[0]
	bestScore := lookaheadScore(g, best, visited, cfg.Lookahead)
	for _, cand := range candidates[1:] {
		score := lookaheadScore(g, cand, visited, cfg.Lookahead)
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best
}

func lookaheadScore(g *dbgraph.Graph, start dbgraph.Kmer, visited map[uint64]bool, depth int) int64 {
	seen := make(map[uint64]bool, depth)
	for h := range visited {
		seen[h] = true
	}
	cur := start
	score := int64(cur.Count)
	seen[cur.Hash] = true
	for i := 1; i < depth; i++ {
		succ, err := g.Successors(cur)
		if err != nil || len(succ) == 0 {
			break
		}
		var next dbgraph.Kmer
		found := false
		for _, s := range succ {
			if seen[s.Hash] {
				continue
			}
			if !found || s.Count > next.Count {
				next, found = s, true
			}
		}
		if !found {
			break
		}
		score += int64(next.Count)
		seen[next.Hash] = true
		cur = next
	}
	return score
}
