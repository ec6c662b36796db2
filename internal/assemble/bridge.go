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
	"bytes"

	"github.com/ad3002/RNA-Bloom/internal/dbgraph"
	"github.com/ad3002/RNA-Bloom/internal/khash"
	"github.com/ad3002/RNA-Bloom/internal/rnaconfig"
)

// Reconstruct links two k-mer walks (from a read pair's two ends) into
// one fragment, per spec §4.E "Fragment reconstruction": optional
// correction, then overlap-then-connect, else a bounded greedy bridge,
// then RPKBF consistency validation.
func Reconstruct(g *dbgraph.Graph, cfg rnaconfig.Config, left, right []dbgraph.Kmer) *Candidate {
	left, _ = Correct(g, cfg, left)
	right, _ = Correct(g, cfg, right)

	if len(left) == 0 || len(right) == 0 {
		return reject(&Candidate{State: Extended}, ReasonNoPath)
	}

	if joined, ok := overlapConnect(g, left, right, cfg.MinOverlap); ok {
		return validateFragment(g, cfg, left, right, joined, 0)
	}

	bridge, ok := greedyBridge(g, cfg, left[len(left)-1], right, cfg.Bound)
	if !ok {
		return reject(&Candidate{Kmers: left, State: Extended}, ReasonNoPath)
	}

	joined := append(append([]dbgraph.Kmer(nil), left...), bridge...)
	return validateFragment(g, cfg, left, right, joined, len(bridge))
}

// overlapConnect tests for a direct suffix/prefix byte overlap of at
// least minOverlap bases between the assembled left and right walks. On
// success it returns the joined k-mer walk.
func overlapConnect(g *dbgraph.Graph, left, right []dbgraph.Kmer, minOverlap int) ([]dbgraph.Kmer, bool) {
	if minOverlap <= 0 {
		return nil, false
	}
	leftSeq, err := g.Assemble(left)
	if err != nil {
		return nil, false
	}
	rightSeq, err := g.Assemble(right)
	if err != nil {
		return nil, false
	}

	maxOverlap := len(leftSeq)
	if len(rightSeq) < maxOverlap {
		maxOverlap = len(rightSeq)
	}
	for o := maxOverlap; o >= minOverlap; o-- {
		if bytes.Equal(leftSeq[len(leftSeq)-o:], rightSeq[:o]) {
			joinedSeq := append(append([]byte(nil), leftSeq...), rightSeq[o:]...)
			kmers, ok := kmersFromBytes(g, joinedSeq)
			if !ok {
				continue
			}
			return kmers, true
		}
	}
	return nil, false
}

// greedyBridge walks forward from tip, preferring paired-k-mer supported
// successors, until it reaches any k-mer present in right or bound
// k-mers have been taken without success.
func greedyBridge(g *dbgraph.Graph, cfg rnaconfig.Config, tip dbgraph.Kmer, right []dbgraph.Kmer, bound int) ([]dbgraph.Kmer, bool) {
	rightIdx := make(map[uint64]int, len(right))
	for i, km := range right {
		rightIdx[km.Hash] = i
	}

	var path []dbgraph.Kmer
	visited := map[uint64]bool{tip.Hash: true}
	cur := tip

	for steps := 0; steps < bound; steps++ {
		succ, err := g.Successors(cur)
		if err != nil || len(succ) == 0 {
			return nil, false
		}
		for _, s := range succ {
			if ri, ok := rightIdx[s.Hash]; ok {
				path = append(path, right[ri:]...)
				return path, true
			}
		}

		candidates := succ[:0:0]
		for _, s := range succ {
			if !visited[s.Hash] {
				candidates = append(candidates, s)
			}
		}
		if len(candidates) == 0 {
			return nil, false
		}

		var next dbgraph.Kmer
		if len(candidates) == 1 {
			next = candidates[0]
		} else if best, ok := ResolveBranch(g, cfg, append([]dbgraph.Kmer{cur}), candidates); ok {
			next = best
		} else {
			next = candidates[0]
			for _, c := range candidates[1:] {
				if c.Count > next.Count {
					next = c
				}
			}
		}

		path = append(path, next)
		visited[next.Hash] = true
		cur = next
	}
	return nil, false
}

// kmersFromBytes rolls a fresh cursor over seq, producing a Kmer slice
// carrying graph-reported counts for each position.
func kmersFromBytes(g *dbgraph.Graph, seq []byte) ([]dbgraph.Kmer, bool) {
	k := g.Params.K
	if len(seq) < k {
		return nil, false
	}
	cur, err := khash.NewCursor(k, g.Params.Stranded)
	if err != nil || !cur.Start(seq, 0) {
		return nil, false
	}

	var out []dbgraph.Kmer
	b := append([]byte(nil), cur.Bytes()...)
	out = append(out, dbgraph.Kmer{Hash: cur.Canonical(), Count: g.Count(cur.Canonical()), Bytes: b})
	for {
		h, ok := cur.Next()
		if !ok {
			break
		}
		b := append([]byte(nil), cur.Bytes()...)
		out = append(out, dbgraph.Kmer{Hash: h, Count: g.Count(h), Bytes: b})
	}
	return out, true
}

// validateFragment checks RPKBF for a contiguous consistent segment —
// consecutive k-mers at DRead distance whose paired link holds — that
// spans the join seam between left and right, i.e. that covers both read
// anchors (spec §4.E point 4). On failure the bridge is discarded and the
// candidate reported as an unconnected pair.
func validateFragment(g *dbgraph.Graph, cfg rnaconfig.Config, left, right, joined []dbgraph.Kmer, gapFilled int) *Candidate {
	c := &Candidate{Kmers: joined, State: Bridged, Frag: &FragInfo{LeftLen: len(left), RightLen: len(right), GapFilled: gapFilled}}

	if g.RPKBF == nil || cfg.DRead <= 0 || cfg.MinNumKmerPairs <= 0 {
		c.State = Validated
		return c
	}

	seam := len(left)
	runStart, runLen, bestStart, bestLen := -1, 0, -1, 0
	for i := 0; i+cfg.DRead < len(joined); i++ {
		ok := g.ContainsPairedRead(joined[i].Hash, joined[i+cfg.DRead].Hash)
		if ok {
			if runStart == -1 {
				runStart = i
			}
			runLen = i - runStart + 1
			if runLen > bestLen {
				bestStart, bestLen = runStart, runLen
			}
		} else {
			runStart, runLen = -1, 0
		}
	}

	spansSeam := bestStart >= 0 && bestStart < seam && bestStart+bestLen > seam
	if bestLen >= cfg.MinNumKmerPairs && spansSeam {
		c.State = Validated
		return c
	}
	return reject(c, ReasonInconsistent)
}
