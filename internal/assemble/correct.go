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

// Correct scans a single read's k-mer walk for low-coverage dips —
// maximal runs where count < cfg.MinKmerCov — and attempts to reroute
// each through an alternate path of length bounded by cfg.MaxIndelSize
// that rejoins the original walk. Dips it cannot reroute are left as-is;
// the caller decides whether the resulting coverage profile is
// acceptable. changed reports whether any dip was rerouted.
func Correct(g *dbgraph.Graph, cfg rnaconfig.Config, walk []dbgraph.Kmer) (corrected []dbgraph.Kmer, changed bool) {
	out := append([]dbgraph.Kmer(nil), walk...)

	for i := 0; i < len(out); {
		if out[i].Count >= cfg.MinKmerCov {
			i++
			continue
		}
		j := i
		for j < len(out) && out[j].Count < cfg.MinKmerCov {
			j++
		}
		// dip is out[i:j]; try to reroute from out[i-1] to out[j].
		if i == 0 || j == len(out) {
			i = j
			continue
		}
		if detour, ok := findDetour(g, out[i-1], out[j], cfg.MaxIndelSize); ok {
			rebuilt := make([]dbgraph.Kmer, 0, len(out)-(j-i)+len(detour))
			rebuilt = append(rebuilt, out[:i]...)
			rebuilt = append(rebuilt, detour...)
			rebuilt = append(rebuilt, out[j:]...)
			out = rebuilt
			changed = true
			i = i + len(detour)
			continue
		}
		i = j
	}
	return out, changed
}

// findDetour performs a breadth-first search of at most maxIndelSize+1
// steps from from to to, expanding successors in A,C,G,T order. It
// returns the interior k-mers (excluding from and to) of the first path
// found; coverage plays no part in which path that is.
func findDetour(g *dbgraph.Graph, from, to dbgraph.Kmer, maxIndelSize int) ([]dbgraph.Kmer, bool) {
	type node struct {
		kmer dbgraph.Kmer
		path []dbgraph.Kmer
	}
	limit := maxIndelSize + 1
	if limit < 1 {
		limit = 1
	}

	frontier := []node{{kmer: from, path: nil}}
	visited := map[uint64]bool{from.Hash: true}

	for depth := 0; depth < limit; depth++ {
		var next []node
		for _, n := range frontier {
			succ, err := g.Successors(n.kmer)
			if err != nil {
				continue
			}
			for _, s := range succ {
				if s.Hash == to.Hash {
					return n.path, true
				}
				if visited[s.Hash] {
					continue
				}
				visited[s.Hash] = true
				path := append(append([]dbgraph.Kmer(nil), n.path...), s)
				next = append(next, node{kmer: s, path: path})
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return nil, false
}
