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

// tolerance lists the gaps tested beyond each paired filter's configured
// distance: the anchor is looked up d, d+1 and d+2 positions back in the
// walk, so an indel upstream of the tip can shift the anchor by a base
// or two without invalidating the pair.
var tolerance = [3]int{0, 1, 2}

// ResolveBranch consults PKBF (at fragment distance cfg.DFrag) and RPKBF
// (at read distance cfg.DRead) to prefer a candidate successor that forms
// a present paired key with the k-mer located the configured distance
// back in walk, or one or two positions further back (see tolerance).
// It returns ok=false when no candidate has any paired support, in which
// case the caller falls back to the lookahead rule.
func ResolveBranch(g *dbgraph.Graph, cfg rnaconfig.Config, walk []dbgraph.Kmer, candidates []dbgraph.Kmer) (dbgraph.Kmer, bool) {
	if g.PKBF == nil && g.RPKBF == nil {
		return dbgraph.Kmer{}, false
	}

	support := make([]int, len(candidates))
	for i, cand := range candidates {
		support[i] = pairSupport(g, cfg, walk, cand)
	}

	best := -1
	for i, s := range support {
		if s > 0 && (best == -1 || s > support[best]) {
			best = i
		}
	}
	if best == -1 {
		return dbgraph.Kmer{}, false
	}
	return candidates[best], true
}

// pairSupport counts how many anchors at a gap of 0, 1 or 2 beyond
// cfg.DFrag (against PKBF) and cfg.DRead (against RPKBF) form a present
// paired link with cand. A distance <= 0 disables that filter's check.
func pairSupport(g *dbgraph.Graph, cfg rnaconfig.Config, walk []dbgraph.Kmer, cand dbgraph.Kmer) int {
	support := 0
	if cfg.DFrag > 0 {
		for _, gap := range tolerance {
			idx := len(walk) - cfg.DFrag - gap
			if idx < 0 || idx >= len(walk) {
				continue
			}
			if g.ContainsPairedFrag(walk[idx].Hash, cand.Hash) {
				support++
			}
		}
	}
	if cfg.DRead > 0 {
		for _, gap := range tolerance {
			idx := len(walk) - cfg.DRead - gap
			if idx < 0 || idx >= len(walk) {
				continue
			}
			if g.ContainsPairedRead(walk[idx].Hash, cand.Hash) {
				support++
			}
		}
	}
	return support
}
