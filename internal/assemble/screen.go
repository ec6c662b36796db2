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
	"github.com/ad3002/RNA-Bloom/internal/bloom"
	"github.com/ad3002/RNA-Bloom/internal/dbgraph"
	"github.com/ad3002/RNA-Bloom/internal/rnaconfig"
)

// Screen checks a candidate's k-mers against the screening filter: if at
// least cfg.PercentIdentity of them are already present, the candidate is
// "already represented" and rejected without being added. Otherwise every
// one of its k-mers is added to the screening filter (online
// deduplication) and the candidate advances to Screened.
func Screen(g *dbgraph.Graph, screening *bloom.ScreeningFilter, cfg rnaconfig.Config, c *Candidate) *Candidate {
	if len(c.Kmers) == 0 {
		return reject(c, ReasonRepresented)
	}

	present := 0
	for _, km := range c.Kmers {
		if screening.Has(km.Hash) {
			present++
		}
	}
	if float64(present)/float64(len(c.Kmers)) >= cfg.PercentIdentity {
		return reject(c, ReasonRepresented)
	}

	for _, km := range c.Kmers {
		screening.AddAtomic(km.Hash)
	}
	c.State = Screened
	return c
}

// DetectArtifact tests for a reverse-complement palindrome artifact: the
// candidate's first and last windows of equal length are near-reverse-
// complements of each other, within maxIndelSize positions of
// disagreement and cfg.PercentIdentity similarity. On detection, the
// palindromic tail is trimmed and the candidate's sequence shortened.
func DetectArtifact(g *dbgraph.Graph, cfg rnaconfig.Config, c *Candidate) (*Candidate, bool) {
	seq, err := c.Sequence(g)
	if err != nil || len(seq) < 2*g.Params.K {
		return c, false
	}

	window := g.Params.K
	head := seq[:window]
	tail := seq[len(seq)-window:]
	tailRC := reverseComplement(tail)

	mismatches := 0
	for i := range head {
		if head[i] != tailRC[i] {
			mismatches++
		}
	}
	identity := 1 - float64(mismatches)/float64(window)
	if mismatches > cfg.MaxIndelSize || identity < cfg.PercentIdentity {
		return c, false
	}

	trimmed := seq[:len(seq)-window]
	kmers, ok := kmersFromBytes(g, trimmed)
	if !ok {
		return c, false
	}
	c.Kmers = kmers
	return c, true
}

func reverseComplement(seq []byte) []byte {
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[len(seq)-1-i] = comp[b]
	}
	return out
}

// DetectChimera flags a candidate whose middle third has significantly
// lower paired-k-mer support than its flanking thirds — evidence that two
// unrelated transcripts were spuriously joined.
func DetectChimera(g *dbgraph.Graph, cfg rnaconfig.Config, c *Candidate) bool {
	n := len(c.Kmers)
	if g.PKBF == nil && g.RPKBF == nil || n < 6 || cfg.DFrag <= 0 {
		return false
	}

	third := n / 3
	flankSupport := pairSupportRange(g, c.Kmers, 0, third, cfg.DFrag) +
		pairSupportRange(g, c.Kmers, n-third, n, cfg.DFrag)
	middleSupport := pairSupportRange(g, c.Kmers, third, n-third, cfg.DFrag)

	avgFlank := float64(flankSupport) / 2
	if avgFlank == 0 {
		return false
	}
	return float64(middleSupport) < avgFlank/2
}

func pairSupportRange(g *dbgraph.Graph, kmers []dbgraph.Kmer, start, end, d int) int {
	support := 0
	for i := start; i+d < end && i+d < len(kmers); i++ {
		if g.ContainsPairedFrag(kmers[i].Hash, kmers[i+d].Hash) {
			support++
		}
	}
	return support
}
