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

// Package subsample implements the redundancy filter: three
// interchangeable strategies (minimizer, k-mer-pair, strobemer) that each
// reduce a sequence to an ordered list of signature hashes and decide
// whether the sequence is redundant against a shared counting filter.
package subsample

import "github.com/ad3002/RNA-Bloom/internal/bloom"

// Config fixes the shared window and threshold parameters every strategy
// is built from.
type Config struct {
	K                         int
	WindowSize                int
	Stranded                  bool
	MaxMultiplicity           int // a signature with CBF count <= this is "new"
	MaxNonMatchingChainLength int // longest tolerated run of "seen" signatures
}

// Strategy reduces a sequence to its ordered signature hash list. A
// signature hash is whatever the strategy keys its CBF entries by:
// minimizer hashes, paired-k-mer combined hashes, or strobemer hashes.
type Strategy interface {
	Signatures(seq []byte) []uint64
}

// Stats reports why a sequence was kept or dropped.
type Stats struct {
	NumSignatures int
	NumNew        int
	LongestChain  int
}

// Subsampler applies a Strategy's keep-criterion against a shared
// counting Bloom filter: a sequence is emitted iff at least one of its
// signatures is new (count <= MaxMultiplicity) and no run of already-seen
// signatures exceeds MaxNonMatchingChainLength. On emission every
// signature hash is added to the filter — the filter is a monotone
// coverage tracker, so sequence order affects which sequences are
// retained but never the soundness of the decision (spec §4.F policy).
type Subsampler struct {
	Config   Config
	Strategy Strategy
	CBF      *bloom.CountingFilter
}

// Keep decides whether seq should be emitted and, if so, commits all of
// its signature hashes to the filter.
func (s *Subsampler) Keep(seq []byte) (bool, Stats) {
	sigs := s.Strategy.Signatures(seq)
	if len(sigs) == 0 {
		return true, Stats{}
	}

	stats := Stats{NumSignatures: len(sigs)}
	chain := 0
	for _, h := range sigs {
		if s.CBF.Count(h) <= uint8(clampMultiplicity(s.Config.MaxMultiplicity)) {
			stats.NumNew++
			chain = 0
		} else {
			chain++
			if chain > stats.LongestChain {
				stats.LongestChain = chain
			}
		}
	}

	keep := stats.NumNew > 0 && stats.LongestChain <= s.Config.MaxNonMatchingChainLength
	if keep {
		for _, h := range sigs {
			s.CBF.Increment(h)
		}
	}
	return keep, stats
}

func clampMultiplicity(m int) int {
	if m < 0 {
		return 0
	}
	if m > 255 {
		return 255
	}
	return m
}
