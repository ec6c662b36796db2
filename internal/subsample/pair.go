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

package subsample

import "github.com/ad3002/RNA-Bloom/internal/khash"

// pairOffsets are the three fixed distances spec §4.F's k-mer-pair
// strategy keys its signatures by.
func pairOffsets(k int) [3]int { return [3]int{k, k + 1, k + 2} }

// KmerPairStrategy is identical to MinimizerStrategy except its
// signatures are paired-k-mer combined hashes at offsets {k, k+1, k+2}
// rather than single k-mer hashes (spec §4.F, "k-mer-pair-based").
type KmerPairStrategy struct {
	Config Config
}

func (p KmerPairStrategy) Signatures(seq []byte) []uint64 {
	var out []uint64
	for _, d := range pairOffsets(p.Config.K) {
		pc, err := khash.NewPairedCursor(p.Config.K, d, p.Config.Stranded)
		if err != nil || !pc.Start(seq, 0) {
			continue
		}

		sec := newSecondaryHash()
		var items []scored
		items = append(items, scored{pc.Combined(), secondaryScore(sec, pc.Head().Bytes())})
		for {
			_, ok := pc.Next()
			if !ok {
				break
			}
			items = append(items, scored{pc.Combined(), secondaryScore(sec, pc.Head().Bytes())})
		}
		out = append(out, windowMinima(items, p.Config.WindowSize)...)
	}
	return out
}
