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

// StrobemerStrategy keys its signatures by strobemer hashes — an anchor
// k-mer combined with a downstream strobe k-mer chosen to minimize an
// independent secondary hash within [wMin,wMax] (spec §4.F,
// "strobemer-based"). WindowSize doubles as the strobe search window's
// width (wMax = WindowSize, wMin = 0): a contiguous run of
// sufficiently-supported strobes, once windowed through windowMinima,
// approximates whether the sequence is redundant end-to-end.
type StrobemerStrategy struct {
	Config Config
}

func (s StrobemerStrategy) Signatures(seq []byte) []uint64 {
	sc, err := khash.NewStrobeCursor(s.Config.K, 0, s.Config.WindowSize, s.Config.Stranded)
	if err != nil {
		return nil
	}

	sec := newSecondaryHash()
	var items []scored
	for begin := 0; ; begin++ {
		combined, strobePos, ok := sc.Strobe(seq, begin)
		if !ok {
			break
		}
		end := strobePos + s.Config.K
		if end > len(seq) {
			end = len(seq)
		}
		items = append(items, scored{combined, secondaryScore(sec, seq[strobePos:end])})
	}
	return windowMinima(items, s.Config.WindowSize)
}
