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

import (
	"math/rand"

	"github.com/chmduquesne/rollinghash"
	"github.com/chmduquesne/rollinghash/buzhash32"

	"github.com/ad3002/RNA-Bloom/internal/khash"
)

// buzhashTable is a fixed, package-level random byte-hash table for
// buzhash32, built once the same way muscato_screen's genTables builds
// its per-hash tables: 256 distinct random uint32 values. It backs an
// independent secondary hash used only to pick the minimizing position
// within a window — selection is deliberately decoupled from the primary
// ntHash that is actually stored, the same separation StrobeCursor uses,
// so that window-minimum selection doesn't inherit any bias the primary
// hash might have near its own minimum.
var buzhashTable = buildBuzhashTable(0x5eed)

func buildBuzhashTable(seed int64) [256]uint32 {
	rng := rand.New(rand.NewSource(seed))
	seen := make(map[uint32]bool, 256)
	var tab [256]uint32
	for i := range tab {
		for {
			v := uint32(rng.Int63())
			if !seen[v] {
				tab[i] = v
				seen[v] = true
				break
			}
		}
	}
	return tab
}

func newSecondaryHash() rollinghash.Hash32 {
	return buzhash32.NewFromUint32Array(buzhashTable)
}

func secondaryScore(h rollinghash.Hash32, window []byte) uint32 {
	h.Reset()
	h.Write(window)
	return h.Sum32()
}

// scored pairs a signature hash with its independent secondary score.
type scored struct {
	hash  uint64
	score uint32
}

// windowMinima reduces a position-ordered stream of scored signatures to
// the per-window minimum-score entries, deduplicating consecutive repeats
// (the standard minimizer compression: a run of windows sharing the same
// minimizing position collapses to one emitted signature). Shared by all
// three subsampling strategies.
func windowMinima(items []scored, windowSize int) []uint64 {
	if windowSize < 1 {
		windowSize = 1
	}
	if len(items) == 0 {
		return nil
	}

	var out []uint64
	lastPos := -1
	for start := 0; start+windowSize <= len(items) || start == 0; start++ {
		end := start + windowSize
		if end > len(items) {
			end = len(items)
		}
		best := start
		for i := start + 1; i < end; i++ {
			if items[i].score < items[best].score {
				best = i
			}
		}
		if best != lastPos {
			out = append(out, items[best].hash)
			lastPos = best
		}
		if end == len(items) {
			break
		}
	}
	return out
}

// slideMinima walks seq's canonical k-mer hashes and reduces them to
// per-window minimizers via windowMinima.
func slideMinima(seq []byte, k, windowSize int, stranded bool) []uint64 {
	cur, err := khash.NewCursor(k, stranded)
	if err != nil || !cur.Start(seq, 0) {
		return nil
	}

	sec := newSecondaryHash()
	var items []scored
	items = append(items, scored{cur.Canonical(), secondaryScore(sec, cur.Bytes())})
	for {
		_, ok := cur.Next()
		if !ok {
			break
		}
		items = append(items, scored{cur.Canonical(), secondaryScore(sec, cur.Bytes())})
	}
	return windowMinima(items, windowSize)
}

// MinimizerStrategy keys its signatures by per-window minimizer hashes
// (spec §4.F, "minimizer-based").
type MinimizerStrategy struct {
	Config Config
}

func (m MinimizerStrategy) Signatures(seq []byte) []uint64 {
	return slideMinima(seq, m.Config.K, m.Config.WindowSize, m.Config.Stranded)
}
