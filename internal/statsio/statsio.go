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

// Package statsio writes the fragment-length statistics side-file: a
// reservoir-sampled accumulator of observed fragment lengths, reduced to
// the min/Q1/median/Q3/max quartiles spec §6 names explicitly.
package statsio

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Accumulator is a concurrency-safe reservoir sampler over fragment
// lengths (spec §5, "Paired-k-mer queue for fragment stats"): workers
// feed it concurrently via Observe, and one consumer calls Quartiles once
// after population to derive the one-shot broadcast parameters.
type Accumulator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	cap  int
	seen int
	res  []int
}

// NewAccumulator constructs an Accumulator that retains up to sampleSize
// observations via reservoir sampling. rng may be nil, in which case a
// new source seeded from a fixed value is used — callers that need
// nondeterministic sampling should pass their own source.
func NewAccumulator(sampleSize int, rng *rand.Rand) *Accumulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Accumulator{rng: rng, cap: sampleSize}
}

// Observe records one fragment length, using Algorithm R reservoir
// sampling once the reservoir has filled.
func (a *Accumulator) Observe(length int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.seen++
	if len(a.res) < a.cap {
		a.res = append(a.res, length)
		return
	}
	if a.cap == 0 {
		return
	}
	j := a.rng.Intn(a.seen)
	if j < a.cap {
		a.res[j] = length
	}
}

// Quartiles reduces the current reservoir to min/Q1/median/Q3/max. It
// returns ok=false if no observations have been made yet.
func (a *Accumulator) Quartiles() (q Quartiles, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.res) == 0 {
		return Quartiles{}, false
	}
	sorted := append([]int(nil), a.res...)
	sort.Ints(sorted)

	pick := func(p float64) int {
		idx := int(p * float64(len(sorted)-1))
		return sorted[idx]
	}
	return Quartiles{
		Min:    sorted[0],
		Q1:     pick(0.25),
		Median: pick(0.5),
		Q3:     pick(0.75),
		Max:    sorted[len(sorted)-1],
	}, true
}

// Quartiles holds the fragment-length distribution summary written to the
// statistics side-file.
type Quartiles struct {
	Min, Q1, Median, Q3, Max int
}

// Write emits q as the key-value text lines spec §6 specifies:
// min:<int>, Q1:<int>, M:<int>, Q3:<int>, max:<int>.
func Write(w io.Writer, q Quartiles) error {
	bw := bufio.NewWriter(w)
	lines := [][2]interface{}{
		{"min", q.Min},
		{"Q1", q.Q1},
		{"M", q.Median},
		{"Q3", q.Q3},
		{"max", q.Max},
	}
	for _, kv := range lines {
		if _, err := fmt.Fprintf(bw, "%s:%d\n", kv[0], kv[1]); err != nil {
			return errors.Wrap(err, "statsio: writing statistics line")
		}
	}
	return bw.Flush()
}
