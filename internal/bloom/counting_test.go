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

package bloom

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingIncrementMonotone(t *testing.T) {
	f := NewCounting(1<<14, 4)
	const h = 0xdeadbeefcafef00d

	require.EqualValues(t, 0, f.Count(h))
	for want := uint8(1); want < 10; want++ {
		got := f.IncrementAndGet(h)
		assert.Equal(t, want, got)
		assert.Equal(t, want, f.Count(h))
	}
}

func TestCountingSaturates(t *testing.T) {
	f := NewCounting(1<<14, 4)
	const h = 42

	for i := 0; i < 300; i++ {
		f.Increment(h)
	}
	assert.EqualValues(t, 255, f.Count(h))
}

func TestCountingConservativeUpdate(t *testing.T) {
	// Three insertions of key 1 report exactly 3, and key 2, whose
	// counters are disjoint from key 1's here, still reads 0: the
	// conservative update only bumps counters at the pre-update minimum.
	f := NewCounting(1<<10, 2)
	f.Increment(1)
	f.Increment(1)
	f.Increment(1)
	assert.EqualValues(t, 3, f.Count(1))
	assert.LessOrEqual(t, f.Count(2), uint8(0))
}

func TestCountingConcurrentIncrement(t *testing.T) {
	f := NewCounting(1<<10, 3)
	const h = 7
	const perGoroutine = 25
	const goroutines = 8

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				f.Increment(h)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, goroutines*perGoroutine, f.Count(h))
}

func TestCountingClear(t *testing.T) {
	f := NewCounting(1<<12, 3)
	f.Increment(99)
	f.Clear()
	assert.EqualValues(t, 0, f.Count(99))
}
