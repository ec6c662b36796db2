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
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomU64(n int, seed int64) []uint64 {
	r := rand.New(rand.NewSource(seed))
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = r.Uint64()
	}
	return keys
}

func TestFilterAddHas(t *testing.T) {
	t.Parallel()

	keys := randomU64(10000, 0x758e326)

	for _, cfg := range []struct {
		nbits   uint64
		nhashes int
	}{
		{1, 2},
		{1024, 4},
		{100, 3},
		{10000, 7},
		{1000000, 14},
	} {
		f := New(cfg.nbits, cfg.nhashes)
		require.GreaterOrEqual(t, f.NumBits(), cfg.nbits)
		require.LessOrEqual(t, f.NumBits(), cfg.nbits+BlockBits)

		for _, k := range keys {
			f.Add(k)
		}
		for _, k := range keys {
			assert.True(t, f.Has(k))
		}

		f.Clear()
		for _, k := range keys {
			assert.False(t, f.Has(k))
		}
	}
}

func TestFilterNoFalseNegatives(t *testing.T) {
	const n = 100000
	f := NewOptimized(Config{FPRate: .01, NKeys: n})

	keys := randomU64(n, 1)
	for _, k := range keys {
		f.Add(k)
	}
	for _, k := range keys {
		require.True(t, f.Has(k))
	}

	var falsePositives int
	for _, k := range randomU64(n, 2) {
		if f.Has(k) {
			falsePositives++
		}
	}
	assert.Less(t, float64(falsePositives)/n, 0.05)
}

func TestFilterUnion(t *testing.T) {
	f := New(1<<16, 6)
	g := New(1<<16, 6)

	a := randomU64(500, 11)
	b := randomU64(500, 12)
	for _, k := range a {
		f.Add(k)
	}
	for _, k := range b {
		g.Add(k)
	}

	union := New(1<<16, 6)
	for _, k := range a {
		union.Add(k)
	}
	for _, k := range b {
		union.Add(k)
	}

	f.Union(g)
	for i := range f.b {
		assert.Equal(t, union.b[i], f.b[i])
	}
}

func TestAddAtomicConcurrent(t *testing.T) {
	f := New(1<<16, 6)
	keys := randomU64(4000, 3)

	var wg sync.WaitGroup
	half := len(keys) / 2
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, k := range keys[:half] {
			f.AddAtomic(k)
		}
	}()
	go func() {
		defer wg.Done()
		for _, k := range keys[half:] {
			f.AddAtomic(k)
		}
	}()
	wg.Wait()

	for _, k := range keys {
		assert.True(t, f.Has(k))
	}
}

func TestHealth(t *testing.T) {
	f := New(1<<16, 6)
	for _, k := range randomU64(1000, 4) {
		f.Add(k)
	}
	h := f.Health()
	assert.Equal(t, f.NumBits(), h.Bits)
	assert.Greater(t, h.PopCount, uint64(0))
	assert.Greater(t, h.EstimateFPR, 0.0)
	assert.Less(t, h.EstimateFPR, 1.0)
	assert.NotEmpty(t, h.String())
}
