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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeRespectsMaxBits(t *testing.T) {
	nbits, nhashes := Optimize(Config{
		NKeys:   1e9,
		FPRate:  1e-6,
		MaxBits: 8 * (1 << 28),
	})
	assert.LessOrEqual(t, nbits, uint64(8*(1<<28)))
	assert.Greater(t, nhashes, 0)
}

func TestOptimizePanicsOnBadFPR(t *testing.T) {
	assert.Panics(t, func() { Optimize(Config{NKeys: 10, FPRate: 0}) })
	assert.Panics(t, func() { Optimize(Config{NKeys: 10, FPRate: 1.5}) })
}

func TestOptimizeCountingScalesUp(t *testing.T) {
	plainBits, _ := Optimize(Config{NKeys: 100000, FPRate: 0.01})
	countingBits, _ := OptimizeCounting(Config{NKeys: 100000, FPRate: 0.01})
	assert.Greater(t, countingBits, plainBits)
}

func TestNewOptimizedAchievesRoughFPR(t *testing.T) {
	const n = 50000
	f := NewOptimized(Config{NKeys: n, FPRate: 0.01})

	for _, k := range randomU64(n, 21) {
		f.Add(k)
	}

	var falsePositives int
	probes := randomU64(n, 22)
	for _, k := range probes {
		if f.Has(k) {
			falsePositives++
		}
	}
	require.Less(t, float64(falsePositives)/float64(len(probes)), 0.05)
}
