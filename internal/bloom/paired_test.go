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
)

func TestPairedFilterContains(t *testing.T) {
	p := NewPaired(1<<14, 6)

	p.Add(1, 2, 3)
	assert.True(t, p.Contains(1, 2, 3))

	// Any one of the three checks failing must fail the whole pair.
	assert.False(t, p.Contains(1, 2, 999999))
	assert.False(t, p.Contains(1, 999999, 3))
	assert.False(t, p.Contains(999999, 2, 3))
}

func TestPairedFilterQuadraticFPRIntuition(t *testing.T) {
	// Sanity check on the shape of the FPR reduction: with a filter
	// small enough to force collisions, requiring three independent
	// checks should reject more than requiring the combined key alone.
	p := NewPaired(1<<10, 4)
	single := New(1<<10, 4)

	for i := uint64(0); i < 200; i++ {
		p.Add(i, i+1, i*7919)
		single.Add(i * 7919)
	}

	var pairedHits, singleHits int
	for i := uint64(10000); i < 10500; i++ {
		if p.Contains(i, i+1, i*7919) {
			pairedHits++
		}
		if single.Has(i * 7919) {
			singleHits++
		}
	}
	assert.LessOrEqual(t, pairedHits, singleHits)
}

func TestScreeningFilter(t *testing.T) {
	s := NewScreening(1<<12, 5)
	assert.False(t, s.Has(123))
	s.Add(123)
	assert.True(t, s.Has(123))
}
