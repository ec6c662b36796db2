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

package statsio

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuartilesNoObservations(t *testing.T) {
	a := NewAccumulator(10, rand.New(rand.NewSource(1)))
	_, ok := a.Quartiles()
	assert.False(t, ok)
}

func TestQuartilesExactReservoir(t *testing.T) {
	a := NewAccumulator(100, rand.New(rand.NewSource(1)))
	for i := 1; i <= 100; i++ {
		a.Observe(i)
	}
	q, ok := a.Quartiles()
	require.True(t, ok)
	assert.Equal(t, 1, q.Min)
	assert.Equal(t, 100, q.Max)
	assert.InDelta(t, 50, q.Median, 2)
}

func TestQuartilesReservoirCapsSampleSize(t *testing.T) {
	a := NewAccumulator(50, rand.New(rand.NewSource(7)))
	for i := 1; i <= 10000; i++ {
		a.Observe(i)
	}
	assert.Len(t, a.res, 50)
	q, ok := a.Quartiles()
	require.True(t, ok)
	assert.GreaterOrEqual(t, q.Min, 1)
	assert.LessOrEqual(t, q.Max, 10000)
	assert.Less(t, q.Min, q.Max)
}

func TestWriteFormatsKeyValueLines(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, Quartiles{Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5}))
	assert.Equal(t, "min:1\nQ1:2\nM:3\nQ3:4\nmax:5\n", buf.String())
}
