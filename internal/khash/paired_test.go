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

package khash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := uint64(11), uint64(22)
	assert.NotEqual(t, Combine(a, b), Combine(b, a))
}

func TestCombineDeterministic(t *testing.T) {
	a, b := uint64(0x1234), uint64(0x5678)
	assert.Equal(t, Combine(a, b), Combine(a, b))
}

func TestLeftHalfRightHalfDiffer(t *testing.T) {
	c := Combine(1, 2)
	assert.NotEqual(t, LeftHalf(c), RightHalf(c))
}

func TestPairedCursorMatchesIndependentCombine(t *testing.T) {
	const k, d = 4, 3
	seq := []byte("ACGTACGTACGTACGT")

	p, err := NewPairedCursor(k, d, false)
	require.NoError(t, err)
	require.True(t, p.Start(seq, 0))

	head, err := NewCursor(k, false)
	require.NoError(t, err)
	require.True(t, head.Start(seq, 0))
	tail, err := NewCursor(k, false)
	require.NoError(t, err)
	require.True(t, tail.Start(seq, d))

	assert.Equal(t, Combine(head.Canonical(), tail.Canonical()), p.Combined())

	pc, ok := p.Next()
	require.True(t, ok)
	head.Next()
	tail.Next()
	assert.Equal(t, Combine(head.Canonical(), tail.Canonical()), pc)
}

func TestPairedCursorStartFailsWhenTailOutOfRange(t *testing.T) {
	p, err := NewPairedCursor(4, 100, false)
	require.NoError(t, err)
	assert.False(t, p.Start([]byte("ACGTACGT"), 0))
}

func TestStrobeCursorPicksPositionWithinWindow(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGTACGTACGT")
	s, err := NewStrobeCursor(4, 0, 4, false)
	require.NoError(t, err)

	_, pos, ok := s.Strobe(seq, 0)
	require.True(t, ok)
	assert.GreaterOrEqual(t, pos, 4)
	assert.LessOrEqual(t, pos, 8)
}

func TestStrobeCursorFailsPastSequenceEnd(t *testing.T) {
	seq := []byte("ACGTACGT")
	s, err := NewStrobeCursor(4, 0, 4, false)
	require.NoError(t, err)
	_, _, ok := s.Strobe(seq, len(seq)-4)
	assert.False(t, ok)
}
