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

func reverseComplementBytes(s []byte) []byte {
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	out := make([]byte, len(s))
	for i, b := range s {
		out[len(s)-1-i] = comp[b]
	}
	return out
}

func TestCanonicalMatchesReverseComplement(t *testing.T) {
	for _, kmer := range [][]byte{
		[]byte("AAACC"),
		[]byte("GATTACA"),
		[]byte("ACGTACGTACG"),
	} {
		h1, ok1 := Canonical(kmer, false)
		require.True(t, ok1)
		h2, ok2 := Canonical(reverseComplementBytes(kmer), false)
		require.True(t, ok2)
		assert.Equal(t, h1, h2)
	}
}

func TestCanonicalRejectsNonACGT(t *testing.T) {
	_, ok := Canonical([]byte("AANCC"), false)
	assert.False(t, ok)
}

func TestCursorNextMatchesStartAtEachPosition(t *testing.T) {
	seq := []byte("AAACCCGGGTTT")
	const k = 5

	roll, err := NewCursor(k, false)
	require.NoError(t, err)
	require.True(t, roll.Start(seq, 0))

	fresh, err := NewCursor(k, false)
	require.NoError(t, err)

	for pos := 0; pos+k <= len(seq); pos++ {
		require.True(t, fresh.Start(seq, pos))
		want := fresh.Canonical()

		if pos == 0 {
			assert.Equal(t, want, roll.Canonical())
			continue
		}
		got, ok := roll.Next()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestCursorStopsAtNonACGT(t *testing.T) {
	c, err := NewCursor(4, false)
	require.NoError(t, err)
	require.False(t, c.Start([]byte("ACNT"), 0))
}

func TestCursorSuccessorsContainActualNext(t *testing.T) {
	seq := []byte("AAACCCGGGTTTA")
	const k = 4

	c, err := NewCursor(k, false)
	require.NoError(t, err)
	require.True(t, c.Start(seq, 0))

	nextBase := seq[k]
	succ, ok := c.Successors()
	_, nextVal := c.Next()
	require.True(t, nextVal)

	idx := map[byte]int{'A': 0, 'C': 1, 'G': 2, 'T': 3}[nextBase]
	require.True(t, ok[idx])

	fresh, err := NewCursor(k, false)
	require.NoError(t, err)
	require.True(t, fresh.Start(seq, 1))
	assert.Equal(t, fresh.Canonical(), succ[idx])
}

func TestCanonicalIdempotent(t *testing.T) {
	c, err := NewCursor(8, false)
	require.NoError(t, err)
	require.True(t, c.Start([]byte("ACGTACGT"), 0))

	first := c.Canonical()
	second := c.Canonical()
	assert.Equal(t, first, second, "repeated Canonical() calls without advancing must agree")

	// the hash itself is already the fixed point: re-deriving the
	// canonical form of the bytes it came from must reproduce it.
	h, ok := Canonical([]byte("ACGTACGT"), false)
	require.True(t, ok)
	assert.Equal(t, h, first)
}

func TestStrandedModeAlwaysForward(t *testing.T) {
	c, err := NewCursor(4, true)
	require.NoError(t, err)
	require.True(t, c.Start([]byte("ACGT"), 0))
	assert.Equal(t, c.Forward(), c.Canonical())
}
