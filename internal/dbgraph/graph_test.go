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

package dbgraph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad3002/RNA-Bloom/internal/bloom"
	"github.com/ad3002/RNA-Bloom/internal/khash"
)

// populate builds a Graph over seq with the given k, inserting every
// k-mer's canonical hash into DBG and CBF.
func populate(t *testing.T, seq []byte, k int) *Graph {
	t.Helper()
	dbg := bloom.New(1<<16, 6)
	cbf := bloom.NewCounting(1<<16, 6)

	cur, err := khash.NewCursor(k, false)
	require.NoError(t, err)
	require.True(t, cur.Start(seq, 0))

	dbg.Add(cur.Canonical())
	cbf.Increment(cur.Canonical())
	for {
		h, ok := cur.Next()
		if !ok {
			break
		}
		dbg.Add(h)
		cbf.Increment(h)
	}

	return New(Params{K: k, M: 6, Stranded: false}, dbg, cbf, nil, nil)
}

func TestGraphContainsAllKmersOfSeed(t *testing.T) {
	seq := []byte("AAACCCGGGTTT")
	const k = 5
	g := populate(t, seq, k)

	for pos := 0; pos+k <= len(seq); pos++ {
		h, ok := khash.Canonical(seq[pos:pos+k], false)
		require.True(t, ok)
		assert.True(t, g.Contains(h), "expected k-mer at pos %d to be present", pos)
	}
}

func TestGraphSuccessorsOfSeed(t *testing.T) {
	seq := []byte("AAACCCGGGTTT")
	const k = 5
	g := populate(t, seq, k)

	head := Kmer{Bytes: []byte("AAACC")}
	head.Hash, _ = khash.Canonical(head.Bytes, false)

	succ, err := g.Successors(head)
	require.NoError(t, err)
	require.Len(t, succ, 1)
	assert.Equal(t, "AACCC", string(succ[0].Bytes))
}

func TestGraphAssembleReproducesSequence(t *testing.T) {
	seq := []byte("AAACCCGGGTTT")
	const k = 5
	g := populate(t, seq, k)

	var kmers []Kmer
	for pos := 0; pos+k <= len(seq); pos++ {
		b := append([]byte(nil), seq[pos:pos+k]...)
		h, ok := khash.Canonical(b, false)
		require.True(t, ok)
		kmers = append(kmers, Kmer{Hash: h, Bytes: b})
	}

	got, err := g.Assemble(kmers)
	require.NoError(t, err)
	assert.Equal(t, seq, got)
}

func TestGraphPredecessorsOfSeed(t *testing.T) {
	seq := []byte("AAACCCGGGTTT")
	const k = 5
	g := populate(t, seq, k)

	tail := Kmer{Bytes: []byte("AACCC")}
	tail.Hash, _ = khash.Canonical(tail.Bytes, false)

	pred, err := g.Predecessors(tail)
	require.NoError(t, err)
	require.Len(t, pred, 1)
	assert.Equal(t, "AAACC", string(pred[0].Bytes))
}

func TestGraphPairedQueries(t *testing.T) {
	const k, d = 4, 3
	dbg := bloom.New(1<<14, 6)
	cbf := bloom.NewCounting(1<<14, 6)
	pkbf := bloom.NewPaired(1<<14, 6)

	paired, err := khash.NewPairedCursor(k, d, false)
	require.NoError(t, err)
	seq := []byte("ACGTACGTACGTACGT")
	require.True(t, paired.Start(seq, 0))

	combined := paired.Combined()
	pkbf.Add(khash.LeftHalf(combined), khash.RightHalf(combined), combined)

	g := New(Params{K: k, M: 6, Stranded: false, DFrag: d}, dbg, cbf, pkbf, nil)

	headHash := paired.Head().Canonical()
	tailHash := paired.Tail().Canonical()
	assert.True(t, g.ContainsPairedFrag(headHash, tailHash))
	assert.False(t, g.ContainsPairedRead(headHash, tailHash))
}

func TestGraphSnapshotRoundTrip(t *testing.T) {
	seq := []byte("AAACCCGGGTTT")
	const k = 5
	g := populate(t, seq, k)

	buf := new(bytes.Buffer)
	require.NoError(t, g.Dump(buf, false))

	g2, err := Load(buf)
	require.NoError(t, err)
	assert.Equal(t, g.Params, g2.Params)

	for pos := 0; pos+k <= len(seq); pos++ {
		h, ok := khash.Canonical(seq[pos:pos+k], false)
		require.True(t, ok)
		assert.True(t, g2.Contains(h))
		assert.Equal(t, g.Count(h), g2.Count(h))
	}
}

func TestAssembleRejectsMissingBytes(t *testing.T) {
	g := populate(t, []byte("AAACCCGGGTTT"), 5)
	_, err := g.Assemble([]Kmer{{Hash: 42}})
	assert.Error(t, err)
}
