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

// Package khash implements the rolling k-mer hash family that indexes the
// probabilistic de Bruijn graph: a canonical (strand-agnostic) hash with
// O(1) incremental update, successor/predecessor hash enumeration, and
// paired/strobe hash composition.
//
// It produces exactly one 64-bit hash per k-mer — the forward, reverse-
// complement, or canonical ntHash value. The further m independent
// Bloom-filter positions that spec §3 calls H[0..m-1] are not computed
// here: they are internal/bloom's enhanced-double-hashing split of that
// single 64-bit value, so khash's only job is producing a good one.
package khash

import "fmt"

// MaxK is the largest k-mer size the rolling update supports: ntHash's
// left-rotation scheme aliases for k >= 64.
const MaxK = 63

// baseHash/rcHash are the random per-base seeds of the ntHash construction
// (Mohamadi, Chu, Vandervalk & Birol, 2016). N bases hash to zero, by
// convention: a window containing one ends the current k-mer and forces a
// fresh Start.
var baseHash = [256]uint64{
	'A': 0x3c8bfbb395c60474,
	'C': 0x3193c18562a02b4c,
	'G': 0x20323ed082572324,
	'T': 0x295549f54be24456,
}

var rcBaseHash = [256]uint64{
	'A': 0x295549f54be24456,
	'C': 0x20323ed082572324,
	'G': 0x3193c18562a02b4c,
	'T': 0x3c8bfbb395c60474,
}

func isACGT(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	default:
		return false
	}
}

func rotl(v uint64, n uint) uint64 {
	n &= 63
	if n == 0 {
		return v
	}
	return (v << n) | (v >> (64 - n))
}

func rotr(v uint64, n uint) uint64 {
	n &= 63
	if n == 0 {
		return v
	}
	return (v >> n) | (v << (64 - n))
}

// Cursor is a rolling canonical k-mer hash over a byte slice. Start
// initializes the window; Next advances it one base at a time in O(1).
//
// The forward/reverse-complement update performs a true one-bit rotation
// keyed by absolute position, not a byte-index modulo: spec §9's REDESIGN
// FLAGS raises this as an open question ("msTab[in][k%64]" vs. a
// byte-index-modulo bit setter observed in the original), and it is
// resolved here in favor of the bit-rotating update, since only that
// choice satisfies the canonical-hash and successor-containment
// invariants spec §8 requires (see SPEC_FULL.md §5).
type Cursor struct {
	seq      []byte
	k        uint
	pos      int // index of the first base of the current window
	fh, rh   uint64
	stranded bool
	valid    bool
}

// NewCursor constructs a Cursor for k-mers of size k over stranded mode.
// When stranded is false, Canonical returns min(forward, reverse
// complement); when true, it always returns the forward hash.
func NewCursor(k int, stranded bool) (*Cursor, error) {
	if k < 1 || k > MaxK {
		return nil, fmt.Errorf("khash: k=%d out of range [1,%d]", k, MaxK)
	}
	return &Cursor{k: uint(k), stranded: stranded}, nil
}

// K returns the cursor's configured k-mer size.
func (c *Cursor) K() int { return int(c.k) }

// Start positions the cursor at seq[begin:begin+k]. It returns false, with
// the cursor left invalid, if that window contains a byte outside
// {A,C,G,T} or does not fit in seq.
func (c *Cursor) Start(seq []byte, begin int) bool {
	c.seq = seq
	c.pos = begin
	c.valid = false

	end := begin + int(c.k)
	if begin < 0 || end > len(seq) {
		return false
	}
	for _, b := range seq[begin:end] {
		if !isACGT(b) {
			return false
		}
	}

	var fh, rh uint64
	for i := 0; i < int(c.k); i++ {
		fh ^= rotl(baseHash[seq[begin+i]], c.k-1-uint(i))
		rh ^= rotl(rcBaseHash[seq[end-1-i]], c.k-1-uint(i))
	}
	c.fh, c.rh = fh, rh
	c.valid = true
	return true
}

// Next advances the window by one base (to seq[pos+1:pos+1+k]) and returns
// the new canonical hash along with whether the new window is valid. A
// byte outside {A,C,G,T} entering the window invalidates the cursor; the
// caller must call Start again to resume.
func (c *Cursor) Next() (hash uint64, ok bool) {
	if !c.valid {
		return 0, false
	}
	end := c.pos + int(c.k)
	if end >= len(c.seq) {
		c.valid = false
		return 0, false
	}
	in := c.seq[end]
	if !isACGT(in) {
		c.valid = false
		return 0, false
	}
	out := c.seq[c.pos]

	c.fh = rotl(c.fh, 1)
	c.fh ^= rotl(baseHash[out], c.k)
	c.fh ^= baseHash[in]

	c.rh = rotr(c.rh, 1)
	c.rh ^= rotr(rcBaseHash[out], 1)
	c.rh ^= rotl(rcBaseHash[in], c.k-1)

	c.pos++
	c.valid = true
	return c.Canonical(), true
}

// Canonical returns the current window's canonical (or forward, if
// stranded) hash. Valid only after a successful Start or Next.
func (c *Cursor) Canonical() uint64 {
	if c.stranded {
		return c.fh
	}
	if c.rh < c.fh {
		return c.rh
	}
	return c.fh
}

// Forward returns the current window's forward-strand hash.
func (c *Cursor) Forward() uint64 { return c.fh }

// ReverseComplement returns the current window's reverse-complement hash.
func (c *Cursor) ReverseComplement() uint64 { return c.rh }

// Pos returns the index of the first base of the current window.
func (c *Cursor) Pos() int { return c.pos }

// Bytes returns the k bases of the current window.
func (c *Cursor) Bytes() []byte {
	return c.seq[c.pos : c.pos+int(c.k)]
}

var extBases = [4]byte{'A', 'C', 'G', 'T'}

// Successors returns, in A,C,G,T order, the canonical hashes obtainable by
// appending each base to the current k-mer and dropping its first base —
// i.e. the hash of each of the four possible 1-base right shifts — without
// materializing the extended k-mer string. The boolean for a given
// position is false only when the corresponding canonical hash could not
// be computed (never, for the in-memory cursor; kept for symmetry with
// hash-only callers that reconstruct from raw hash state).
func (c *Cursor) Successors() (hashes [4]uint64, ok [4]bool) {
	for i, b := range extBases {
		fh := rotl(c.fh, 1)
		fh ^= rotl(baseHash[c.seq[c.pos]], c.k)
		fh ^= baseHash[b]

		rh := rotr(c.rh, 1)
		rh ^= rotr(rcBaseHash[c.seq[c.pos]], 1)
		rh ^= rotl(rcBaseHash[b], c.k-1)

		hashes[i] = canonicalOf(fh, rh, c.stranded)
		ok[i] = true
	}
	return hashes, ok
}

// Predecessors returns, in A,C,G,T order, the canonical hashes obtainable
// by prepending each base to the current k-mer and dropping its last base
// — the four possible 1-base left shifts.
func (c *Cursor) Predecessors() (hashes [4]uint64, ok [4]bool) {
	last := c.seq[c.pos+int(c.k)-1]
	for i, b := range extBases {
		fh := rotr(c.fh, 1)
		fh ^= rotr(baseHash[last], 1)
		fh ^= rotl(baseHash[b], c.k-1)

		rh := rotl(c.rh, 1)
		rh ^= rotl(rcBaseHash[last], c.k)
		rh ^= rcBaseHash[b]

		hashes[i] = canonicalOf(fh, rh, c.stranded)
		ok[i] = true
	}
	return hashes, ok
}

func canonicalOf(fh, rh uint64, stranded bool) uint64 {
	if stranded || rh >= fh {
		return fh
	}
	return rh
}

// Canonical computes the canonical hash of a single in-memory k-mer
// without a Cursor, for one-off lookups (e.g. a bridging candidate built
// from raw bytes rather than a rolling scan).
func Canonical(kmer []byte, stranded bool) (uint64, bool) {
	var fh, rh uint64
	k := len(kmer)
	for i, b := range kmer {
		if !isACGT(b) {
			return 0, false
		}
		fh ^= rotl(baseHash[b], uint(k-1-i))

		rc := kmer[k-1-i]
		rh ^= rotl(rcBaseHash[rc], uint(k-1-i))
	}
	return canonicalOf(fh, rh, stranded), true
}
