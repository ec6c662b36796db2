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
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	farm "github.com/dgryski/go-farm"
)

// Combine mixes two canonical k-mer hashes into the single combined hash
// spec §3 stores for a paired k-mer (K_i, K_{i+d}). It is a fixed,
// associative-enough rotate-and-xor construction followed by an
// independent 64-bit fingerprint of the pair, so that Combine(a,b) and
// Combine(b,a) differ (paired k-mers are ordered) and collisions between
// unrelated pairs require matching both the rotate-xor term and the
// fingerprint term.
func Combine(head, tail uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], head)
	binary.LittleEndian.PutUint64(buf[8:16], tail)

	mixed := bits.RotateLeft64(head, 31) ^ tail
	return mixed ^ farm.Fingerprint64(buf[:])
}

// LeftHalf and RightHalf derive the two half-key hashes a PairedFilter
// indexes independently of the combined key, using xxhash (a distinct
// hash family from Combine's go-farm fingerprint, so the three filters of
// a PairedFilter are not just bit-slices of the same value).
func LeftHalf(combined uint64) uint64 {
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], combined)
	buf[8] = 'L'
	return xxhash.Sum64(buf[:])
}

func RightHalf(combined uint64) uint64 {
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], combined)
	buf[8] = 'R'
	return xxhash.Sum64(buf[:])
}

// PairedCursor walks a sequence producing, at every valid position,
// the combined hash of the k-mer at the head cursor and the k-mer d
// positions downstream (spec §4.A, "paired variant"). It drives two
// Cursor values d apart.
type PairedCursor struct {
	head, tail *Cursor
	d          int
	ready      bool
}

// NewPairedCursor constructs a PairedCursor for distance d (the tail
// cursor runs d k-mer positions downstream of the head).
func NewPairedCursor(k, d int, stranded bool) (*PairedCursor, error) {
	head, err := NewCursor(k, stranded)
	if err != nil {
		return nil, err
	}
	tail, err := NewCursor(k, stranded)
	if err != nil {
		return nil, err
	}
	return &PairedCursor{head: head, tail: tail, d: d}, nil
}

// Start positions both cursors so the head begins at seq[begin:] and the
// tail begins d k-mer positions downstream. It returns false if either
// window is invalid or doesn't fit.
func (p *PairedCursor) Start(seq []byte, begin int) bool {
	p.ready = p.head.Start(seq, begin) && p.tail.Start(seq, begin+p.d)
	return p.ready
}

// Next advances both cursors one base and returns the new combined hash.
func (p *PairedCursor) Next() (combined uint64, ok bool) {
	if !p.ready {
		return 0, false
	}
	_, hok := p.head.Next()
	_, tok := p.tail.Next()
	p.ready = hok && tok
	if !p.ready {
		return 0, false
	}
	return p.Combined(), true
}

// Combined returns the combined hash of the current head/tail k-mer pair.
func (p *PairedCursor) Combined() uint64 {
	return Combine(p.head.Canonical(), p.tail.Canonical())
}

// Head and Tail expose the underlying cursors, e.g. so a caller can also
// fetch LeftHalf/RightHalf-ready canonical hashes directly.
func (p *PairedCursor) Head() *Cursor { return p.head }
func (p *PairedCursor) Tail() *Cursor { return p.tail }

// StrobeCursor selects, within a downstream window [wMin,wMax], the
// position minimizing a secondary hash, and emits the combined hash of the
// anchor k-mer and the chosen strobe k-mer (spec §4.A, "strobe variant").
type StrobeCursor struct {
	anchor     *Cursor
	wMin, wMax int
	seq        []byte
	k          int
	stranded   bool
}

// NewStrobeCursor constructs a StrobeCursor with the given k-mer size and
// downstream search window.
func NewStrobeCursor(k, wMin, wMax int, stranded bool) (*StrobeCursor, error) {
	anchor, err := NewCursor(k, stranded)
	if err != nil {
		return nil, err
	}
	if wMin < 0 || wMax < wMin {
		wMin, wMax = 0, 0
	}
	return &StrobeCursor{anchor: anchor, wMin: wMin, wMax: wMax, k: k, stranded: stranded}, nil
}

// Strobe computes the strobemer hash anchored at seq[begin:begin+k]: it
// scans candidate k-mers at offsets [begin+k+wMin, begin+k+wMax] from the
// anchor, picks the one whose secondary hash (xxhash of its canonical
// hash, an independent function of the primary ntHash) is minimal, and
// returns Combine(anchor, strobe). ok is false if the anchor itself is
// invalid or no candidate strobe position fits within seq.
func (s *StrobeCursor) Strobe(seq []byte, begin int) (combined uint64, strobePos int, ok bool) {
	if !s.anchor.Start(seq, begin) {
		return 0, 0, false
	}
	anchorHash := s.anchor.Canonical()

	lo := begin + s.k + s.wMin
	hi := begin + s.k + s.wMax
	if hi+s.k > len(seq) {
		hi = len(seq) - s.k
	}
	if lo > hi {
		return 0, 0, false
	}

	best := -1
	var bestSecondary uint64
	cand, err := NewCursor(s.k, s.stranded)
	if err != nil {
		return 0, 0, false
	}
	for pos := lo; pos <= hi; pos++ {
		if !cand.Start(seq, pos) {
			continue
		}
		secondary := xxhash.Sum64(hashBytes(cand.Canonical()))
		if best == -1 || secondary < bestSecondary {
			best = pos
			bestSecondary = secondary
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	cand.Start(seq, best)
	return Combine(anchorHash, cand.Canonical()), best, true
}

func hashBytes(h uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], h)
	return buf[:]
}
