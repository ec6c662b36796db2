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
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Per-filter-kind magic, distinct from the graph-level "RBGRAPH\0" header
// that internal/dbgraph frames around a full graph snapshot.
var (
	magicPlain    = [4]byte{'B', 'L', 'F', '1'}
	magicCounting = [4]byte{'C', 'B', 'F', '1'}
)

const (
	flagCompressed = 1 << 0
)

// Dump writes f's header and raw backing array to w. When compressed is
// true, the payload is framed through an LZ4 writer (spec's snapshot
// format is silent on compression; this is an additive option, off by
// default, for filters too large to keep uncompressed on disk).
func (f *Filter) Dump(w io.Writer, compressed bool) (int64, error) {
	return dumpBlocks(w, magicPlain, f.NumHashes(), f.NumBits(), f.b, compressed)
}

// LoadFilter reads a Filter snapshot written by Dump into a newly
// allocated Filter.
func LoadFilter(r io.Reader) (*Filter, error) {
	nhashes, nbits, raw, err := loadBlocks(r, magicPlain)
	if err != nil {
		return nil, err
	}
	f := New(nbits, nhashes)
	if err := bytesToBlocks(raw, f.b); err != nil {
		return nil, err
	}
	return f, nil
}

// Dump writes a CountingFilter snapshot to w.
func (f *CountingFilter) Dump(w io.Writer, compressed bool) (int64, error) {
	return dumpCBlocks(w, f.NumHashes(), f.NumCounters(), f.c, compressed)
}

// LoadCounting reads a CountingFilter snapshot written by Dump.
func LoadCounting(r io.Reader) (*CountingFilter, error) {
	nhashes, ncounters, raw, err := loadCBlocks(r)
	if err != nil {
		return nil, err
	}
	f := NewCounting(ncounters, nhashes)
	if err := cbytesToBlocks(raw, f.c); err != nil {
		return nil, err
	}
	return f, nil
}

// header is the fixed-size preamble written before every filter payload:
// magic (4), flags (4), nhashes (4), n (8, bits or counters).
type header struct {
	Magic   [4]byte
	Flags   uint32
	NHashes uint32
	N       uint64
}

const headerSize = 4 + 4 + 4 + 8 // bytes written by binary.Write(header{})

func writeHeader(w io.Writer, magic [4]byte, nhashes int, n uint64, compressed bool) error {
	h := header{Magic: magic, NHashes: uint32(nhashes), N: n}
	if compressed {
		h.Flags |= flagCompressed
	}
	return binary.Write(w, binary.LittleEndian, h)
}

func readHeader(r io.Reader, want [4]byte) (header, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, errors.Wrap(err, "bloom: reading snapshot header")
	}
	if h.Magic != want {
		return h, errors.Errorf("bloom: bad snapshot magic %q, want %q", h.Magic, want)
	}
	return h, nil
}

func dumpBlocks(w io.Writer, magic [4]byte, nhashes int, nbits uint64, blocks []block, compressed bool) (int64, error) {
	if err := writeHeader(w, magic, nhashes, nbits, compressed); err != nil {
		return 0, err
	}
	raw := blocksToBytes(blocks)
	n, err := writePayload(w, raw, compressed)
	return int64(headerSize + n), err
}

func loadBlocks(r io.Reader, magic [4]byte) (nhashes int, nbits uint64, raw []byte, err error) {
	h, err := readHeader(r, magic)
	if err != nil {
		return 0, 0, nil, err
	}
	nwords := h.N / BlockBits * uint64(blockSize)
	raw, err = readPayload(r, int(nwords*4), h.Flags&flagCompressed != 0)
	return int(h.NHashes), h.N, raw, err
}

func dumpCBlocks(w io.Writer, nhashes int, ncounters uint64, blocks []cblock, compressed bool) (int64, error) {
	if err := writeHeader(w, magicCounting, nhashes, ncounters, compressed); err != nil {
		return 0, err
	}
	raw := cblocksToBytes(blocks)
	n, err := writePayload(w, raw, compressed)
	return int64(headerSize + n), err
}

func loadCBlocks(r io.Reader) (nhashes int, ncounters uint64, raw []byte, err error) {
	h, err := readHeader(r, magicCounting)
	if err != nil {
		return 0, 0, nil, err
	}
	nwords := h.N / BlockBits * uint64(cwordsPerBlock)
	raw, err = readPayload(r, int(nwords*4), h.Flags&flagCompressed != 0)
	return int(h.NHashes), h.N, raw, err
}

func writePayload(w io.Writer, raw []byte, compressed bool) (int, error) {
	if !compressed {
		return w.Write(raw)
	}
	zw := lz4.NewWriter(w)
	n, err := zw.Write(raw)
	if err != nil {
		return n, errors.Wrap(err, "bloom: lz4 compressing snapshot payload")
	}
	if err := zw.Close(); err != nil {
		return n, errors.Wrap(err, "bloom: closing lz4 writer")
	}
	return n, nil
}

func readPayload(r io.Reader, n int, compressed bool) ([]byte, error) {
	buf := make([]byte, n)
	var src io.Reader = r
	if compressed {
		src = lz4.NewReader(r)
	}
	if _, err := io.ReadFull(bufio.NewReader(src), buf); err != nil {
		return nil, errors.Wrap(err, "bloom: reading snapshot payload")
	}
	return buf, nil
}

func blocksToBytes(blocks []block) []byte {
	if len(blocks) == 0 {
		return nil
	}
	n := len(blocks) * blockSize * 4
	return unsafe.Slice((*byte)(unsafe.Pointer(&blocks[0])), n)
}

func bytesToBlocks(raw []byte, blocks []block) error {
	want := len(blocks) * blockSize * 4
	if len(raw) != want {
		return errors.Errorf("bloom: snapshot payload is %d bytes, want %d", len(raw), want)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&blocks[0])), want)
	copy(dst, raw)
	return nil
}

func cblocksToBytes(blocks []cblock) []byte {
	if len(blocks) == 0 {
		return nil
	}
	n := len(blocks) * cwordsPerBlock * 4
	return unsafe.Slice((*byte)(unsafe.Pointer(&blocks[0])), n)
}

func cbytesToBlocks(raw []byte, blocks []cblock) error {
	want := len(blocks) * cwordsPerBlock * 4
	if len(raw) != want {
		return errors.Errorf("bloom: snapshot payload is %d bytes, want %d", len(raw), want)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&blocks[0])), want)
	copy(dst, raw)
	return nil
}

// LoadFilterMapped memory-maps a filter snapshot from a regular file
// instead of copying its payload into the process heap. It is read-only:
// callers get a Filter whose backing array aliases the mapped pages,
// suitable for querying filters whose configured size exceeds available
// RAM (spec §4.B, arrays exceeding native 32-bit index limits).
func LoadFilterMapped(f *os.File) (*Filter, func() error, error) {
	var hdr header
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, errors.Wrap(err, "bloom: reading mmap snapshot header")
	}
	if hdr.Magic != magicPlain {
		return nil, nil, errors.Errorf("bloom: bad mmap snapshot magic %q", hdr.Magic)
	}
	if hdr.Flags&flagCompressed != 0 {
		return nil, nil, errors.New("bloom: cannot mmap a compressed snapshot")
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "bloom: mmap snapshot")
	}

	payload := m[headerSize:]
	nblocks := hdr.N / BlockBits
	blocks := unsafe.Slice((*block)(unsafe.Pointer(&payload[0])), nblocks)

	filt := &Filter{b: blocks, k: int(hdr.NHashes)}
	return filt, m.Unmap, nil
}
