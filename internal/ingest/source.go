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

package ingest

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Source produces one sequence record at a time, with an optional
// per-base quality string. A single Source is driven by exactly one
// worker (spec: "sequence parsing is single-producer per source"); it
// need not be safe for concurrent use.
type Source interface {
	// Next returns the next record. ok is false at clean end of input
	// (err is nil in that case). A non-nil err means the source is
	// malformed and must not be called again.
	Next() (seq, qual []byte, ok bool, err error)
	Name() string
}

// LineRecordSource reads newline-delimited records of the form
// header / sequence [/ quality], the line-oriented plain-text format of
// spec §6's accepted input formats.
type LineRecordSource struct {
	name       string
	sc         *bufio.Scanner
	hasQuality bool
}

// NewLineRecordSource wraps r as a LineRecordSource. hasQuality selects
// whether each record carries a third quality line.
func NewLineRecordSource(name string, r io.Reader, hasQuality bool) *LineRecordSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &LineRecordSource{name: name, sc: sc, hasQuality: hasQuality}
}

func (s *LineRecordSource) Name() string { return s.name }

func (s *LineRecordSource) Next() (seq, qual []byte, ok bool, err error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return nil, nil, false, errors.Wrap(err, "reading header line")
		}
		return nil, nil, false, nil // clean EOF
	}
	// header line content is not interpreted, only its presence as a
	// record delimiter.

	if !s.sc.Scan() {
		return nil, nil, false, errors.New("record truncated: missing sequence line")
	}
	seq = append([]byte(nil), s.sc.Bytes()...)

	if !s.hasQuality {
		return seq, nil, true, nil
	}

	if !s.sc.Scan() {
		return nil, nil, false, errors.New("record truncated: missing quality line")
	}
	qual = append([]byte(nil), s.sc.Bytes()...)
	if len(qual) != len(seq) {
		return nil, nil, false, errors.Errorf("quality length %d does not match sequence length %d", len(qual), len(seq))
	}
	return seq, qual, true, nil
}

var packedBases = [4]byte{'A', 'C', 'G', 'T'}

// PackedSource reads the internal bit-packed format: a little-endian
// uint32 base count, followed by ceil(count/4) bytes holding 2 bits per
// base (N-bases are not representable and so are disallowed by
// construction). A zero-length record at the very start of a read is
// treated as clean end of input.
type PackedSource struct {
	name string
	r    io.Reader
}

// NewPackedSource wraps r as a PackedSource.
func NewPackedSource(name string, r io.Reader) *PackedSource {
	return &PackedSource{name: name, r: r}
}

func (s *PackedSource) Name() string { return s.name }

func (s *PackedSource) Next() (seq, qual []byte, ok bool, err error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(s.r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, nil, false, nil
		}
		return nil, nil, false, errors.Wrap(err, "reading packed record length prefix")
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n == 0 {
		return nil, nil, false, nil
	}

	packedLen := (int(n) + 3) / 4
	packed := make([]byte, packedLen)
	if _, err := io.ReadFull(s.r, packed); err != nil {
		return nil, nil, false, errors.Wrap(err, "reading packed record body")
	}

	seq = make([]byte, n)
	for i := 0; i < int(n); i++ {
		b := packed[i/4]
		shift := uint((3 - i%4) * 2)
		code := (b >> shift) & 0x3
		seq[i] = packedBases[code]
	}
	return seq, nil, true, nil
}
