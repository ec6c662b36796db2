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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ad3002/RNA-Bloom/internal/bloom"
)

// graphMagic frames a full graph snapshot; each array's own payload is
// still wrapped in internal/bloom's per-filter magic (BLF1/CBF1), nested
// inside this outer header.
var graphMagic = [8]byte{'R', 'B', 'G', 'R', 'A', 'P', 'H', 0}

const graphVersion = 1

// present bits record which optional filters follow the fixed DBG/CBF
// pair in the stream.
const (
	hasPKBF  = 1 << 0
	hasRPKBF = 1 << 1
)

type graphHeader struct {
	Magic    [8]byte
	Version  uint32
	Present  uint32
	K        uint32
	M        uint32
	Stranded uint32
	DRead    uint32
	DFrag    uint32
}

// Dump writes a full graph snapshot to w: a graphHeader, then DBG, CBF,
// and (if present) PKBF's and RPKBF's three filters each, in that fixed
// order. compressed is forwarded to every nested filter dump.
func (g *Graph) Dump(w io.Writer, compressed bool) error {
	h := graphHeader{
		Magic:   graphMagic,
		Version: graphVersion,
		K:       uint32(g.Params.K),
		M:       uint32(g.Params.M),
		DRead:   uint32(g.Params.DRead),
		DFrag:   uint32(g.Params.DFrag),
	}
	if g.Params.Stranded {
		h.Stranded = 1
	}
	if g.PKBF != nil {
		h.Present |= hasPKBF
	}
	if g.RPKBF != nil {
		h.Present |= hasRPKBF
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return errors.Wrap(err, "dbgraph: writing snapshot header")
	}

	if _, err := g.DBG.Dump(w, compressed); err != nil {
		return errors.Wrap(err, "dbgraph: writing DBG")
	}
	if _, err := g.CBF.Dump(w, compressed); err != nil {
		return errors.Wrap(err, "dbgraph: writing CBF")
	}
	if g.PKBF != nil {
		if err := dumpPaired(w, g.PKBF, compressed); err != nil {
			return errors.Wrap(err, "dbgraph: writing PKBF")
		}
	}
	if g.RPKBF != nil {
		if err := dumpPaired(w, g.RPKBF, compressed); err != nil {
			return errors.Wrap(err, "dbgraph: writing RPKBF")
		}
	}
	return nil
}

// Load reads a full graph snapshot written by Dump.
func Load(r io.Reader) (*Graph, error) {
	var h graphHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "dbgraph: reading snapshot header")
	}
	if h.Magic != graphMagic {
		return nil, errors.Errorf("dbgraph: bad snapshot magic %q", h.Magic)
	}
	if h.Version != graphVersion {
		return nil, errors.Errorf("dbgraph: unsupported snapshot version %d", h.Version)
	}

	dbg, err := bloom.LoadFilter(r)
	if err != nil {
		return nil, errors.Wrap(err, "dbgraph: reading DBG")
	}
	cbf, err := bloom.LoadCounting(r)
	if err != nil {
		return nil, errors.Wrap(err, "dbgraph: reading CBF")
	}

	var pkbf, rpkbf *bloom.PairedFilter
	if h.Present&hasPKBF != 0 {
		if pkbf, err = loadPaired(r); err != nil {
			return nil, errors.Wrap(err, "dbgraph: reading PKBF")
		}
	}
	if h.Present&hasRPKBF != 0 {
		if rpkbf, err = loadPaired(r); err != nil {
			return nil, errors.Wrap(err, "dbgraph: reading RPKBF")
		}
	}

	params := Params{
		K:        int(h.K),
		M:        int(h.M),
		Stranded: h.Stranded != 0,
		DRead:    int(h.DRead),
		DFrag:    int(h.DFrag),
	}
	return New(params, dbg, cbf, pkbf, rpkbf), nil
}

func dumpPaired(w io.Writer, pf *bloom.PairedFilter, compressed bool) error {
	for _, f := range []*bloom.Filter{pf.Left, pf.Right, pf.Combined} {
		if _, err := f.Dump(w, compressed); err != nil {
			return err
		}
	}
	return nil
}

func loadPaired(r io.Reader) (*bloom.PairedFilter, error) {
	left, err := bloom.LoadFilter(r)
	if err != nil {
		return nil, err
	}
	right, err := bloom.LoadFilter(r)
	if err != nil {
		return nil, err
	}
	combined, err := bloom.LoadFilter(r)
	if err != nil {
		return nil, err
	}
	return &bloom.PairedFilter{Left: left, Right: right, Combined: combined}, nil
}
