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
	"github.com/pkg/errors"

	"github.com/ad3002/RNA-Bloom/internal/bloom"
	"github.com/ad3002/RNA-Bloom/internal/khash"
)

// Params fixes the hash-family configuration a Graph was populated with.
// Every filter under a Graph must have been built with these same K/M, or
// queries silently return wrong answers (there is no cross-check; the
// population pipeline and the graph are constructed from one shared
// Params value by convention).
type Params struct {
	K        int
	M        int // number of hash functions, informational (filters already carry it)
	Stranded bool
	DRead    int
	DFrag    int
}

// Graph is an implicit de Bruijn graph: a view over Bloom filters and the
// khash family that never materializes nodes or edges, only on-demand
// membership and count queries. A Graph exclusively owns its filters and
// has no Close method: dropping the last reference lets Go GC reclaim
// their backing arrays (there is no explicit unmap beyond what
// bloom.LoadFilterMapped's cleanup closures already provide).
type Graph struct {
	DBG   *bloom.Filter
	CBF   *bloom.CountingFilter
	PKBF  *bloom.PairedFilter // fragment-distance (d_frag) paired k-mers, optional
	RPKBF *bloom.PairedFilter // read-distance (d_read) paired k-mers, optional

	Params Params
}

// New assembles a Graph from already-constructed filters. PKBF and RPKBF
// may be nil when paired-k-mer tracking is not configured.
func New(params Params, dbg *bloom.Filter, cbf *bloom.CountingFilter, pkbf, rpkbf *bloom.PairedFilter) *Graph {
	return &Graph{DBG: dbg, CBF: cbf, PKBF: pkbf, RPKBF: rpkbf, Params: params}
}

// Contains reports whether the canonical hash h is a member of the graph.
func (g *Graph) Contains(h uint64) bool { return g.DBG.Has(h) }

// Count returns the counting filter's estimate for h, or 0 if h was never
// observed (or the graph carries no counting filter).
func (g *Graph) Count(h uint64) uint8 {
	if g.CBF == nil {
		return 0
	}
	return g.CBF.Count(h)
}

var extBases = [4]byte{'A', 'C', 'G', 'T'}

// Successors returns, in A,C,G,T order, the Kmer values obtainable by
// extending k by one base at its right end and that pass DBG.contains.
// k.Bytes must be populated and exactly Params.K long; successor hashes
// are computed via khash's O(1) rolling update, so no candidate byte
// string is materialized for bases that fail the membership check.
func (g *Graph) Successors(k Kmer) ([]Kmer, error) {
	if len(k.Bytes) != g.Params.K {
		return nil, errors.New("dbgraph: Successors requires a fully-populated k-mer of length K")
	}
	cur, err := khash.NewCursor(g.Params.K, g.Params.Stranded)
	if err != nil {
		return nil, err
	}
	if !cur.Start(k.Bytes, 0) {
		return nil, errors.New("dbgraph: k-mer bytes contain a non-ACGT base")
	}
	hashes, _ := cur.Successors()

	out := make([]Kmer, 0, 4)
	for i, h := range hashes {
		if !g.DBG.Has(h) {
			continue
		}
		next := make([]byte, g.Params.K)
		copy(next, k.Bytes[1:])
		next[g.Params.K-1] = extBases[i]
		out = append(out, Kmer{Hash: h, Count: g.Count(h), Bytes: next})
	}
	return out, nil
}

// Predecessors is the mirror of Successors: it extends k by one base at
// its left end, dropping the last base, in A,C,G,T order.
func (g *Graph) Predecessors(k Kmer) ([]Kmer, error) {
	if len(k.Bytes) != g.Params.K {
		return nil, errors.New("dbgraph: Predecessors requires a fully-populated k-mer of length K")
	}
	cur, err := khash.NewCursor(g.Params.K, g.Params.Stranded)
	if err != nil {
		return nil, err
	}
	if !cur.Start(k.Bytes, 0) {
		return nil, errors.New("dbgraph: k-mer bytes contain a non-ACGT base")
	}
	hashes, _ := cur.Predecessors()

	out := make([]Kmer, 0, 4)
	for i, h := range hashes {
		if !g.DBG.Has(h) {
			continue
		}
		prev := make([]byte, g.Params.K)
		prev[0] = extBases[i]
		copy(prev[1:], k.Bytes[:g.Params.K-1])
		out = append(out, Kmer{Hash: h, Count: g.Count(h), Bytes: prev})
	}
	return out, nil
}

// ContainsPairedFrag reports whether the k-mer pair (head, tail) at
// fragment distance d_frag was observed during population, via PKBF.
func (g *Graph) ContainsPairedFrag(head, tail uint64) bool {
	return g.containsPaired(g.PKBF, head, tail)
}

// ContainsPairedRead is ContainsPairedFrag's read-distance (d_read)
// counterpart, via RPKBF.
func (g *Graph) ContainsPairedRead(head, tail uint64) bool {
	return g.containsPaired(g.RPKBF, head, tail)
}

func (g *Graph) containsPaired(pf *bloom.PairedFilter, head, tail uint64) bool {
	if pf == nil {
		return false
	}
	combined := khash.Combine(head, tail)
	return pf.Contains(khash.LeftHalf(combined), khash.RightHalf(combined), combined)
}

// Assemble concatenates the head k-mer's bases with the last base of
// every subsequent k-mer in kmers, reproducing the walked sequence.
// Every element must carry Bytes (raw bases are never re-derived from a
// hash, which is one-way). assemble(getKmers(s)) == s for any N-free s,
// by construction: each subsequent k-mer's Bytes overlaps its
// predecessor's by K-1 bases in a valid walk, so only the new base is
// appended.
func (g *Graph) Assemble(kmers []Kmer) ([]byte, error) {
	if len(kmers) == 0 {
		return nil, errors.New("dbgraph: Assemble requires at least one k-mer")
	}
	if len(kmers[0].Bytes) != g.Params.K {
		return nil, errors.New("dbgraph: Assemble requires every k-mer to carry its raw bytes")
	}
	out := make([]byte, 0, g.Params.K+len(kmers)-1)
	out = append(out, kmers[0].Bytes...)
	for _, km := range kmers[1:] {
		if len(km.Bytes) != g.Params.K {
			return nil, errors.New("dbgraph: Assemble requires every k-mer to carry its raw bytes")
		}
		out = append(out, km.Bytes[g.Params.K-1])
	}
	return out, nil
}
