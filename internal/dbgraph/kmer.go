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

// Package dbgraph implements the implicit, probabilistic de Bruijn graph:
// a view over a set of Bloom filters and a hash family that never
// materializes nodes or edges, only k-mer membership and count queries.
package dbgraph

// Kmer is a transient view of one k-mer: its canonical hash (the only
// thing actually stored in the filters), its observed count, and — when
// the caller has it on hand from a read or an assembly walk — its raw
// bases. Hashes are one-way, so Bytes is nil unless the producer
// populated it explicitly; Assemble requires it.
type Kmer struct {
	Hash  uint64
	Count uint8
	Bytes []byte
}

// HasBytes reports whether this Kmer carries its raw bases.
func (k Kmer) HasBytes() bool { return k.Bytes != nil }
