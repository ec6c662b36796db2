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

// A PairedFilter holds three plain filters sharing one capacity: one over
// left half-keys, one over right half-keys, and one over the combined key.
// A pair is "present" only if all three membership checks hold, which
// reduces false positives roughly quadratically compared to a single
// filter over the combined key alone (spec §3, "Paired-keys Bloom
// filter").
type PairedFilter struct {
	Left     *Filter
	Right    *Filter
	Combined *Filter
}

// NewPaired constructs a PairedFilter whose three filters each have nbits
// bits and nhashes hash functions.
func NewPaired(nbits uint64, nhashes int) *PairedFilter {
	return &PairedFilter{
		Left:     New(nbits, nhashes),
		Right:    New(nbits, nhashes),
		Combined: New(nbits, nhashes),
	}
}

// Add inserts a combined paired-key hash h, along with its left- and
// right-half keys as derived by the caller (internal/khash.LeftHalf /
// RightHalf), into the three underlying filters.
func (p *PairedFilter) Add(left, right, combined uint64) {
	p.Left.Add(left)
	p.Right.Add(right)
	p.Combined.Add(combined)
}

// AddAtomic is the concurrency-safe counterpart of Add.
func (p *PairedFilter) AddAtomic(left, right, combined uint64) {
	p.Left.AddAtomic(left)
	p.Right.AddAtomic(right)
	p.Combined.AddAtomic(combined)
}

// Contains reports whether the pair identified by (left, right, combined)
// has been added: true only if all three half-key and combined-key checks
// hold.
func (p *PairedFilter) Contains(left, right, combined uint64) bool {
	return p.Left.Has(left) && p.Right.Has(right) && p.Combined.Has(combined)
}

// A ScreeningFilter is a plain filter used to track k-mers already written
// to output, for online deduplication of emitted transcripts (spec §4.E,
// "representation screening"). It has the same shape as Filter; the
// distinct name documents its distinct role and lifetime (it is written to
// throughout emission, not just during population).
type ScreeningFilter = Filter

// NewScreening is shorthand for New, named for readability at call sites
// that construct the screening filter specifically.
func NewScreening(nbits uint64, nhashes int) *ScreeningFilter {
	return New(nbits, nhashes)
}
