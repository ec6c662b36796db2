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

package assemble

import (
	"fmt"
	"strings"
)

// PolyASignal is one detected poly-A signal window within an emitted
// transcript: its start position, supporting coverage, and the matched
// motif.
type PolyASignal struct {
	Pos   int
	Cov   int
	Motif string
}

// Header formats an emitted transcript's record header:
// <prefix><id> l=<length> c=<median-coverage> [F=[...]] [PAS=[...]]
// (spec §6, Output). Producing the header is kernel work even though a
// full output writer is out of scope: F=[...] and PAS=[...] are built
// from data — fragment provenance, coverage, signal positions — that
// only the kernel has.
func Header(prefix, id string, length, medianCov int, frag *FragInfo, signals []PolyASignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s l=%d c=%d", prefix, id, length, medianCov)
	if frag != nil {
		fmt.Fprintf(&b, " F=[%d:%d:%d]", frag.LeftLen, frag.RightLen, frag.GapFilled)
	}
	if len(signals) > 0 {
		parts := make([]string, len(signals))
		for i, s := range signals {
			parts[i] = fmt.Sprintf("%d:%d:%s", s.Pos, s.Cov, s.Motif)
		}
		fmt.Fprintf(&b, " PAS=[%s]", strings.Join(parts, ", "))
	}
	return b.String()
}

// RewriteOutput lowercases each detected poly-A signal window in seq,
// then, if uracil is set, rewrites T/t to U/u. Rewriting happens after
// signal masking so a lowercased poly-A window still reads as u's in
// uracil mode.
func RewriteOutput(seq []byte, signals []PolyASignal, uracil bool) []byte {
	out := append([]byte(nil), seq...)
	for _, s := range signals {
		end := s.Pos + len(s.Motif)
		if s.Pos < 0 || end > len(out) {
			continue
		}
		for i := s.Pos; i < end; i++ {
			out[i] = toLowerBase(out[i])
		}
	}
	if uracil {
		for i, b := range out {
			switch b {
			case 'T':
				out[i] = 'U'
			case 't':
				out[i] = 'u'
			}
		}
	}
	return out
}

func toLowerBase(b byte) byte {
	switch b {
	case 'A':
		return 'a'
	case 'C':
		return 'c'
	case 'G':
		return 'g'
	case 'T':
		return 't'
	default:
		return b
	}
}
