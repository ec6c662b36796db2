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

// Package assemble is the traversal/assembly kernel: greedy extension,
// paired-k-mer branch resolution, error correction, fragment
// reconstruction, and representation/artifact/chimera screening. Every
// operation here is read-only against the graph; functions take a
// borrowed *dbgraph.Graph and explicit state rather than methods on a
// closure over the graph.
package assemble

import "github.com/ad3002/RNA-Bloom/internal/dbgraph"

// State is a transcript candidate's position in the per-candidate state
// machine: Seed -> Extended -> (Corrected) -> Bridged -> Validated ->
// Screened -> Emitted, with Rejected as the only terminal failure state.
type State int

const (
	Seed State = iota
	Extended
	Corrected
	Bridged
	Validated
	Screened
	Emitted
	Rejected
)

func (s State) String() string {
	switch s {
	case Seed:
		return "Seed"
	case Extended:
		return "Extended"
	case Corrected:
		return "Corrected"
	case Bridged:
		return "Bridged"
	case Validated:
		return "Validated"
	case Screened:
		return "Screened"
	case Emitted:
		return "Emitted"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// RejectReason names why a candidate was dropped. It is never surfaced
// as a Go error (spec §7, kinds 4-5 are local); it is only ever recorded
// on a Candidate and tallied in a Stats accumulator.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonTipOnly
	ReasonChimeric
	ReasonArtifact
	ReasonRepresented
	ReasonLowCoverage
	ReasonNoPath
	ReasonAmbiguousBranch
	ReasonCycle
	ReasonInconsistent // fragment failed paired-k-mer (RPKBF) validation
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonTipOnly:
		return "tipOnly"
	case ReasonChimeric:
		return "chimeric"
	case ReasonArtifact:
		return "artifact"
	case ReasonRepresented:
		return "represented"
	case ReasonLowCoverage:
		return "lowCoverage"
	case ReasonNoPath:
		return "noPath"
	case ReasonAmbiguousBranch:
		return "ambiguousBranch"
	case ReasonCycle:
		return "cycle"
	case ReasonInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// FragInfo records the paired-read provenance of a bridged candidate, for
// the output header's F=[...] field.
type FragInfo struct {
	LeftLen, RightLen int
	GapFilled         int
}

// Candidate is a transcript under construction. Kmers always carries raw
// bytes: Assemble never re-derives bases from a hash.
type Candidate struct {
	Kmers  []dbgraph.Kmer
	State  State
	Reason RejectReason
	Frag   *FragInfo
}

// Sequence assembles the candidate's current k-mer walk into bases.
func (c *Candidate) Sequence(g *dbgraph.Graph) ([]byte, error) {
	return g.Assemble(c.Kmers)
}

// reject marks the candidate terminally Rejected with reason.
func reject(c *Candidate, reason RejectReason) *Candidate {
	c.State = Rejected
	c.Reason = reason
	return c
}
