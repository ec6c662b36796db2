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

import "sync"

// Stats tallies terminal outcomes across every candidate the kernel has
// processed. It is the only visible effect of a kind-4/5 local error:
// no exception or error value ever leaves the kernel for a per-candidate
// outcome, only this counter (spec §7).
type Stats struct {
	mu       sync.Mutex
	Emitted  int64
	Rejected map[RejectReason]int64
}

// NewStats constructs an empty Stats.
func NewStats() *Stats {
	return &Stats{Rejected: make(map[RejectReason]int64)}
}

// Record tallies c's terminal state.
func (s *Stats) Record(c *Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch c.State {
	case Emitted:
		s.Emitted++
	case Rejected:
		s.Rejected[c.Reason]++
	}
}

// Snapshot returns a point-in-time copy safe for the caller to range over.
func (s *Stats) Snapshot() (emitted int64, rejected map[RejectReason]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[RejectReason]int64, len(s.Rejected))
	for k, v := range s.Rejected {
		cp[k] = v
	}
	return s.Emitted, cp
}
