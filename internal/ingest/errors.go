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

// Package ingest implements the population pipeline: reading input
// sources, scanning their valid windows, and inserting k-mer and
// paired-k-mer hashes into a graph's filters.
package ingest

import "fmt"

// FormatError reports a malformed input source. It is a kind-2 error
// (input format) in the scheme: the source that produced it is abandoned,
// but a FormatError never aborts the pipeline — Pipeline.Run collects one
// per failing source in Stats and continues the rest.
type FormatError struct {
	Source string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ingest: source %q: %v", e.Source, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
