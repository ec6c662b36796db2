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

// Package rnaconfig holds the module's configuration surface: one flat
// struct enumerating every tunable named in the external interfaces, and
// ConfigError, the kind-1 (configuration) error that Config.Validate
// returns. Constructors in other packages do not return it.
package rnaconfig

import "fmt"

// Config enumerates the module's full configuration surface. The blank
// field forces callers to use named initialization
// (rnaconfig.Config{K: 25, ...}), the same idiom blobloom's own Config
// uses to keep positional-literal call sites from compiling.
type Config struct {
	// Hash family / filter sizing
	K                    int
	NumHashes            int
	Stranded             bool
	MaxFPR               float64
	TargetBytesPerFilter uint64

	// Traversal / assembly kernel
	MaxTipLength         int
	Lookahead            int
	MaxCovGradient       float64
	MaxIndelSize         int
	PercentIdentity      float64
	MinNumKmerPairs      int
	DRead                int
	DFrag                int
	MinOverlap           int
	Bound                int
	MaxErrCorrIterations int
	MinKmerCov           uint8

	// Subsampling
	MaxMultiplicity           int
	MaxNonMatchingChainLength int
	SampleSize                int

	// Pipeline
	NumWorkers int
	QueueDepth int

	// ScreeningScope governs when the screening filter in
	// internal/assemble is reset; see ScreeningScope's doc.
	ScreeningScope ScreeningScope

	_ struct{}
}

// ScreeningScope controls the lifetime of the representation-screening
// filter a caller drives across internal/assemble.Screen calls.
type ScreeningScope int

const (
	// ScreeningGlobal never clears the filter: one running
	// deduplication set for the whole run. This is the default: spec
	// §4.E frames screening as "online deduplication" against a single
	// running filter.
	ScreeningGlobal ScreeningScope = iota
	// ScreeningPerStratum clears the filter between assembly strata
	// (e.g. between a single-end pass and a paired-end pass), so each
	// stratum's representation is judged independently.
	ScreeningPerStratum
)

// ConfigError is the kind-1 (configuration) error value: fatal at
// construction, never a per-candidate outcome.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rnaconfig: %s: %s", e.Field, e.Reason)
}

// Validate checks every field for an in-range value, returning the first
// violation found (not an aggregate) so the caller can fix and re-run.
func (c Config) Validate() *ConfigError {
	switch {
	case c.K < 1 || c.K > 63:
		return &ConfigError{"K", "must be in [1,63]"}
	case c.NumHashes < 1:
		return &ConfigError{"NumHashes", "must be >= 1"}
	case c.MaxFPR <= 0 || c.MaxFPR >= 1:
		return &ConfigError{"MaxFPR", "must be in (0,1)"}
	case c.TargetBytesPerFilter == 0:
		return &ConfigError{"TargetBytesPerFilter", "must be > 0"}
	case c.MaxTipLength < 0:
		return &ConfigError{"MaxTipLength", "must be >= 0"}
	case c.Lookahead < 0:
		return &ConfigError{"Lookahead", "must be >= 0"}
	case c.MaxCovGradient < 0 || c.MaxCovGradient > 1:
		return &ConfigError{"MaxCovGradient", "must be in [0,1]"}
	case c.MaxIndelSize < 0:
		return &ConfigError{"MaxIndelSize", "must be >= 0"}
	case c.PercentIdentity < 0 || c.PercentIdentity > 1:
		return &ConfigError{"PercentIdentity", "must be in [0,1]"}
	case c.MinNumKmerPairs < 0:
		return &ConfigError{"MinNumKmerPairs", "must be >= 0"}
	case c.DRead < 0:
		return &ConfigError{"DRead", "must be >= 0"}
	case c.DFrag < 0:
		return &ConfigError{"DFrag", "must be >= 0"}
	case c.MinOverlap < 0:
		return &ConfigError{"MinOverlap", "must be >= 0"}
	case c.Bound < 0:
		return &ConfigError{"Bound", "must be >= 0"}
	case c.MaxErrCorrIterations < 0:
		return &ConfigError{"MaxErrCorrIterations", "must be >= 0"}
	case c.MaxMultiplicity < 1:
		return &ConfigError{"MaxMultiplicity", "must be >= 1"}
	case c.SampleSize < 0:
		return &ConfigError{"SampleSize", "must be >= 0"}
	case c.NumWorkers < 1:
		return &ConfigError{"NumWorkers", "must be >= 1"}
	case c.QueueDepth < 0:
		return &ConfigError{"QueueDepth", "must be >= 0"}
	}
	return nil
}
