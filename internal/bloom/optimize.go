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

import (
	"math"

	"github.com/dustin/go-humanize"
)

// A Config holds parameters for Optimize or NewOptimized.
type Config struct {
	// Desired lower bound on the false positive rate when NKeys distinct
	// keys have been inserted.
	FPRate float64

	// Maximum size of the filter in bits. Zero means no limit.
	MaxBits uint64

	// Expected number of distinct keys.
	NKeys int

	_ struct{} // force named fields
}

// NewOptimized is shorthand for New(Optimize(cfg)).
func NewOptimized(cfg Config) *Filter {
	nbits, nhashes := Optimize(cfg)
	return New(nbits, nhashes)
}

// NewCountingOptimized is shorthand for NewCounting(Optimize(cfg)), with
// NKeys scaled up by the expected per-key insertion multiplicity before
// sizing — see OptimizeCounting.
func NewCountingOptimized(cfg Config) *CountingFilter {
	nbits, nhashes := OptimizeCounting(cfg)
	return NewCounting(nbits, nhashes)
}

// Optimize returns numbers of bits and hash functions that achieve the
// false positive rate described by cfg for a blocked (plain) filter.
func Optimize(cfg Config) (nbits uint64, nhashes int) {
	n := float64(cfg.NKeys)
	p := cfg.FPRate
	if p <= 0 || p > 1 {
		panic("bloom: false positive rate must be > 0 and <= 1")
	}
	if n == 0 {
		n = 1
	}

	c := math.Ceil(-math.Log2(p) / math.Ln2)
	if int(c) < len(correctC) {
		c = float64(correctC[int(c)])
	} else {
		c *= 3
	}
	bits := uint64(c * n)

	if bits%BlockBits != 0 {
		bits += BlockBits - bits%BlockBits
	}

	maxbits := uint64(MaxBits)
	if cfg.MaxBits != 0 && cfg.MaxBits < maxbits {
		maxbits = cfg.MaxBits
	}
	if bits > maxbits {
		bits = maxbits - maxbits%BlockBits
	}

	c = float64(bits) / n
	nhashes = int(math.Round(c * math.Ln2))
	if nhashes < 1 {
		nhashes = 1
	}

	return bits, nhashes
}

// OptimizeCounting is Optimize's counterpart for a CountingFilter. A
// counting filter's coverage estimate degrades once a counter saturates,
// so its key budget is inflated by the expected per-key coverage depth
// before the usual blocked-filter sizing formula is applied.
func OptimizeCounting(cfg Config) (nbits uint64, nhashes int) {
	const expectedDepth = 4 // typical per-key insertion multiplicity
	scaled := cfg
	scaled.NKeys = cfg.NKeys * expectedDepth
	return Optimize(scaled)
}

// correctC maps c = m/n for a vanilla Bloom filter to the c' for a blocked
// Bloom filter (Putze, Sanders & Singler's Table I, extended to zero).
var correctC = []byte{
	1, 1, 2, 4, 5,
	6, 7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 18, 20, 21, 23,
	25, 26, 28, 30, 32, 35, 38, 40, 44, 48, 51, 58, 64, 74, 90,
}

// FPRate estimates the false positive rate of a blocked Bloom filter with
// nbits bits and nhashes hash functions after nkeys distinct keys have
// been added (Putze et al.'s Equation 3).
func FPRate(nkeys int, nbits uint64, nhashes int) float64 {
	c := float64(nbits) / float64(nkeys)
	k := float64(nhashes)

	var sum float64
	for i := float64(0); ; i++ {
		prev := sum
		sum += math.Exp(logPoisson(BlockBits/c, i) + logFPRBlock(BlockBits/i, k))
		if prev > 0 && sum/prev-1 < 1e-8 {
			break
		}
		if i > BlockBits {
			break
		}
	}
	return sum
}

func logFPRBlock(c, k float64) float64 {
	return k * math.Log1p(-math.Exp(-k/c))
}

func logPoisson(lambda, k float64) float64 {
	if k < 0 {
		panic("bloom: negative k in logPoisson")
	}
	lg, _ := math.Lgamma(k + 1)
	return k*math.Log(lambda) - lambda - lg
}

// HealthReport is a human-readable summary of a filter's current fill
// level, for the runtime health checks spec §4.B requires filters to
// expose.
type HealthReport struct {
	Bits        uint64
	PopCount    uint64
	EstimateFPR float64
}

func (r HealthReport) String() string {
	return humanize.Comma(int64(r.Bits)) + " bits, " +
		humanize.Comma(int64(r.PopCount)) + " set, fpr~" +
		humanize.FormatFloat("0.000000", r.EstimateFPR)
}

// Health returns f's current HealthReport.
func (f *Filter) Health() HealthReport {
	return HealthReport{
		Bits:        f.NumBits(),
		PopCount:    f.PopCount(),
		EstimateFPR: f.EstimatedFPR(),
	}
}
