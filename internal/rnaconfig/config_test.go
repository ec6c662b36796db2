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

package rnaconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		K:                    25,
		NumHashes:            6,
		MaxFPR:               0.01,
		TargetBytesPerFilter: 1 << 20,
		MaxTipLength:         10,
		Lookahead:            3,
		MaxCovGradient:       0.5,
		MaxIndelSize:         3,
		PercentIdentity:      0.9,
		MinNumKmerPairs:      2,
		DRead:                100,
		DFrag:                300,
		MinOverlap:           10,
		Bound:                500,
		MaxErrCorrIterations: 3,
		MaxMultiplicity:      2,
		SampleSize:           1000,
		NumWorkers:           4,
		QueueDepth:           16,
	}
}

func TestValidConfigPasses(t *testing.T) {
	assert.Nil(t, validConfig().Validate())
}

func TestInvalidKRejected(t *testing.T) {
	c := validConfig()
	c.K = 0
	err := c.Validate()
	assert.NotNil(t, err)
	assert.Equal(t, "K", err.Field)
}

func TestInvalidMaxFPRRejected(t *testing.T) {
	c := validConfig()
	c.MaxFPR = 1.5
	err := c.Validate()
	assert.NotNil(t, err)
	assert.Equal(t, "MaxFPR", err.Field)
}

func TestZeroNumWorkersRejected(t *testing.T) {
	c := validConfig()
	c.NumWorkers = 0
	err := c.Validate()
	assert.NotNil(t, err)
	assert.Equal(t, "NumWorkers", err.Field)
}
