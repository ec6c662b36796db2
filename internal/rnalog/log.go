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

// Package rnalog is the module's single structured-logging entry point: a
// process-wide *zap.SugaredLogger, initialized once and retrieved
// everywhere else through L().
package rnalog

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	mu      sync.Mutex
	logger  *zap.SugaredLogger
)

// Init constructs the process-wide logger. env selects the encoder:
// "production" (the default for any value other than "development") emits
// JSON; "development" emits zap's human-readable console format with
// caller info. Init is safe to call more than once; the most recent call
// wins. Callers that never call Init get a lazily-constructed production
// logger from the first L() call.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	logger = build(env)
}

func build(env string) *zap.SugaredLogger {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		// Logger construction only fails on a malformed Config, which
		// zap's own constructors never produce; fall back to a no-op
		// logger rather than panic out of a library package.
		l = zap.NewNop()
	}
	return l.Sugar()
}

// L returns the process-wide logger, constructing a default production
// logger from the RNABLOOM_LOG_ENV environment variable on first use if
// Init was never called.
func L() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = build(os.Getenv("RNABLOOM_LOG_ENV"))
	}
	return logger
}
