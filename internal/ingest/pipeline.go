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

package ingest

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ad3002/RNA-Bloom/internal/dbgraph"
	"github.com/ad3002/RNA-Bloom/internal/khash"
	"github.com/ad3002/RNA-Bloom/internal/rnalog"
)

// Mode selects whether population inserts unconditionally or only
// reinforces k-mers already present, per spec §4.D.
type Mode int

const (
	// Add inserts every k-mer hash into DBG/CBF unconditionally.
	Add Mode = iota
	// AddIfPresent increments CBF only when DBG already contains the
	// k-mer, for merging secondary datasets without inflating the graph.
	AddIfPresent
)

// Config fixes the population pipeline's worker count and window policy.
type Config struct {
	NumWorkers  int
	Mode        Mode
	MinQuality  byte // 0 disables the quality-threshold window cut
	HasQuality  bool
}

// Stats accumulates population outcomes across all sources. Its counters
// are updated concurrently and are safe to read only after Run returns.
type Stats struct {
	SequencesProcessed int64
	KmersInserted      int64
	WindowsRejected    int64

	mu      sync.Mutex
	Sources []*FormatError
}

func (s *Stats) addFormatError(fe *FormatError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sources = append(s.Sources, fe)
}

// Pipeline drives a bounded pool of workers, one per input source up to
// Config.NumWorkers, inserting every valid window's k-mers (and, when
// configured, paired k-mers) into graph.
type Pipeline struct {
	Config Config
	Graph  *dbgraph.Graph
}

// Run processes sources to completion or until ctx is cancelled. A
// malformed source reports its FormatError into the returned Stats and is
// abandoned; it never aborts the other sources or causes Run itself to
// return an error (kind-2 errors are local, per the error handling
// design).
func (p *Pipeline) Run(ctx context.Context, sources []Source) (*Stats, error) {
	workers := p.Config.NumWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	g, ctx := errgroup.WithContext(ctx)
	stats := &Stats{}

	for _, src := range sources {
		src := src
		if err := sem.Acquire(ctx, 1); err != nil {
			return stats, err
		}
		g.Go(func() error {
			defer sem.Release(1)
			p.runSource(ctx, src, stats)
			return nil
		})
	}

	err := g.Wait()
	return stats, err
}

func (p *Pipeline) runSource(ctx context.Context, src Source, stats *Stats) {
	log := rnalog.L().With("source", src.Name())
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		seq, qual, ok, err := src.Next()
		if err != nil {
			fe := &FormatError{Source: src.Name(), Err: err}
			log.Warnw("source rejected", "error", err)
			stats.addFormatError(fe)
			return
		}
		if !ok {
			return
		}
		atomic.AddInt64(&stats.SequencesProcessed, 1)

		for _, win := range validWindows(seq, qual, p.Config.MinQuality) {
			p.insertWindow(seq[win.start:win.end], stats)
		}
	}
}

type window struct{ start, end int }

// validWindows scans seq (and, if non-nil, qual) with an explicit small
// state machine — not a regex, per guidance against pattern-matching
// libraries for a binary alphabet test — and returns the maximal
// sub-ranges whose bases are all in {A,C,G,T} and (if qual is given)
// every quality byte is >= minQuality. A single out-of-alphabet or
// below-threshold base splits the sequence into two independent windows.
func validWindows(seq, qual []byte, minQuality byte) []window {
	var out []window
	start := -1
	for i, b := range seq {
		good := isACGT(b)
		if good && qual != nil && qual[i] < minQuality {
			good = false
		}
		switch {
		case good && start < 0:
			start = i
		case !good && start >= 0:
			out = append(out, window{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, window{start, len(seq)})
	}
	return out
}

func isACGT(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	default:
		return false
	}
}

func (p *Pipeline) insertWindow(win []byte, stats *Stats) {
	g := p.Graph
	k := g.Params.K
	if len(win) < k {
		return
	}

	cur, err := khash.NewCursor(k, g.Params.Stranded)
	if err != nil {
		return
	}
	if !cur.Start(win, 0) {
		return
	}
	p.insertKmer(cur.Canonical(), stats)
	for {
		h, ok := cur.Next()
		if !ok {
			break
		}
		p.insertKmer(h, stats)
	}

	if g.PKBF != nil && g.Params.DFrag > 0 {
		insertPaired(win, k, g.Params.DFrag, g.Params.Stranded, g.PKBF)
	}
	if g.RPKBF != nil && g.Params.DRead > 0 {
		insertPaired(win, k, g.Params.DRead, g.Params.Stranded, g.RPKBF)
	}
}

func (p *Pipeline) insertKmer(h uint64, stats *Stats) {
	g := p.Graph
	switch p.Config.Mode {
	case AddIfPresent:
		if !g.DBG.Has(h) {
			return
		}
		g.CBF.Increment(h)
	default:
		g.DBG.AddAtomic(h)
		g.CBF.Increment(h)
	}
	atomic.AddInt64(&stats.KmersInserted, 1)
}

func insertPaired(win []byte, k, d int, stranded bool, pf interface {
	AddAtomic(left, right, combined uint64)
}) {
	pc, err := khash.NewPairedCursor(k, d, stranded)
	if err != nil || !pc.Start(win, 0) {
		return
	}
	insertOne := func() {
		c := pc.Combined()
		pf.AddAtomic(khash.LeftHalf(c), khash.RightHalf(c), c)
	}
	insertOne()
	for {
		_, ok := pc.Next()
		if !ok {
			break
		}
		insertOne()
	}
}
