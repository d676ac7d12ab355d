// Package simulate runs independent prefetcher trace replays
// concurrently across a worker pool: each trace gets its own private
// Prefetcher and SimHost, so there is no shared mutable state between
// workers — each Prefetcher instance is still driven by only one
// goroutine at a time, even though many run in parallel.
package simulate

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/oisee/dcpt-prefetcher/pkg/prefetcher"
	"github.com/oisee/dcpt-prefetcher/pkg/trace"
	"github.com/sirupsen/logrus"
)

// Config controls a batch run.
type Config struct {
	NumWorkers       int
	CacheCapacity    int
	UsePrefetchQueue bool
	Metrics          *prefetcher.Metrics
	Log              logrus.FieldLogger
}

// Result is one trace file's outcome.
type Result struct {
	Path    string
	Summary trace.Summary
	Mode    prefetcher.Mode
	Err     error
}

// RunFiles replays each of paths through its own Prefetcher, distributed
// across cfg.NumWorkers goroutines (default runtime.NumCPU()). Results
// are returned in the same order as paths regardless of completion order.
func RunFiles(paths []string, cfg Config) []Result {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	results := make([]Result, len(paths))
	tasks := make(chan int, len(paths))
	for i := range paths {
		tasks <- i
	}
	close(tasks)

	var wg sync.WaitGroup
	for w := 0; w < cfg.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				results[idx] = runOne(paths[idx], cfg)
			}
		}()
	}
	wg.Wait()

	return results
}

func runOne(path string, cfg Config) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("open %s: %w", path, err)}
	}
	defer f.Close()

	events, err := trace.ReadEvents(f)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("parse %s: %w", path, err)}
	}

	rec := trace.NewRecorder()
	host := trace.NewSimHost(cfg.CacheCapacity, rec)
	p := prefetcher.New(
		host,
		prefetcher.WithLogger(cfg.Log.WithField("trace", path)),
		prefetcher.WithPrefetchQueue(cfg.UsePrefetchQueue),
		prefetcher.WithMetrics(cfg.Metrics),
	)

	summary := trace.Run(events, p, host, rec)
	return Result{Path: path, Summary: summary, Mode: p.Mode()}
}
