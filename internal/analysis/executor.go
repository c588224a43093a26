// Package analysis fans out analyzer calls over the ordered photo set with
// a bounded worker pool and hands back results in input order.
//
// The executor never loses a photo: per-call failures are substituted with
// fallback text, so one result exists per input regardless of how the
// analyzer behaved.
package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fieldlens/internal/imageset"
	"fieldlens/internal/logging"
	"fieldlens/internal/vision"
)

// FallbackText replaces the analyzer's output for a photo whose call failed.
// The parser routes it into observations, so the photo still appears in
// every artifact.
const FallbackText = "Analysis failed - no visible issues noted."

// DefaultConcurrency is the worker pool size used when no value is set.
const DefaultConcurrency = 3

// Result carries the raw analyzer text for one photo. OK is false when the
// call failed and Text holds FallbackText.
type Result struct {
	Ref  imageset.ImageRef
	Text string
	OK   bool
}

// Progress describes one completed analyzer call. Completed counts calls
// finished so far in completion order; the rest feed progress display.
type Progress struct {
	Completed int
	Total     int
	Image     string
	Elapsed   time.Duration
	ETA       time.Duration
}

// Options configures a fan-out run.
type Options struct {
	// Concurrency bounds the worker pool; values below one fall back to
	// DefaultConcurrency.
	Concurrency int
	// OnProgress, when set, is invoked once per completed call. Calls are
	// serialized; the callback never runs concurrently with itself.
	OnProgress func(Progress)
	Logger     *slog.Logger
}

// Run analyzes every photo and returns exactly one Result per input, in
// input order regardless of completion order. Each result slot is written
// once by the worker that owns it; only the progress counter is shared.
func Run(ctx context.Context, analyzer vision.Analyzer, refs []imageset.ImageRef, opts Options) []Result {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(refs) {
		concurrency = len(refs)
	}
	logger := logging.WithComponent(opts.Logger, "analysis")

	results := make([]Result, len(refs))
	jobs := make(chan imageset.ImageRef)
	start := time.Now()

	var progressMu sync.Mutex
	completed := 0
	report := func(ref imageset.ImageRef) {
		progressMu.Lock()
		defer progressMu.Unlock()
		completed++
		if opts.OnProgress == nil {
			return
		}
		elapsed := time.Since(start)
		var eta time.Duration
		if completed > 0 && completed < len(refs) {
			eta = elapsed / time.Duration(completed) * time.Duration(len(refs)-completed)
		}
		opts.OnProgress(Progress{
			Completed: completed,
			Total:     len(refs),
			Image:     ref.Name,
			Elapsed:   elapsed,
			ETA:       eta,
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				slot := ref.Index - 1
				text, err := analyzer.Analyze(ctx, ref.Path)
				if err != nil {
					logger.Warn("photo analysis failed",
						logging.FieldImage, ref.Name,
						logging.Error(err))
					results[slot] = Result{Ref: ref, Text: FallbackText}
				} else {
					results[slot] = Result{Ref: ref, Text: text, OK: true}
				}
				report(ref)
			}
		}()
	}

	for _, ref := range refs {
		jobs <- ref
	}
	close(jobs)
	wg.Wait()

	return results
}
