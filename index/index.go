// Package index orchestrates bulk re-indexing of the link cache from
// every configured browser source.
package index

import (
	"context"

	"github.com/adlio/linkcache"
	"golang.org/x/sync/errgroup"
)

// expectedURLs sizes the dedup filter for a typical indexing run.
const expectedURLs = 100_000

// dedupFPRate is the accepted false positive rate for cross-source
// deduplication.
const dedupFPRate = 0.001

// Indexer reads links from every source and writes them to the cache.
type Indexer struct {
	Links   linkcache.LinkService
	Sources []linkcache.LinkSource

	// Limiter, when set, throttles reads per source.
	Limiter *SourceLimiter

	// Concurrency bounds how many sources are read at once.
	// Defaults to 4.
	Concurrency int
}

// Result holds the outcome of an indexing run.
type Result struct {
	Indexed int
	Skipped int
	Failed  int

	// Errors maps source names to their read failures. Partial runs
	// still index every source that succeeded.
	Errors map[string]error
}

// ProgressEvent reports progress during an indexing run.
type ProgressEvent struct {
	Type   ProgressType
	Source string
	Count  int
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressSourceCompleted
	ProgressSourceFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting indexing progress.
type ProgressFunc func(event ProgressEvent)

// sourceResult holds the outcome of reading a single source.
type sourceResult struct {
	name  string
	links []*linkcache.Link
	err   error
}

// Run reads every source concurrently, then writes all links through
// the cache in source order and commits once. URLs already indexed by
// an earlier source in the run are skipped, so source order decides
// which browser wins a cross-source duplicate. A source that fails to
// read is recorded in the result and does not abort the run.
func (ix *Indexer) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Count: len(ix.Sources)})
	}

	// Read phase: sources in parallel, results slotted by position so
	// the write phase is deterministic.
	results := make([]sourceResult, len(ix.Sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, source := range ix.Sources {
		g.Go(func() error {
			results[i] = ix.readSource(gctx, source)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Write phase: single goroutine, the store serializes writes.
	result := &Result{Errors: make(map[string]error)}
	seen := newDedup(expectedURLs, dedupFPRate)

	for _, sr := range results {
		if sr.err != nil {
			result.Failed++
			result.Errors[sr.name] = sr.err
			if progress != nil {
				progress(ProgressEvent{Type: ProgressSourceFailed, Source: sr.name, Error: sr.err})
			}
			continue
		}

		var indexed int
		for _, link := range sr.links {
			if !seen.Push(link.URL) {
				result.Skipped++
				continue
			}
			if err := ix.Links.Add(ctx, link); err != nil {
				return nil, err
			}
			indexed++
		}
		result.Indexed += indexed

		if progress != nil {
			progress(ProgressEvent{Type: ProgressSourceCompleted, Source: sr.name, Count: indexed})
		}
	}

	if err := ix.Links.Commit(ctx); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Count: result.Indexed})
	}
	return result, nil
}

// readSource reads one source's links, honoring the rate limiter when
// configured.
func (ix *Indexer) readSource(ctx context.Context, source linkcache.LinkSource) sourceResult {
	sr := sourceResult{name: source.Name()}

	if ix.Limiter != nil {
		if err := ix.Limiter.Wait(ctx, sr.name); err != nil {
			sr.err = err
			return sr
		}
	}

	sr.links, sr.err = source.Links(ctx)
	return sr
}
