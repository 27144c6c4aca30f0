package index_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/index"
	"github.com/adlio/linkcache/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingService collects added links and counts commits.
type recordingService struct {
	mock.LinkService

	mu      sync.Mutex
	added   []*linkcache.Link
	commits int
}

func newRecordingService() *recordingService {
	s := &recordingService{}
	s.AddFn = func(ctx context.Context, link *linkcache.Link) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.added = append(s.added, link)
		return nil
	}
	s.CommitFn = func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.commits++
		return nil
	}
	return s
}

func staticSource(name string, links ...*linkcache.Link) *mock.LinkSource {
	return &mock.LinkSource{
		NameFn:  func() string { return name },
		LinksFn: func(ctx context.Context) ([]*linkcache.Link, error) { return links, nil },
	}
}

func link(url string) *linkcache.Link {
	return &linkcache.Link{URL: url}
}

func TestIndexer_Run(t *testing.T) {
	t.Parallel()

	t.Run("indexes every source and commits once", func(t *testing.T) {
		t.Parallel()

		svc := newRecordingService()
		ix := &index.Indexer{
			Links: svc,
			Sources: []linkcache.LinkSource{
				staticSource("arc", link("https://go.dev/"), link("https://example.com/")),
				staticSource("chrome", link("https://pkg.go.dev/")),
			},
		}

		result, err := ix.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Indexed)
		assert.Zero(t, result.Skipped)
		assert.Zero(t, result.Failed)
		assert.Len(t, svc.added, 3)
		assert.Equal(t, 1, svc.commits)
	})

	t.Run("earlier source wins a cross-source duplicate", func(t *testing.T) {
		t.Parallel()

		svc := newRecordingService()
		ix := &index.Indexer{
			Links: svc,
			Sources: []linkcache.LinkSource{
				staticSource("arc", &linkcache.Link{URL: "https://go.dev/", Source: "arc"}),
				staticSource("chrome", &linkcache.Link{URL: "https://go.dev/", Source: "chrome"}),
			},
		}

		result, err := ix.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Indexed)
		assert.Equal(t, 1, result.Skipped)
		require.Len(t, svc.added, 1)
		assert.Equal(t, "arc", svc.added[0].Source)
	})

	t.Run("fragments do not defeat deduplication", func(t *testing.T) {
		t.Parallel()

		svc := newRecordingService()
		ix := &index.Indexer{
			Links: svc,
			Sources: []linkcache.LinkSource{
				staticSource("arc",
					link("https://go.dev/doc#intro"),
					link("https://go.dev/doc#faq"),
				),
			},
		}

		result, err := ix.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Indexed)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("a failing source does not abort the run", func(t *testing.T) {
		t.Parallel()

		svc := newRecordingService()
		broken := &mock.LinkSource{
			NameFn: func() string { return "firefox" },
			LinksFn: func(ctx context.Context) ([]*linkcache.Link, error) {
				return nil, errors.New("profile locked")
			},
		}
		ix := &index.Indexer{
			Links: svc,
			Sources: []linkcache.LinkSource{
				broken,
				staticSource("arc", link("https://go.dev/")),
			},
		}

		result, err := ix.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Indexed)
		assert.Equal(t, 1, result.Failed)
		require.Contains(t, result.Errors, "firefox")
		assert.EqualError(t, result.Errors["firefox"], "profile locked")
		assert.Equal(t, 1, svc.commits, "surviving sources still commit")
	})

	t.Run("write failure aborts", func(t *testing.T) {
		t.Parallel()

		svc := newRecordingService()
		svc.AddFn = func(ctx context.Context, link *linkcache.Link) error {
			return errors.New("disk full")
		}
		ix := &index.Indexer{
			Links:   svc,
			Sources: []linkcache.LinkSource{staticSource("arc", link("https://go.dev/"))},
		}

		_, err := ix.Run(context.Background(), nil)
		assert.EqualError(t, err, "disk full")
	})

	t.Run("reports progress per source", func(t *testing.T) {
		t.Parallel()

		svc := newRecordingService()
		ix := &index.Indexer{
			Links:   svc,
			Sources: []linkcache.LinkSource{staticSource("arc", link("https://go.dev/"))},
		}

		var events []index.ProgressEvent
		_, err := ix.Run(context.Background(), func(event index.ProgressEvent) {
			events = append(events, event)
		})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, index.ProgressStarted, events[0].Type)
		assert.Equal(t, index.ProgressSourceCompleted, events[1].Type)
		assert.Equal(t, "arc", events[1].Source)
		assert.Equal(t, 1, events[1].Count)
		assert.Equal(t, index.ProgressFinished, events[2].Type)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := newRecordingService()
		ix := &index.Indexer{
			Links:   svc,
			Sources: []linkcache.LinkSource{staticSource("arc", link("https://go.dev/"))},
		}

		_, err := ix.Run(ctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rate limiter is consulted per source", func(t *testing.T) {
		t.Parallel()

		svc := newRecordingService()
		ix := &index.Indexer{
			Links:   svc,
			Limiter: index.NewSourceLimiter(1000),
			Sources: []linkcache.LinkSource{
				staticSource("arc", link("https://go.dev/")),
				staticSource("chrome", link("https://example.com/")),
			},
		}

		result, err := ix.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Indexed)
	})
}
