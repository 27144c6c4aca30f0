package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/mock"
	lcslog "github.com/adlio/linkcache/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingLinkService_Search(t *testing.T) {
	t.Parallel()

	t.Run("logs query, count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkService{
			SearchFn: func(ctx context.Context, query string) ([]*linkcache.Link, error) {
				return []*linkcache.Link{{URL: "https://go.dev/"}}, nil
			},
		}

		svc := lcslog.NewLoggingLinkService(inner, logger)
		links, err := svc.Search(context.Background(), "golang")

		require.NoError(t, err)
		assert.Len(t, links, 1)
		output := buf.String()
		assert.Contains(t, output, "search")
		assert.Contains(t, output, "query=golang")
		assert.Contains(t, output, "count=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkService{
			SearchFn: func(ctx context.Context, query string) ([]*linkcache.Link, error) {
				return nil, errors.New("database locked")
			},
		}

		svc := lcslog.NewLoggingLinkService(inner, logger)
		_, err := svc.Search(context.Background(), "golang")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"database locked\"")
	})
}

func TestLoggingLinkService_Commit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.LinkService{
		CommitFn: func(ctx context.Context) error { return nil },
	}

	svc := lcslog.NewLoggingLinkService(inner, logger)
	require.NoError(t, svc.Commit(context.Background()))
	assert.Contains(t, buf.String(), "commit")
}

func TestLoggingLinkSource_Links(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.LinkSource{
		NameFn: func() string { return "arc" },
		LinksFn: func(ctx context.Context) ([]*linkcache.Link, error) {
			return []*linkcache.Link{{URL: "https://go.dev/"}, {URL: "https://example.com/"}}, nil
		},
	}

	source := lcslog.NewLoggingLinkSource(inner, logger)
	assert.Equal(t, "arc", source.Name())

	links, err := source.Links(context.Background())
	require.NoError(t, err)
	assert.Len(t, links, 2)

	output := buf.String()
	assert.Contains(t, output, "read source")
	assert.Contains(t, output, "source=arc")
	assert.Contains(t, output, "count=2")
}
