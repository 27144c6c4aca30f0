// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/adlio/linkcache"
)

// Ensure LoggingLinkService implements linkcache.LinkService.
var _ linkcache.LinkService = (*LoggingLinkService)(nil)

// LoggingLinkService wraps a LinkService with operation logging.
type LoggingLinkService struct {
	next   linkcache.LinkService
	logger *slog.Logger
}

// NewLoggingLinkService creates a new LoggingLinkService.
func NewLoggingLinkService(next linkcache.LinkService, logger *slog.Logger) *LoggingLinkService {
	return &LoggingLinkService{next: next, logger: logger}
}

// Add delegates to the wrapped service and logs the operation.
func (s *LoggingLinkService) Add(ctx context.Context, link *linkcache.Link) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("add link",
			"url", link.URL,
			"source", link.Source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Add(ctx, link)
}

// Remove delegates to the wrapped service and logs the operation.
func (s *LoggingLinkService) Remove(ctx context.Context, link *linkcache.Link) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("remove link",
			"url", link.URL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Remove(ctx, link)
}

// Commit delegates to the wrapped service and logs the operation.
func (s *LoggingLinkService) Commit(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("commit",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Commit(ctx)
}

// Search delegates to the wrapped service and logs the operation.
func (s *LoggingLinkService) Search(ctx context.Context, query string) (links []*linkcache.Link, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}

// Latest delegates to the wrapped service and logs the operation.
func (s *LoggingLinkService) Latest(ctx context.Context, n int) (links []*linkcache.Link, err error) {
	defer func(begin time.Time) {
		s.logger.Info("latest",
			"n", n,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Latest(ctx, n)
}
