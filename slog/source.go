package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/adlio/linkcache"
)

// Ensure LoggingLinkSource implements linkcache.LinkSource.
var _ linkcache.LinkSource = (*LoggingLinkSource)(nil)

// LoggingLinkSource wraps a LinkSource with read logging.
type LoggingLinkSource struct {
	next   linkcache.LinkSource
	logger *slog.Logger
}

// NewLoggingLinkSource creates a new LoggingLinkSource.
func NewLoggingLinkSource(next linkcache.LinkSource, logger *slog.Logger) *LoggingLinkSource {
	return &LoggingLinkSource{next: next, logger: logger}
}

// Name delegates to the wrapped source.
func (s *LoggingLinkSource) Name() string {
	return s.next.Name()
}

// Links delegates to the wrapped source and logs the read.
func (s *LoggingLinkSource) Links(ctx context.Context) (links []*linkcache.Link, err error) {
	defer func(begin time.Time) {
		s.logger.Info("read source",
			"source", s.next.Name(),
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Links(ctx)
}
