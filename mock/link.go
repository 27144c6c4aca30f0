// Package mock provides function-field mocks of the domain interfaces.
package mock

import (
	"context"

	"github.com/adlio/linkcache"
)

var _ linkcache.LinkService = (*LinkService)(nil)

// LinkService is a mock implementation of linkcache.LinkService.
type LinkService struct {
	AddFn    func(ctx context.Context, link *linkcache.Link) error
	RemoveFn func(ctx context.Context, link *linkcache.Link) error
	CommitFn func(ctx context.Context) error
	SearchFn func(ctx context.Context, query string) ([]*linkcache.Link, error)
	LatestFn func(ctx context.Context, n int) ([]*linkcache.Link, error)
}

func (s *LinkService) Add(ctx context.Context, link *linkcache.Link) error {
	return s.AddFn(ctx, link)
}

func (s *LinkService) Remove(ctx context.Context, link *linkcache.Link) error {
	return s.RemoveFn(ctx, link)
}

func (s *LinkService) Commit(ctx context.Context) error {
	return s.CommitFn(ctx)
}

func (s *LinkService) Search(ctx context.Context, query string) ([]*linkcache.Link, error) {
	return s.SearchFn(ctx, query)
}

func (s *LinkService) Latest(ctx context.Context, n int) ([]*linkcache.Link, error) {
	return s.LatestFn(ctx, n)
}
