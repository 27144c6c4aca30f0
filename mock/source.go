package mock

import (
	"context"

	"github.com/adlio/linkcache"
)

var _ linkcache.LinkSource = (*LinkSource)(nil)

// LinkSource is a mock implementation of linkcache.LinkSource.
type LinkSource struct {
	NameFn  func() string
	LinksFn func(ctx context.Context) ([]*linkcache.Link, error)
}

func (s *LinkSource) Name() string {
	return s.NameFn()
}

func (s *LinkSource) Links(ctx context.Context) ([]*linkcache.Link, error) {
	return s.LinksFn(ctx)
}

var _ linkcache.ProfileLocator = (*ProfileLocator)(nil)

// ProfileLocator is a mock implementation of linkcache.ProfileLocator.
type ProfileLocator struct {
	ProfileDirFn func() (string, error)
}

func (l *ProfileLocator) ProfileDir() (string, error) {
	return l.ProfileDirFn()
}
