package linkcache

import "context"

// LinkSource produces Link records from a point-in-time snapshot of one
// browser's storage. Implementations do not watch for live changes; a
// caller re-runs the source to pick up new state.
type LinkSource interface {
	// Name returns the source tag recorded on produced links.
	Name() string

	// Links reads the source snapshot and returns every discovered link.
	Links(ctx context.Context) ([]*Link, error)
}

// ProfileLocator resolves the on-disk directory of a browser profile.
// OS-specific conventions and environment lookups live behind this
// interface so the core resolver and cache never perform them.
type ProfileLocator interface {
	ProfileDir() (string, error)
}

// ProfileDirFunc adapts a function to the ProfileLocator interface.
type ProfileDirFunc func() (string, error)

// ProfileDir implements ProfileLocator.
func (f ProfileDirFunc) ProfileDir() (string, error) { return f() }

// StaticProfileDir returns a locator for a fixed directory, used for
// tests and CLI overrides.
func StaticProfileDir(dir string) ProfileLocator {
	return ProfileDirFunc(func() (string, error) { return dir, nil })
}
