package linkcache

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Link represents a discovered bookmark, history entry, or page
// reference. The URL is the uniqueness key for storage: adding a second
// Link with the same URL fully replaces the first.
type Link struct {
	// Stable unique identifier. Firefox has native GUIDs for its links;
	// sources without one synthesize a deterministic ID (see SyntheticID).
	ID string `json:"id"`

	// The fully-qualified URL for this link.
	URL string `json:"url"`

	// The name displayed when linking to this URL. There can be more
	// than one title for the same URL across sources.
	Title string `json:"title"`

	// Optional breadcrumb or description, e.g. the folder path where a
	// bookmark lives in its source browser.
	Subtitle string `json:"subtitle,omitempty"`

	// Tag identifying the adapter that discovered this link, such as
	// "arc" or "chrome".
	Source string `json:"source,omitempty"`

	// Point in time of creation or last visit, UTC.
	Timestamp time.Time `json:"timestamp"`

	// Score is the relevance of this link in search results. It is
	// populated by Search on fuzzy queries, never persisted, and ignored
	// on writes.
	Score float64 `json:"score,omitempty"`
}

// Validate returns an error if the link contains invalid fields.
func (l *Link) Validate() error {
	if l.URL == "" {
		return Errorf(EINVALID, "link URL required")
	}
	return nil
}

// SyntheticID derives a stable identifier for a link discovered by the
// named source. Sources without native GUIDs (Chrome, Arc) need the
// same link to map to the same ID across runs.
func SyntheticID(source, url string) string {
	return fmt.Sprintf("%s-%016x", source, xxhash.Sum64String(source+"\x00"+url))
}

// LinkService is a persistent, searchable store of Link records.
// Implementations serialize writes; callers needing concurrent writers
// must coordinate externally.
type LinkService interface {
	// Add upserts a link by URL. A second Add with the same URL fully
	// supersedes the fields of the first. The caller-supplied Score is
	// ignored.
	Add(ctx context.Context, link *Link) error

	// Remove deletes a link by URL. Removing a URL that is not stored
	// is a no-op, not an error.
	Remove(ctx context.Context, link *Link) error

	// Commit flushes a batch of Add/Remove calls to durable storage.
	// Backends without a separate commit phase may make writes durable
	// immediately and treat Commit as a checkpoint.
	Commit(ctx context.Context) error

	// Search returns links matching the query ordered by relevance,
	// with Score populated. An empty query returns the most recent
	// links by timestamp instead, with Score unset.
	Search(ctx context.Context, query string) ([]*Link, error)

	// Latest returns the n most recent links by timestamp descending.
	Latest(ctx context.Context, n int) ([]*Link, error)
}
