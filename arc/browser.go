package arc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adlio/linkcache"
)

// sourceName tags links produced by this adapter.
const sourceName = "arc"

// sidebarFile stores the state of the entire pinned-site/bookmark
// sidebar in the Arc browser.
const sidebarFile = "StorableSidebar.json"

// Compile-time interface verification.
var _ linkcache.LinkSource = (*Browser)(nil)

// Browser reads a point-in-time snapshot of the Arc sidebar and exposes
// its pinned bookmarks as links.
type Browser struct {
	locator linkcache.ProfileLocator
}

// NewBrowser creates a Browser reading from the directory resolved by
// the locator. A nil locator uses the default Arc data directory for
// the current user.
func NewBrowser(locator linkcache.ProfileLocator) *Browser {
	if locator == nil {
		locator = linkcache.ProfileDirFunc(DefaultProfileDir)
	}
	return &Browser{locator: locator}
}

// Name returns the source tag recorded on produced links.
func (b *Browser) Name() string { return sourceName }

// Links builds a link for each bookmark in the sidebar snapshot. The
// subtitle carries the bookmark's ancestor path within its space.
func (b *Browser) Links(ctx context.Context) ([]*linkcache.Link, error) {
	state, err := b.loadState()
	if err != nil {
		return nil, err
	}

	tree := state.Tree()
	now := time.Now().UTC()

	var links []*linkcache.Link
	for _, bookmark := range state.Bookmarks() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url := bookmark.Data.Tab.SavedURL
		if url == "" {
			continue
		}

		link := &linkcache.Link{
			ID:        linkcache.SyntheticID(sourceName, url),
			URL:       url,
			Title:     bookmark.EffectiveTitle(),
			Source:    sourceName,
			Timestamp: now,
		}
		if bookmark.ParentID != "" {
			link.Subtitle = tree.AncestorPath(bookmark.ParentID)
		}
		links = append(links, link)
	}

	return links, nil
}

// loadState parses the sidebar snapshot from the profile directory.
func (b *Browser) loadState() (*State, error) {
	dir, err := b.locator.ProfileDir()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, sidebarFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open sidebar snapshot: %w", err)
	}
	defer f.Close()

	var state State
	if err := json.NewDecoder(f).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to parse sidebar snapshot: %w", err)
	}
	return &state, nil
}

// DefaultProfileDir returns the Arc data directory for the current
// user and operating system.
func DefaultProfileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Arc"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Arc"), nil
	default:
		return filepath.Join(home, ".config", "arc"), nil
	}
}
