// Package chrome reads bookmarks and browsing history from a Google
// Chrome profile and exposes them as links.
package chrome

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/fs"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// sourceName tags links produced by this adapter.
const sourceName = "chrome"

const (
	bookmarksFile = "Bookmarks"
	historyFile   = "History"
)

// historyLimit bounds how many recent history rows are read.
const historyLimit = 1000

// pathSeparator joins folder titles into a breadcrumb.
const pathSeparator = " / "

// chromeEpochOffsetMicros is the microsecond distance between the
// Chrome epoch (1601-01-01) and the Unix epoch (1970-01-01). Chrome
// stores timestamps as microseconds since its own epoch.
const chromeEpochOffsetMicros = 11644473600 * 1_000_000

// Compile-time interface verification.
var _ linkcache.LinkSource = (*Browser)(nil)

// Browser reads the Bookmarks and History files of a Chrome profile.
type Browser struct {
	locator linkcache.ProfileLocator
}

// NewBrowser creates a Browser reading from the directory resolved by
// the locator. A nil locator uses the default Chrome profile directory
// for the current user.
func NewBrowser(locator linkcache.ProfileLocator) *Browser {
	if locator == nil {
		locator = linkcache.ProfileDirFunc(DefaultProfileDir)
	}
	return &Browser{locator: locator}
}

// Name returns the source tag recorded on produced links.
func (b *Browser) Name() string { return sourceName }

// Links returns the profile's bookmarks followed by its most recent
// history entries. A profile missing either file contributes no links
// for it rather than failing the whole read.
func (b *Browser) Links(ctx context.Context) ([]*linkcache.Link, error) {
	dir, err := b.locator.ProfileDir()
	if err != nil {
		return nil, err
	}

	links, err := b.bookmarkLinks(ctx, dir)
	if err != nil {
		return nil, err
	}

	history, err := b.historyLinks(ctx, dir)
	if err != nil {
		return nil, err
	}
	return append(links, history...), nil
}

// bookmarkRoots orders traversal of the fixed root folders.
var bookmarkRoots = []string{"bookmark_bar", "other", "synced"}

type bookmarkNode struct {
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	DateAdded string         `json:"date_added"`
	Children  []bookmarkNode `json:"children"`
}

type bookmarksDoc struct {
	Roots map[string]bookmarkNode `json:"roots"`
}

func (b *Browser) bookmarkLinks(ctx context.Context, dir string) ([]*linkcache.Link, error) {
	data, err := os.ReadFile(filepath.Join(dir, bookmarksFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	var doc bookmarksDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks: %w", err)
	}

	var links []*linkcache.Link
	for _, root := range bookmarkRoots {
		node, ok := doc.Roots[root]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		links = walkBookmarks(node, nil, links)
	}
	return links, nil
}

// walkBookmarks appends a link for every url node beneath node. The
// trail holds the titles of the enclosing folders, root first.
func walkBookmarks(node bookmarkNode, trail []string, links []*linkcache.Link) []*linkcache.Link {
	switch node.Type {
	case "url":
		if node.URL == "" {
			return links
		}
		return append(links, &linkcache.Link{
			ID:        linkcache.SyntheticID(sourceName, node.URL),
			URL:       node.URL,
			Title:     node.Name,
			Subtitle:  strings.Join(trail, pathSeparator),
			Source:    sourceName,
			Timestamp: chromeTime(node.DateAdded),
		})
	case "folder":
		if node.Name != "" {
			trail = append(trail, node.Name)
		}
		for _, child := range node.Children {
			links = walkBookmarks(child, trail, links)
		}
	}
	return links
}

// chromeTime converts a Chrome timestamp rendered as a decimal string,
// the form the Bookmarks JSON uses, to UTC time. Unparseable values
// yield the zero time.
func chromeTime(s string) time.Time {
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return chromeTimeMicros(micros)
}

// chromeTimeMicros converts a Chrome timestamp, microseconds since
// 1601, to UTC time. Epoch and negative values yield the zero time.
func chromeTimeMicros(micros int64) time.Time {
	if micros <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros - chromeEpochOffsetMicros).UTC()
}

func (b *Browser) historyLinks(ctx context.Context, dir string) ([]*linkcache.Link, error) {
	src := filepath.Join(dir, historyFile)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil, nil
	}

	// Chrome holds the database locked while running, so read a copy.
	replica, err := fs.Replicate(src)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+replica+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open history replica: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT url, title, last_visit_time
		FROM urls
		WHERE url <> ''
		ORDER BY last_visit_time DESC
		LIMIT ?`, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var links []*linkcache.Link
	for rows.Next() {
		var url, title string
		var lastVisit int64
		if err := rows.Scan(&url, &title, &lastVisit); err != nil {
			return nil, err
		}
		links = append(links, &linkcache.Link{
			ID:        linkcache.SyntheticID(sourceName, url),
			URL:       url,
			Title:     title,
			Source:    sourceName,
			Timestamp: chromeTimeMicros(lastVisit),
		})
	}
	return links, rows.Err()
}

// DefaultProfileDir returns the default Chrome profile directory for
// the current user and operating system.
func DefaultProfileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data", "Default"), nil
	default:
		return filepath.Join(home, ".config", "google-chrome", "Default"), nil
	}
}
