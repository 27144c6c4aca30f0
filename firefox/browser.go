package firefox

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/fs"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// sourceName tags links produced by this adapter.
const sourceName = "firefox"

const placesFile = "places.sqlite"

// historyLimit bounds how many recent history rows are read.
const historyLimit = 1000

// pathSeparator joins folder titles into a breadcrumb.
const pathSeparator = " / "

// Compile-time interface verification.
var _ linkcache.LinkSource = (*Browser)(nil)

// Browser reads the places database of a Firefox profile. When the
// database is absent it falls back to the newest JSON bookmark backup.
type Browser struct {
	locator linkcache.ProfileLocator
}

// NewBrowser creates a Browser reading from the directory resolved by
// the locator. A nil locator discovers the default profile through
// profiles.ini.
func NewBrowser(locator linkcache.ProfileLocator) *Browser {
	if locator == nil {
		locator = linkcache.ProfileDirFunc(DefaultProfileDir)
	}
	return &Browser{locator: locator}
}

// Name returns the source tag recorded on produced links.
func (b *Browser) Name() string { return sourceName }

// Links returns the profile's bookmarks followed by its most recent
// history entries.
func (b *Browser) Links(ctx context.Context) ([]*linkcache.Link, error) {
	dir, err := b.locator.ProfileDir()
	if err != nil {
		return nil, err
	}

	src := filepath.Join(dir, placesFile)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return backupLinks(ctx, dir)
	}

	// Firefox holds the database locked while running, so read a copy.
	replica, err := fs.Replicate(src)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+replica+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open places replica: %w", err)
	}
	defer db.Close()

	links, err := bookmarkLinks(ctx, db)
	if err != nil {
		return nil, err
	}

	history, err := historyLinks(ctx, db)
	if err != nil {
		return nil, err
	}
	return append(links, history...), nil
}

// placeNode is one row of moz_bookmarks, folders and bookmarks alike.
type placeNode struct {
	id     int64
	parent int64
	typ    int64
	title  string
	guid   string
	url    string
	added  int64
}

// Bookmark row types in moz_bookmarks.
const (
	placeTypeBookmark = 1
	placeTypeFolder   = 2
)

// bookmarkLinks loads the whole moz_bookmarks tree and emits a link
// per bookmark with its folder trail as the subtitle. Firefox records
// native GUIDs, so those become the link IDs directly.
func bookmarkLinks(ctx context.Context, db *sql.DB) ([]*linkcache.Link, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT b.id, b.parent, b.type, IFNULL(b.title, ''), b.guid,
		       IFNULL(p.url, ''), IFNULL(b.dateAdded, 0)
		FROM moz_bookmarks b
		LEFT JOIN moz_places p ON p.id = b.fk`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	nodes := make(map[int64]placeNode)
	var order []int64
	for rows.Next() {
		var n placeNode
		if err := rows.Scan(&n.id, &n.parent, &n.typ, &n.title, &n.guid, &n.url, &n.added); err != nil {
			return nil, err
		}
		nodes[n.id] = n
		order = append(order, n.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var links []*linkcache.Link
	for _, id := range order {
		n := nodes[id]
		if n.typ != placeTypeBookmark || n.url == "" {
			continue
		}
		links = append(links, &linkcache.Link{
			ID:        n.guid,
			URL:       n.url,
			Title:     n.title,
			Subtitle:  folderTrail(nodes, n.parent),
			Source:    sourceName,
			Timestamp: mozTime(n.added),
		})
	}
	return links, nil
}

// folderTrail walks folder parents up to the root and joins their
// titles root first. The nameless system roots contribute no segment.
// A visited set guards against damaged parent chains.
func folderTrail(nodes map[int64]placeNode, id int64) string {
	var titles []string
	visited := make(map[int64]bool)

	for id != 0 && !visited[id] {
		visited[id] = true

		n, ok := nodes[id]
		if !ok || n.typ != placeTypeFolder {
			break
		}
		if n.title != "" {
			titles = append([]string{n.title}, titles...)
		}
		id = n.parent
	}
	return strings.Join(titles, pathSeparator)
}

func historyLinks(ctx context.Context, db *sql.DB) ([]*linkcache.Link, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT url, IFNULL(title, ''), last_visit_date
		FROM moz_places
		WHERE hidden = 0 AND last_visit_date IS NOT NULL
		ORDER BY last_visit_date DESC
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
			Timestamp: mozTime(lastVisit),
		})
	}
	return links, rows.Err()
}

// mozTime converts a PRTime value, microseconds since the Unix epoch,
// to UTC time. Zero stays the zero time.
func mozTime(micros int64) time.Time {
	if micros <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
