package chrome_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/chrome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func TestBrowser_Links_Bookmarks(t *testing.T) {
	t.Parallel()

	// The fixture profile has a Bookmarks file but no History.
	browser := chrome.NewBrowser(linkcache.StaticProfileDir("testdata"))
	require.Equal(t, "chrome", browser.Name())

	links, err := browser.Links(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 3)

	byURL := make(map[string]*linkcache.Link)
	for _, link := range links {
		byURL[link.URL] = link
	}

	t.Run("top-level bookmark", func(t *testing.T) {
		link, ok := byURL["https://go.dev/"]
		require.True(t, ok)
		assert.Equal(t, "The Go Programming Language", link.Title)
		assert.Equal(t, "Bookmarks bar", link.Subtitle)
		assert.Equal(t, "chrome", link.Source)
		assert.Equal(t, linkcache.SyntheticID("chrome", link.URL), link.ID)
		assert.True(t, link.Timestamp.Equal(time.Date(2023, 2, 4, 16, 0, 0, 0, time.UTC)),
			"Chrome epoch microseconds must convert to UTC time, got %v", link.Timestamp)
	})

	t.Run("nested bookmark carries the folder trail", func(t *testing.T) {
		link, ok := byURL["https://go.dev/doc/effective_go"]
		require.True(t, ok)
		assert.Equal(t, "Effective Go", link.Title)
		assert.Equal(t, "Bookmarks bar / Reading", link.Subtitle)
	})

	t.Run("zero date_added yields a zero timestamp", func(t *testing.T) {
		link, ok := byURL["https://example.com/"]
		require.True(t, ok)
		assert.Equal(t, "Other bookmarks", link.Subtitle)
		assert.True(t, link.Timestamp.IsZero())
	})
}

func TestBrowser_Links_History(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeHistoryDB(t, filepath.Join(dir, "History"))

	browser := chrome.NewBrowser(linkcache.StaticProfileDir(dir))
	links, err := browser.Links(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 2)

	// Most recently visited first.
	assert.Equal(t, "https://pkg.go.dev/database/sql", links[0].URL)
	assert.Equal(t, "sql package", links[0].Title)
	assert.Equal(t, "chrome", links[0].Source)
	assert.True(t, links[0].Timestamp.Equal(time.Date(2023, 2, 4, 16, 1, 0, 0, time.UTC)),
		"history visit times use the same epoch conversion as bookmarks, got %v", links[0].Timestamp)

	assert.Equal(t, "https://go.dev/blog/", links[1].URL)
}

func TestBrowser_Links_EmptyProfile(t *testing.T) {
	t.Parallel()

	// Neither Bookmarks nor History present.
	browser := chrome.NewBrowser(linkcache.StaticProfileDir(t.TempDir()))
	links, err := browser.Links(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestBrowser_Links_MalformedBookmarks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bookmarks"), []byte("not json"), 0644))

	browser := chrome.NewBrowser(linkcache.StaticProfileDir(dir))
	_, err := browser.Links(context.Background())
	assert.Error(t, err)
}

// writeHistoryDB creates a minimal Chrome History database with two
// visited urls.
func writeHistoryDB(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE urls (
		id INTEGER PRIMARY KEY,
		url TEXT NOT NULL,
		title TEXT,
		last_visit_time INTEGER
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO urls (url, title, last_visit_time) VALUES
		('https://go.dev/blog/', 'The Go Blog', 13320000000000000),
		('https://pkg.go.dev/database/sql', 'sql package', 13320000060000000)`)
	require.NoError(t, err)
}
