package arc_test

import (
	"context"
	"testing"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/arc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowser_Links(t *testing.T) {
	t.Parallel()

	browser := arc.NewBrowser(linkcache.StaticProfileDir("testdata"))
	require.Equal(t, "arc", browser.Name())

	links, err := browser.Links(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 3, "the malformed item must be skipped, not fatal")

	byURL := make(map[string]*linkcache.Link)
	for _, link := range links {
		byURL[link.URL] = link
	}

	t.Run("nested bookmark carries its breadcrumb", func(t *testing.T) {
		link, ok := byURL["https://www.alfredapp.com/help/workflows/inputs/script-filter/json/"]
		require.True(t, ok)
		assert.Equal(t, "Script Filter JSON Format", link.Title)
		assert.Equal(t, "Work / Areas / Alfred", link.Subtitle)
		assert.Equal(t, "arc", link.Source)
		assert.Equal(t, linkcache.SyntheticID("arc", link.URL), link.ID)
		assert.False(t, link.Timestamp.IsZero())
	})

	t.Run("untitled bookmark falls back to the saved page title", func(t *testing.T) {
		link, ok := byURL["https://example.com"]
		require.True(t, ok)
		assert.Equal(t, "Example Domain", link.Title)
		assert.Equal(t, "Work", link.Subtitle)
	})

	t.Run("parentless bookmark has no breadcrumb", func(t *testing.T) {
		link, ok := byURL["https://go.dev"]
		require.True(t, ok)
		assert.Equal(t, "Go Documentation", link.Title)
		assert.Empty(t, link.Subtitle)
	})
}

func TestBrowser_Links_MissingSnapshot(t *testing.T) {
	t.Parallel()

	browser := arc.NewBrowser(linkcache.StaticProfileDir(t.TempDir()))
	_, err := browser.Links(context.Background())
	assert.Error(t, err)
}

func TestBrowser_Links_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	browser := arc.NewBrowser(linkcache.StaticProfileDir("testdata"))
	_, err := browser.Links(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
