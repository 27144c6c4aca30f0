package firefox_test

import (
	"path/filepath"
	"testing"

	"github.com/adlio/linkcache/firefox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFromINI(t *testing.T) {
	t.Parallel()

	t.Run("install section wins", func(t *testing.T) {
		t.Parallel()

		dir, err := firefox.ProfileFromINI("/ff", "testdata/profiles-install.ini")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/ff", "Profiles", "abcd1234.default-release"), dir)
	})

	t.Run("legacy default flag", func(t *testing.T) {
		t.Parallel()

		dir, err := firefox.ProfileFromINI("/ff", "testdata/profiles-legacy.ini")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/ff", "Profiles", "efgh5678.default"), dir)
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Parallel()

		_, err := firefox.ProfileFromINI("/ff", "testdata/absent.ini")
		assert.Error(t, err)
	})
}
