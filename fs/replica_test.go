package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adlio/linkcache/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplicaPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/tmp/History.linkcache", fs.ReplicaPath("/tmp/History"))
}

func TestReplicate(t *testing.T) {
	t.Parallel()

	t.Run("copies the source next to itself", func(t *testing.T) {
		t.Parallel()

		src := filepath.Join(t.TempDir(), "History")
		require.NoError(t, os.WriteFile(src, []byte("db contents"), 0644))

		dst, err := fs.Replicate(src)
		require.NoError(t, err)
		assert.Equal(t, src+".linkcache", dst)

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "db contents", string(got))
	})

	t.Run("reuses a fresh replica", func(t *testing.T) {
		t.Parallel()

		src := filepath.Join(t.TempDir(), "History")
		require.NoError(t, os.WriteFile(src, []byte("v1"), 0644))

		dst, err := fs.Replicate(src)
		require.NoError(t, err)

		// Source changes but the replica is stamped newer.
		require.NoError(t, os.WriteFile(src, []byte("v2"), 0644))
		future := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(dst, future, future))

		dst, err = fs.Replicate(src)
		require.NoError(t, err)
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "v1", string(got))
	})

	t.Run("refreshes a stale replica", func(t *testing.T) {
		t.Parallel()

		src := filepath.Join(t.TempDir(), "History")
		require.NoError(t, os.WriteFile(src, []byte("v1"), 0644))

		dst, err := fs.Replicate(src)
		require.NoError(t, err)

		past := time.Now().Add(-time.Hour)
		require.NoError(t, os.Chtimes(dst, past, past))
		require.NoError(t, os.WriteFile(src, []byte("v2"), 0644))

		dst, err = fs.Replicate(src)
		require.NoError(t, err)
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))
	})

	t.Run("failed copy leaves no replica behind", func(t *testing.T) {
		t.Parallel()

		// A directory stats fine and opens fine but fails the read
		// during the copy, exercising the mid-copy error path.
		dir := t.TempDir()
		src := filepath.Join(dir, "History")
		require.NoError(t, os.Mkdir(src, 0755))

		_, err := fs.Replicate(src)
		require.Error(t, err)

		_, err = os.Stat(fs.ReplicaPath(src))
		assert.ErrorIs(t, err, os.ErrNotExist,
			"a truncated replica would be mistaken for a fresh one later")
		_, err = os.Stat(fs.ReplicaPath(src) + ".tmp")
		assert.ErrorIs(t, err, os.ErrNotExist)

		// Once the source is readable the same path replicates cleanly.
		require.NoError(t, os.Remove(src))
		require.NoError(t, os.WriteFile(src, []byte("db contents"), 0644))

		dst, err := fs.Replicate(src)
		require.NoError(t, err)
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "db contents", string(got))
	})

	t.Run("missing source errors", func(t *testing.T) {
		t.Parallel()

		_, err := fs.Replicate(filepath.Join(t.TempDir(), "absent"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
