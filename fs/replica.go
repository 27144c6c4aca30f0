// Package fs copies live browser database files into replicas that can
// be opened without contending with the browser's own locks.
package fs

import (
	"fmt"
	"io"
	"os"
)

// replicaSuffix marks replica files next to their source.
const replicaSuffix = ".linkcache"

// ReplicaPath returns the path the replica of src is written to.
func ReplicaPath(src string) string {
	return src + replicaSuffix
}

// Replicate copies src to its replica path and returns that path.
// Browsers keep their SQLite databases exclusively locked while
// running, so readers open the replica instead of the original. An
// existing replica is reused when it is at least as new as the source.
func Replicate(src string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", err
	}

	dst := ReplicaPath(src)
	if dstInfo, err := os.Stat(dst); err == nil {
		if !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			return dst, nil
		}
	}

	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to replicate %s: %w", src, err)
	}
	return dst, nil
}

// copyFile copies src into dst through a temporary sibling renamed
// into place, so a failed copy never leaves a truncated dst behind; a
// partial file there would look fresh and get reused by later
// Replicate calls.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
