package firefox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adlio/linkcache"
)

// backupDir holds dated bookmark backups inside a profile.
const backupDir = "bookmarkbackups"

// Node types in a bookmark backup document.
const (
	backupTypeBookmark  = "text/x-moz-place"
	backupTypeContainer = "text/x-moz-place-container"
)

// backupNode is one entry of a bookmark backup tree.
type backupNode struct {
	GUID      string       `json:"guid"`
	Title     string       `json:"title"`
	Type      string       `json:"type"`
	URI       string       `json:"uri"`
	DateAdded int64        `json:"dateAdded"`
	Root      string       `json:"root"`
	Children  []backupNode `json:"children"`
}

// backupLinks reads the newest plain-JSON backup in the profile's
// bookmarkbackups directory. Compressed backups are skipped. A profile
// without usable backups contributes no links.
func backupLinks(ctx context.Context, profileDir string) ([]*linkcache.Link, error) {
	path, err := newestBackup(filepath.Join(profileDir, backupDir))
	if err != nil || path == "" {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmark backup: %w", err)
	}

	var root backupNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse bookmark backup: %w", err)
	}
	return walkBackup(root, nil, nil), nil
}

// newestBackup returns the lexically last *.json file in dir. Backup
// names embed their date, so lexical order is chronological.
func newestBackup(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

// walkBackup appends a link for every bookmark beneath node. The trail
// holds the titles of the enclosing folders, root first; the nameless
// top-level container contributes no segment.
func walkBackup(node backupNode, trail []string, links []*linkcache.Link) []*linkcache.Link {
	switch node.Type {
	case backupTypeBookmark:
		if node.URI == "" {
			return links
		}
		id := node.GUID
		if id == "" {
			id = linkcache.SyntheticID(sourceName, node.URI)
		}
		return append(links, &linkcache.Link{
			ID:        id,
			URL:       node.URI,
			Title:     node.Title,
			Subtitle:  strings.Join(trail, pathSeparator),
			Source:    sourceName,
			Timestamp: mozTime(node.DateAdded),
		})
	case backupTypeContainer:
		if node.Title != "" {
			trail = append(trail, node.Title)
		}
		for _, child := range node.Children {
			links = walkBackup(child, trail, links)
		}
	}
	return links
}
