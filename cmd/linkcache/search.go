package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/adlio/linkcache"
)

// refreshAfter is how old the newest cached link may be before a
// refreshing search spawns a background re-index.
const refreshAfter = time.Hour

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	links, err := deps.Links.Search(deps.Ctx, query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkcache.ErrorMessage(err))
		return err
	}

	if c.Refresh && cacheStale(deps) {
		spawnRefresh(deps)
	}

	if c.Alfred {
		return writeAlfred(deps.Stdout, links)
	}

	if len(links) == 0 {
		fmt.Fprintln(deps.Stdout, "No links found. Run 'linkcache index' to populate the cache.")
		return nil
	}
	writeLinks(deps, links)
	return nil
}

// writeLinks renders links one per line.
func writeLinks(deps *Dependencies, links []*linkcache.Link) {
	for _, link := range links {
		if link.Subtitle != "" {
			fmt.Fprintf(deps.Stdout, "%s  (%s)  %s\n", link.Title, link.Subtitle, link.URL)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  %s\n", link.Title, link.URL)
	}
}

// cacheStale reports whether the newest cached link predates the
// refresh window. An empty cache is always stale.
func cacheStale(deps *Dependencies) bool {
	newest, err := deps.Links.Latest(deps.Ctx, 1)
	if err != nil || len(newest) == 0 {
		return true
	}
	return time.Since(newest[0].Timestamp) > refreshAfter
}

// spawnRefresh starts a detached 'linkcache index' run. The processes
// coordinate through the store alone, so a failed spawn only means the
// cache stays stale until the next explicit index.
func spawnRefresh(deps *Dependencies) {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	cmd := exec.Command(exe, "index")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return
	}
	deps.Logger.Info("background refresh started", "pid", cmd.Process.Pid)
	_ = cmd.Process.Release()
}
