package main

import (
	"fmt"

	"github.com/adlio/linkcache"
)

// Run executes the latest command.
func (c *LatestCmd) Run(deps *Dependencies) error {
	links, err := deps.Links.Latest(deps.Ctx, c.N)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkcache.ErrorMessage(err))
		return err
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
