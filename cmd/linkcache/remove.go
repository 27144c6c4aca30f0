package main

import (
	"fmt"

	"github.com/adlio/linkcache"
)

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	err := deps.Links.Remove(deps.Ctx, &linkcache.Link{URL: c.URL})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkcache.ErrorMessage(err))
		return err
	}

	if err := deps.Links.Commit(deps.Ctx); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "removed %s\n", c.URL)
	return nil
}
