package main

import (
	"fmt"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/index"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	ix := &index.Indexer{
		Links:       deps.Links,
		Sources:     deps.Sources,
		Limiter:     index.NewSourceLimiter(c.Rate),
		Concurrency: c.Concurrency,
	}

	result, err := ix.Run(deps.Ctx, func(event index.ProgressEvent) {
		switch event.Type {
		case index.ProgressSourceCompleted:
			fmt.Fprintf(deps.Stdout, "%s: %d links\n", event.Source, event.Count)
		case index.ProgressSourceFailed:
			fmt.Fprintf(deps.Stderr, "%s: %s\n", event.Source, event.Error)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkcache.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "indexed %d links (%d duplicates skipped, %d sources failed)\n",
		result.Indexed, result.Skipped, result.Failed)
	return nil
}
