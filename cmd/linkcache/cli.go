package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/adlio/linkcache"
)

// Dependencies holds all services and configuration for command
// execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Links   linkcache.LinkService
	Sources []linkcache.LinkSource
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Index  IndexCmd  `cmd:"" help:"Re-index links from browser sources"`
	Search SearchCmd `cmd:"" help:"Search the link cache"`
	Latest LatestCmd `cmd:"" help:"Show the most recently saved links"`
	Remove RemoveCmd `cmd:"" help:"Remove a link from the cache"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Sources     []string `short:"s" help:"Sources to index (arc, chrome, firefox); all when omitted"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent source read limit"`
	Rate        float64  `default:"10" help:"Reads per second per source"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   []string `arg:"" optional:"" help:"Search terms; empty browses the newest links"`
	Alfred  bool     `help:"Render results as Alfred Script Filter JSON"`
	Refresh bool     `help:"Spawn a background re-index when the cache is stale"`
}

// LatestCmd is the "latest" subcommand.
type LatestCmd struct {
	N      int  `short:"n" default:"50" help:"Number of links to show"`
	Alfred bool `help:"Render results as Alfred Script Filter JSON"`
}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	URL string `arg:"" help:"URL of the link to remove"`
}
