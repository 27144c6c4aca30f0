package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adlio/linkcache"
	"github.com/adlio/linkcache/arc"
	"github.com/adlio/linkcache/chrome"
	"github.com/adlio/linkcache/firefox"
	lcslog "github.com/adlio/linkcache/slog"
	"github.com/adlio/linkcache/sqlite"
	"github.com/alecthomas/kong"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the link cache.
	DB *sqlite.DB

	// Link service for end-to-end testing.
	Links linkcache.LinkService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linkcache"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'linkcache --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LINKCACHE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Links = sqlite.NewLinkService(m.DB)
	if cli.Verbose {
		m.Links = lcslog.NewLoggingLinkService(m.Links, logger)
	}
	deps.Links = m.Links

	if cmd == "index" {
		deps.Sources, err = buildSources(cli.Index.Sources, cli.Verbose, logger)
		if err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// sourceNames orders the known browser sources.
var sourceNames = []string{"arc", "chrome", "firefox"}

// buildSources constructs the requested browser adapters, all of them
// when names is empty.
func buildSources(names []string, verbose bool, logger *slog.Logger) ([]linkcache.LinkSource, error) {
	if len(names) == 0 {
		names = sourceNames
	}

	var sources []linkcache.LinkSource
	for _, name := range names {
		var source linkcache.LinkSource
		switch name {
		case "arc":
			source = arc.NewBrowser(nil)
		case "chrome":
			source = chrome.NewBrowser(nil)
		case "firefox":
			source = firefox.NewBrowser(nil)
		default:
			return nil, fmt.Errorf("unknown source %q (known: arc, chrome, firefox)", name)
		}
		if verbose {
			source = lcslog.NewLoggingLinkSource(source, logger)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func defaultDBPath() string {
	if path := os.Getenv("LINKCACHE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "linkcache.db"
	}
	dir := filepath.Join(home, ".linkcache")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "linkcache.db")
}
