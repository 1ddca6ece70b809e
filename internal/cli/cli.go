// Package cli implements the licensetree command-line interface.
//
// Commands scan a package tree for license text (scan), visualize the
// result (graph, tui), serve it over local HTTP (serve), and manage the
// resolution cache (cache). All commands support --verbose (-v) for
// debug-level logging; loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"licensetree/pkg/buildinfo"
	"licensetree/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "licensetree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "licensetree reports license text across a dependency tree",
		Long:         `licensetree walks a package directory and its nested node_modules tree, collects every dependency's license text, and flags packages that declare a license without shipping one, or carry no license information at all.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Every command reads its logger from the context.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the resolution cache from command flags.
func (c *CLI) newCache(ctx context.Context, opts *scanOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	switch opts.cacheBackend {
	case "", "file":
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warnf("Cache disabled: %v", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, opts.redisAddr)
	default:
		return nil, errInvalidCacheBackend(opts.cacheBackend)
	}
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/licensetree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
