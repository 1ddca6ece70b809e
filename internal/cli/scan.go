package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "licensetree/pkg/errors"
	"licensetree/pkg/report"
	"licensetree/pkg/scan"
)

// Output formats for the scan command.
const (
	formatText = "text"
	formatJSON = "json"
	formatTree = "tree"
)

// scanOpts holds the command-line flags shared by scan-driven commands.
type scanOpts struct {
	output       string // report destination (stdout if empty)
	format       string // text, json, or tree
	lineEndings  string // lf, crlf, or cr
	noCache      bool   // disable the resolution cache
	cacheBackend string // file or redis
	redisAddr    string // redis address for --cache redis
}

func (o *scanOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "report file (stdout if empty)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: text, json, or tree")
	cmd.Flags().StringVar(&o.lineEndings, "line-endings", "", "newline style for license text: lf, crlf, or cr (default: host OS)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the resolution cache")
	cmd.Flags().StringVar(&o.cacheBackend, "cache", "", "cache backend: file or redis")
	cmd.Flags().StringVar(&o.redisAddr, "redis-addr", "", "redis address for --cache redis (host:port)")
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOpts{}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a package tree and report every dependency's license text",
		Long: `Scan walks the package directory at path (default: current directory)
and every package nested under its node_modules tree. For each package it
resolves license text from dedicated license files, falling back to a
README license section, and reports packages where nothing was found.

An optional .licensetree.toml in the scan root provides defaults for the
flags below.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			rep, err := c.runScan(cmd.Context(), root, &opts)
			if err != nil {
				return err
			}
			return c.writeReport(rep, &opts)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

// runScan executes a full scan and aggregates the report.
func (c *CLI) runScan(ctx context.Context, root string, opts *scanOpts) (*report.Report, error) {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", configFile, err)
	}
	cfg.apply(opts)
	if opts.format == "" {
		opts.format = formatText
	}
	if err := validateFormat(opts.format); err != nil {
		return nil, err
	}

	ending, err := scan.ParseLineEnding(opts.lineEndings)
	if err != nil {
		return nil, err
	}

	resCache, err := c.newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer resCache.Close()

	logger.Infof("Scanning %s", root)
	prog := newProgress(logger)

	walker := scan.NewWalker(scan.Options{
		LineEnding: ending,
		Cache:      resCache,
		Logf:       func(msg string, args ...any) { logger.Warnf(msg, args...) },
		Debugf:     func(msg string, args ...any) { logger.Debugf(msg, args...) },
	})

	spin := newSpinner(ctx, "scanning packages")
	spin.start()
	stopPoll := make(chan struct{})
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopPoll:
				return
			case <-ticker.C:
				spin.setMessage(fmt.Sprintf("scanning packages (%d visited)", walker.Visited()))
			}
		}
	}()

	result, err := walker.Run(ctx, root)
	close(stopPoll)
	spin.stop()
	if err != nil {
		return nil, err
	}

	rep := report.Build(result)
	prog.done(fmt.Sprintf("Scanned %d packages", rep.Total()))
	return rep, nil
}

// writeReport renders the report in the configured format and writes it
// to the output destination. Write failures are logged and degrade to
// stdout; the report itself is never lost.
func (c *CLI) writeReport(rep *report.Report, opts *scanOpts) error {
	content, err := renderReport(rep, opts.format)
	if err != nil {
		return err
	}

	if opts.output == "" {
		fmt.Print(content)
	} else if err := os.WriteFile(opts.output, []byte(content), 0644); err != nil {
		c.Logger.Warnf("write report to %s: %v", opts.output, err)
		fmt.Print(content)
	} else {
		printFile(opts.output)
	}

	printSummary(rep.Total(), rep.ImproperlyLicensed(), rep.Unlicensed())
	return nil
}

// renderReport produces the report content for one format.
func renderReport(rep *report.Report, format string) (string, error) {
	switch format {
	case formatText:
		return rep.Render(), nil
	case formatJSON:
		data, err := rep.RenderJSON()
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case formatTree:
		var sb strings.Builder
		if err := rep.RenderTree(&sb); err != nil {
			return "", err
		}
		return sb.String(), nil
	}
	return "", validateFormat(format)
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatTree:
		return nil
	}
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format: %q (want text, json, or tree)", format)
}

func errInvalidCacheBackend(backend string) error {
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown cache backend: %q (want file or redis)", backend)
}
