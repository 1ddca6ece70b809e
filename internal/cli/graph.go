package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "licensetree/pkg/errors"
	"licensetree/pkg/render/nodelink"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := scanOpts{}

	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Render the scanned dependency tree as a node-link diagram",
		Long: `Graph scans the package tree like scan does, then renders the result
as a Graphviz diagram. Nodes are colored by license status. The output
format follows the -o file extension (.dot, .svg, or .png); without -o
the DOT source is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.runGraph(cmd, root, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file: .dot, .svg, or .png (stdout DOT if empty)")
	cmd.Flags().StringVar(&opts.lineEndings, "line-endings", "", "newline style for license text: lf, crlf, or cr (default: host OS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the resolution cache")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache", "", "cache backend: file or redis")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "redis address for --cache redis (host:port)")
	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, root string, opts *scanOpts) error {
	ctx := cmd.Context()

	rep, err := c.runScan(ctx, root, opts)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(rep)

	if opts.output == "" {
		fmt.Print(dot)
		return nil
	}

	var data []byte
	switch ext := filepath.Ext(opts.output); ext {
	case ".dot":
		data = []byte(dot)
	case ".svg":
		data, err = nodelink.RenderSVG(ctx, dot)
	case ".png":
		data, err = nodelink.RenderPNG(ctx, dot)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown graph extension: %q (want .dot, .svg, or .png)", ext)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return err
	}
	printFile(opts.output)
	return nil
}
