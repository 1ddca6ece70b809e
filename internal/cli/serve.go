package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"licensetree/pkg/render/nodelink"
	"licensetree/pkg/report"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := scanOpts{}
	addr := ""

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Scan a package tree and serve the report over HTTP",
		Long: `Serve scans the package tree once at startup and exposes the report
on a local HTTP server: the text report at /, JSON at /report.json, and
an SVG diagram at /report.svg. The server runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.runServe(cmd.Context(), root, addr, &opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8123", "listen address")
	cmd.Flags().StringVar(&opts.lineEndings, "line-endings", "", "newline style for license text: lf, crlf, or cr (default: host OS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the resolution cache")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache", "", "cache backend: file or redis")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "redis address for --cache redis (host:port)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, root, addr string, opts *scanOpts) error {
	logger := loggerFromContext(ctx)

	rep, err := c.runScan(ctx, root, opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           reportRouter(rep),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Infof("Serving report on http://%s", addr)
	printInfo("Report available at http://%s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// reportRouter builds the HTTP routes for one finished report.
func reportRouter(rep *report.Report) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(rep.Render()))
	})

	r.Get("/report.json", func(w http.ResponseWriter, req *http.Request) {
		data, err := rep.RenderJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	r.Get("/report.svg", func(w http.ResponseWriter, req *http.Request) {
		svg, err := nodelink.RenderSVG(req.Context(), nodelink.ToDOT(rep))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
