package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voronoi/pkg/observability"
	"github.com/matzehuels/voronoi/pkg/server"
)

type serveOpts struct {
	addr    string
	metrics bool
	noCache bool
}

// serveCommand creates the serve command, which runs the web form.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram form over HTTP",
		Long: `Serve the diagram form over HTTP.

GET / shows the form, POST /generate_diagram renders a PNG from it. With
--metrics, Prometheus metrics are exposed at /metrics.`,
		Example: `  voronoi serve
  voronoi serve --addr :8080 --metrics
  voronoi serve -c voronoi.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, then :5000)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache, false)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.Limits = cfg.Render.Limits

	var srvOpts []server.Option
	if opts.metrics || cfg.Metrics.Enabled {
		prom, err := observability.NewPrometheus(prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		prom.Install()
		defer observability.Reset()
		srvOpts = append(srvOpts, server.WithMetrics(prom.Handler()))
	}

	srv, err := server.New(cfg.Server, runner, loggerFromContext(ctx), srvOpts...)
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return nil
}
