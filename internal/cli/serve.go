package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/footrule/pkg/cache"
	"github.com/matzehuels/footrule/pkg/observability"
	"github.com/matzehuels/footrule/pkg/server"
)

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr     string
	noCache  bool
	metrics  bool
	maxItems int
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{metrics: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Routes:
  POST /v1/aggregate   aggregate inline rankings
  GET  /v1/runs        list recent runs
  GET  /v1/runs/{id}   fetch a recorded run
  GET  /healthz        backend health
  GET  /metrics        Prometheus metrics

Cache and history backends come from the config file; use a Redis cache and a
MongoDB history store to share state between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = flags.addr
			}
			if cmd.Flags().Changed("max-items") {
				cfg.Solver.MaxItems = flags.maxItems
			}
			return c.runServe(cmd.Context(), cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", flags.metrics, "expose Prometheus metrics on /metrics")
	cmd.Flags().IntVar(&flags.maxItems, "max-items", 0, "maximum distinct items per request (default from config, 1000)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *Config, flags serveFlags) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "api:")

	srvCfg := server.Config{
		Addr:           cfg.Server.Addr,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		MaxItems:       cfg.Solver.MaxItems,
		RequestTimeout: cfg.Server.RequestTimeout.Duration,
		Logger:         logger,
	}

	if flags.metrics {
		reg, err := newMetricsRegistry()
		if err != nil {
			return err
		}
		defer observability.Reset()
		srvCfg.Gatherer = reg
	}

	logger.Info("starting server",
		"addr", srvCfg.Addr,
		"cache", cfg.Cache.Backend,
		"history", cfg.History.Backend,
		"metrics", flags.metrics)

	return server.New(runner, srvCfg).ListenAndServe(ctx)
}

// newMetricsRegistry registers the footrule collectors alongside the Go
// runtime and process collectors, and installs them as observability hooks.
func newMetricsRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}

	hooks := observability.NewPrometheusHooks()
	if err := hooks.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	observability.SetSolverHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return reg, nil
}
