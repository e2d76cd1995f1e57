package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/internal/server"
	"github.com/matzehuels/strata/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Routes:
  POST /v1/layout           lay out the JSON graph record in the body
  POST /v1/render/{format}  lay out and render (svg, dot, graphviz, pdf, png, json)
  GET  /v1/algorithms       list implemented algorithms
  GET  /healthz             liveness
  GET  /metrics             Prometheus metrics

Results are cached in Redis when cache.redis_addr is configured, otherwise
in the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(cfg, logger, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			hooks := observability.NewPrometheusHooks()
			observability.SetLayoutHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			srv := server.New(server.Options{
				Runner:         runner,
				Logger:         logger,
				Gatherer:       hooks.Registry(),
				RequestTimeout: timeout,
			})
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout (0 disables)")

	return cmd
}
