package cli

import (
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/internal/httpapi"
	"github.com/reqsmith/reqsmith/pkg/config"
)

// newServeCmd creates the serve command, which runs the HTTP API until
// interrupted.
func newServeCmd(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the reqsmith HTTP API. The server exposes manifest parsing and
validation plus package index lookups, and shuts down gracefully on
SIGINT/SIGTERM.

Examples:
  reqsmith serve
  reqsmith serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			logger := loggerFromContext(ctx)

			reg, err := newRegistry(ctx, *cfg)
			if err != nil {
				return err
			}
			defer reg.Close() //nolint:errcheck

			if addr == "" {
				addr = cfg.Serve.Addr
			}

			srv := httpapi.New(reg.client, httpapi.WithLogger(logger))
			logger.Info("serving", "addr", addr, "index", cfg.Index.URL)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")

	return cmd
}
