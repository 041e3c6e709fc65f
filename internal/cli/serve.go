package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/centerbox/internal/server"
)

// serveCommand creates the command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the box search over HTTP",
		Long: `Serve the box search over HTTP until interrupted.

Endpoints:
  GET  /healthz
  GET  /version
  POST /v1/boxes  {"text": "...", "preset": "...", "width": 0, "max_lines": 0,
                   "best": false, "metric": "...", "skip_blank_lines": false}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := server.New(runner, cfg, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
