package cmd

import (
	"github.com/spf13/cobra"

	"pmadmin/console/internal/log"
	"pmadmin/console/internal/server"
)

func (r *root) serveStubCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-stub",
		Short: "Serve the in-memory backend over HTTP",
		Long: `Serve the stub backend on http.port until interrupted. Point another
console at it with --api-url http://localhost:<port>/api to share its state
across invocations.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"standalone": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := r.opts.loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(cfg.Environment, cfg.Logging.Level, cmd.ErrOrStderr())
			return server.Run(cmd.Context(), cfg, logger)
		},
	}
}
