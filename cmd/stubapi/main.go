package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pmadmin/console/internal/config"
	"pmadmin/console/internal/log"
	"pmadmin/console/internal/server"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "stubapi",
		Short:         "Serve the in-memory project management API over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := log.New(cfg.Environment, cfg.Logging.Level, nil)
			return server.Run(cmd.Context(), cfg, logger)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to pmadmin.yaml")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
