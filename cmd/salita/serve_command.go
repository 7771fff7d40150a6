package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salita/internal/api"
	"salita/internal/logging"
	"salita/internal/metrics"
	"salita/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Paths.APIBind = bind
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			var m *metrics.Metrics
			if cfg.Metrics.Enabled {
				m = metrics.New()
			}
			svc, err := api.NewFromConfig(cfg, logger, m)
			if err != nil {
				return err
			}
			defer svc.Close()

			srv, err := server.New(cfg, svc, m, logger)
			if err != nil {
				return err
			}

			base := cmd.Context()
			if base == nil {
				base = context.Background()
			}
			signalCtx, cancel := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger.Info("salita starting",
				logging.String("bind", cfg.Paths.APIBind),
				logging.String("database", cfg.DatabasePath()),
				logging.Bool("nlp_enabled", cfg.NLP.Enabled),
			)
			return srv.Run(signalCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind")
	return cmd
}
