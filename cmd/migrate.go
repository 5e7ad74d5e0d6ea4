package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dtroode/recipe-server/internal/config"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/repository/postgres"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Wait for the database and apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
			defer stop()

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger := logger.New(cfg.LogLevel)

			if err := postgres.Prepare(ctx, cfg.Database.DSN, cfg.Database.WaitTimeout, logger); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}
