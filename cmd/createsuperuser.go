package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dtroode/recipe-server/internal/config"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
	"github.com/dtroode/recipe-server/internal/password"
	"github.com/dtroode/recipe-server/internal/repository/postgres"
	"github.com/dtroode/recipe-server/internal/service"
)

func newCreateSuperuserCommand() *cobra.Command {
	var params model.CreateUserParams

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account with superuser rights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
			defer stop()

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger := logger.New(cfg.LogLevel)

			db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.WaitTimeout, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			users := service.NewUser(postgres.NewUserRepository(db), password.NewBcrypt(cfg.Password.BcryptCost), logger)
			user, err := users.CreateSuperuser(ctx, params)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created.\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Email, "email", "", "superuser email")
	cmd.Flags().StringVar(&params.Password, "password", "", "superuser password")
	cmd.Flags().StringVar(&params.Name, "name", "", "superuser display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
