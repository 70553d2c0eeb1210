package main

import (
	"errors"

	pg "kaniu/internal/adapters/storage/postgres"
	"kaniu/internal/platform/config"
	"kaniu/internal/platform/logger"

	"github.com/spf13/cobra"
)

var errNoDSN = errors.New("DB_DSN is required to run migrations")

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o inspecciona las migraciones de Postgres",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := migrationDSN()
			if err != nil {
				return err
			}
			log := logger.NewFromEnv()
			defer func() { _ = log.Sync() }()
			if err := pg.Migrate(cmd.Context(), dsn); err != nil {
				log.Error("migrate up failed", map[string]any{"err": err})
				return err
			}
			log.Info("migrations applied", nil)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de cada migración",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := migrationDSN()
			if err != nil {
				return err
			}
			return pg.MigrationStatus(cmd.Context(), dsn)
		},
	})
	return cmd
}

func migrationDSN() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.DatabaseDSN == "" {
		return "", errNoDSN
	}
	return cfg.DatabaseDSN, nil
}
