package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-api/internal/infrastructure/config"
	pgstore "github.com/skillswap/skillswap-api/internal/infrastructure/db/postgres"
	"github.com/skillswap/skillswap-api/pkg/logger"
)

// NewMigrateCmd creates the migrate subcommand and its up/down/version children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or roll back the embedded PostgreSQL migrations. With STORE_DRIVER=mongo,
"up" creates the collection indexes instead.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, (*pgstore.Migrator).Up)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration (drops all tables)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, (*pgstore.Migrator).Down)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, func(m *pgstore.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, op func(*pgstore.Migrator) error) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "skillswap"})

	if cfg.StoreDriver == config.DriverMongo {
		if cmd.Name() != "up" {
			return errors.New("migrate: only \"up\" is supported for the mongo driver")
		}
		// openBackend ensures the indexes on connect.
		be, err := openBackend(ctx, cfg, false, log)
		if err != nil {
			return err
		}
		be.Close()
		log.Info().Msg("mongo indexes ensured")
		return nil
	}

	m, err := pgstore.NewMigrator(cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := op(m); err != nil {
		return err
	}
	log.Info().Str("operation", cmd.Name()).Msg("migration completed")
	return nil
}

