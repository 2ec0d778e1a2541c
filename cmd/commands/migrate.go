package commands

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TourBookingService/internal/config"
	"github.com/m04kA/SMC-TourBookingService/migrations"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
)

// Migrate возвращает команду применения миграций Postgres
//
// Флаги:
//
//	--config, -c: путь к config.toml (по умолчанию config.toml)
func Migrate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply Postgres schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	return cmd
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return fmt.Errorf("migrations are only needed for storage driver %q, got %q",
			config.StorageDriverPostgres, cfg.Storage.Driver)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	applied, err := migrations.Apply(ctx, db, log)
	if err != nil {
		return err
	}
	log.Info("Migrations done, applied=%d", applied)
	return nil
}
