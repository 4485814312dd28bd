package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/calong-tick/internal/core/storage"
	"github.com/frahmantamala/calong-tick/migrations"
	"github.com/frahmantamala/calong-tick/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print the applied state of every migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	db, _, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(storage.Dialect); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	switch {
	case migrateStatus:
		return goose.StatusContext(ctx, db.DB, ".")
	case migrateRollback:
		if err := goose.DownContext(ctx, db.DB, "."); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		lg.Info("rolled back latest migration")
	default:
		if err := goose.UpContext(ctx, db.DB, "."); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		lg.Info("migrations applied")
	}

	return nil
}
