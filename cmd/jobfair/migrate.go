package main

import (
	"jobfair/cmd/migration/initialize"
	"jobfair/cmd/migration/seed"
	"jobfair/config"
	"jobfair/internal/database"
	"jobfair/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the dispatch diagnostics database",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all migrations",
	RunE: withDatabase(func(db *gorm.DB, cfg config.Config, log logger.Logger) error {
		return initialize.InitializeTables(db, cfg, log)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: withDatabase(func(db *gorm.DB, _ config.Config, log logger.Logger) error {
		rolledBack, err := database.Migrate(db, database.MigrateDown)
		if err != nil {
			return log.Err("failed to roll back migrations", err)
		}
		log.Info("Rolled back migrations", "count", rolledBack)
		return nil
	}),
}

var migrateSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample dispatch outcomes for development",
	RunE: withDatabase(func(db *gorm.DB, cfg config.Config, log logger.Logger) error {
		return seed.Seed(db, cfg, log)
	}),
}

func withDatabase(run func(db *gorm.DB, cfg config.Config, log logger.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		log := logger.New("migration").Function(cmd.Name())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger.Configure(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

		if cfg.DatabaseDbPath == "" {
			return log.ErrMsg("DATABASE_DB_PATH is empty")
		}
		// Only the diagnostics store is needed here.
		cfg.CacheAddress = ""

		db, err := database.New(cfg)
		if err != nil {
			return log.Err("failed to open database", err)
		}
		defer func() {
			_ = db.Close()
		}()

		return run(db.SQL, cfg, log)
	}
}
