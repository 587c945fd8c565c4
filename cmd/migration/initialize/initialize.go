package initialize

import (
	"jobfair/config"
	"jobfair/internal/database"
	"jobfair/internal/logger"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Applying diagnostics migrations", "dbPath", config.DatabaseDbPath)

	applied, err := database.Migrate(db, database.MigrateUp)
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}

	log.Info("Table initialization complete", "applied", applied)
	return nil
}
