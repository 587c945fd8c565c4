package database

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

type MigrateDirection = migrate.MigrationDirection

const (
	MigrateUp   = migrate.Up
	MigrateDown = migrate.Down
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "20261001-dispatch-outcomes",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS dispatch_outcomes (
					id VARCHAR(64) PRIMARY KEY,
					created_at DATETIME,
					updated_at DATETIME,
					deleted_at DATETIME,
					submission_id VARCHAR(64) NOT NULL,
					status VARCHAR(20) NOT NULL,
					http_status INTEGER NOT NULL DEFAULT 0,
					error_message TEXT,
					email_digest VARCHAR(64),
					duration_ms INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX IF NOT EXISTS idx_dispatch_outcomes_submission_id ON dispatch_outcomes (submission_id)`,
				`CREATE INDEX IF NOT EXISTS idx_dispatch_outcomes_deleted_at ON dispatch_outcomes (deleted_at)`,
			},
			Down: []string{
				`DROP TABLE IF EXISTS dispatch_outcomes`,
			},
		},
	},
}

// Migrate applies the diagnostics migrations and returns how many ran.
func Migrate(db *gorm.DB, direction MigrateDirection) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get sql handle: %w", err)
	}

	applied, err := migrate.Exec(sqlDB, "sqlite3", migrations, direction)
	if err != nil {
		return applied, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return applied, nil
}
