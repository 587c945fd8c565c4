package seed

import (
	"time"

	"jobfair/config"
	"jobfair/internal/logger"
	. "jobfair/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed inserts sample dispatch outcomes so the admin panel has rows to show
// during development. It does nothing when outcomes already exist.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	var existing int64
	if err := db.Model(&DispatchOutcome{}).Count(&existing).Error; err != nil {
		return log.Err("failed to count dispatch outcomes", err)
	}
	if existing > 0 {
		log.Info("Dispatch outcomes already exist, skipping seed", "count", existing)
		return nil
	}

	outcomes := []DispatchOutcome{
		{Status: "delivered", HTTPStatus: 200, DurationMs: 412},
		{Status: "rejected", HTTPStatus: 200, DurationMs: 388, ErrorMessage: stringPtr("Sheet not found")},
		{Status: "failed", HTTPStatus: 0, DurationMs: int(15 * time.Second / time.Millisecond), ErrorMessage: stringPtr("context deadline exceeded")},
		{Status: "skipped"},
	}

	for _, outcome := range outcomes {
		outcome.SubmissionID = uuid.NewString()
		log.Info("Seeding dispatch outcome", "status", outcome.Status)
		if err := db.Create(&outcome).Error; err != nil {
			log.Er("failed to create dispatch outcome", err, "status", outcome.Status)
		}
	}

	return nil
}
