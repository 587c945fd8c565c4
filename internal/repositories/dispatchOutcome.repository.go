package repositories

import (
	"context"
	"encoding/hex"
	"strings"

	"jobfair/internal/database"
	"jobfair/internal/logger"
	. "jobfair/internal/models"
	"jobfair/internal/services"

	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

const DISPATCH_OUTCOME_RECENT_LIMIT = 50

type DispatchOutcomeRepository interface {
	Create(ctx context.Context, outcome *DispatchOutcome) error
	GetRecent(ctx context.Context, limit int) ([]*DispatchOutcome, error)
	GetBySubmissionID(ctx context.Context, submissionID string) ([]*DispatchOutcome, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	// Record makes the repository a dispatcher outcome sink.
	Record(ctx context.Context, outcome services.DispatchOutcome)
}

type dispatchOutcomeRepository struct {
	db        database.DB
	digestKey []byte
	log       logger.Logger
}

func NewDispatchOutcome(db database.DB, digestKey string) DispatchOutcomeRepository {
	return &dispatchOutcomeRepository{
		db:        db,
		digestKey: []byte(digestKey),
		log:       logger.New("dispatchOutcomeRepository"),
	}
}

func (r *dispatchOutcomeRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.SQLWithContext(ctx)
}

func (r *dispatchOutcomeRepository) Create(ctx context.Context, outcome *DispatchOutcome) error {
	if err := r.getDB(ctx).Create(outcome).Error; err != nil {
		return r.log.Function("Create").
			Err("failed to create dispatch outcome", err, "submissionID", outcome.SubmissionID)
	}
	return nil
}

func (r *dispatchOutcomeRepository) GetRecent(ctx context.Context, limit int) ([]*DispatchOutcome, error) {
	if limit <= 0 || limit > DISPATCH_OUTCOME_RECENT_LIMIT {
		limit = DISPATCH_OUTCOME_RECENT_LIMIT
	}

	var outcomes []*DispatchOutcome
	if err := r.getDB(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&outcomes).Error; err != nil {
		return nil, r.log.Function("GetRecent").Err("failed to get recent dispatch outcomes", err)
	}
	return outcomes, nil
}

func (r *dispatchOutcomeRepository) GetBySubmissionID(ctx context.Context, submissionID string) ([]*DispatchOutcome, error) {
	var outcomes []*DispatchOutcome
	if err := r.getDB(ctx).Where("submission_id = ?", submissionID).Find(&outcomes).Error; err != nil {
		return nil, r.log.Function("GetBySubmissionID").
			Err("failed to get dispatch outcomes", err, "submissionID", submissionID)
	}
	return outcomes, nil
}

func (r *dispatchOutcomeRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.getDB(ctx).Model(&DispatchOutcome{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, r.log.Function("CountByStatus").Err("failed to count dispatch outcomes", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *dispatchOutcomeRepository) Record(ctx context.Context, outcome services.DispatchOutcome) {
	record := &DispatchOutcome{
		SubmissionID: outcome.SubmissionID,
		Status:       string(outcome.Status),
		HTTPStatus:   outcome.HTTPStatus,
		EmailDigest:  r.EmailDigest(outcome.Email),
		DurationMs:   int(outcome.Duration.Milliseconds()),
	}
	if outcome.Error != "" {
		message := outcome.Error
		record.ErrorMessage = &message
	}

	if err := r.Create(ctx, record); err != nil {
		r.log.Function("Record").Warn("failed to record dispatch outcome", "submissionID", outcome.SubmissionID, "error", err)
	}
}

// EmailDigest is a keyed BLAKE2b-256 of the normalized address.
func (r *dispatchOutcomeRepository) EmailDigest(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}

	hash, err := blake2b.New256(r.digestKey)
	if err != nil {
		sum := blake2b.Sum256([]byte(email))
		return hex.EncodeToString(sum[:])
	}
	hash.Write([]byte(email))
	return hex.EncodeToString(hash.Sum(nil))
}
