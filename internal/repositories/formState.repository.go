package repositories

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"jobfair/internal/database"
	"jobfair/internal/form"
	"jobfair/internal/logger"
)

const (
	FORM_STATE_CACHE_PREFIX = "form"
	FORM_STATE_DEFAULT_TTL  = 24 * time.Hour
)

// FormStateRepository stores one form controller snapshot per browser session.
type FormStateRepository interface {
	Get(ctx context.Context, sessionID string) (form.Snapshot, bool, error)
	Save(ctx context.Context, sessionID string, snapshot form.Snapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// NewFormState uses the valkey cache when one is configured and an
// in-process store otherwise.
func NewFormState(db database.DB, ttl time.Duration) FormStateRepository {
	if ttl <= 0 {
		ttl = FORM_STATE_DEFAULT_TTL
	}
	if db.Cache.FormState == nil {
		return NewMemoryFormState(ttl, time.Now)
	}
	return &cacheFormStateRepository{
		db:  db,
		ttl: ttl,
		log: logger.New("formStateRepository"),
	}
}

type cacheFormStateRepository struct {
	db  database.DB
	ttl time.Duration
	log logger.Logger
}

func (r *cacheFormStateRepository) builder(ctx context.Context, sessionID string) *database.CacheBuilder {
	return database.NewCacheBuilder(r.db.Cache.FormState, sessionID).
		WithPrefix(FORM_STATE_CACHE_PREFIX).
		WithContext(ctx)
}

func (r *cacheFormStateRepository) Get(ctx context.Context, sessionID string) (form.Snapshot, bool, error) {
	var snapshot form.Snapshot
	found, err := r.builder(ctx, sessionID).Get(&snapshot)
	if err != nil {
		return form.Snapshot{}, false, r.log.Function("Get").
			Err("failed to get form state from cache", err, "sessionID", sessionID)
	}
	return snapshot, found, nil
}

func (r *cacheFormStateRepository) Save(ctx context.Context, sessionID string, snapshot form.Snapshot) error {
	if err := r.builder(ctx, sessionID).WithStruct(snapshot).WithTTL(r.ttl).Set(); err != nil {
		return r.log.Function("Save").
			Err("failed to save form state to cache", err, "sessionID", sessionID)
	}
	return nil
}

func (r *cacheFormStateRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.builder(ctx, sessionID).Delete(); err != nil {
		return r.log.Function("Delete").
			Err("failed to delete form state from cache", err, "sessionID", sessionID)
	}
	return nil
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memoryFormStateRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryFormState keeps snapshots JSON encoded so callers never share
// slices with the stored copy.
func NewMemoryFormState(ttl time.Duration, now func() time.Time) FormStateRepository {
	return &memoryFormStateRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (r *memoryFormStateRepository) Get(_ context.Context, sessionID string) (form.Snapshot, bool, error) {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	if ok && !r.now().Before(entry.expires) {
		delete(r.entries, sessionID)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return form.Snapshot{}, false, nil
	}

	var snapshot form.Snapshot
	if err := json.Unmarshal(entry.data, &snapshot); err != nil {
		return form.Snapshot{}, false, err
	}
	return snapshot, true, nil
}

func (r *memoryFormStateRepository) Save(_ context.Context, sessionID string, snapshot form.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, entry := range r.entries {
		if !now.Before(entry.expires) {
			delete(r.entries, id)
		}
	}
	r.entries[sessionID] = memoryEntry{data: data, expires: now.Add(r.ttl)}
	return nil
}

func (r *memoryFormStateRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
	return nil
}
