package registrationController

import (
	"context"
	"errors"
	"sync"

	"jobfair/internal/form"
	"jobfair/internal/logger"
	"jobfair/internal/repositories"
)

// RegistrationController keeps one form.Controller per browser session,
// restored from and saved back to the form state repository around every
// operation. Operations on the same session are serialized.
type RegistrationController struct {
	variant       form.Variant
	dispatcher    form.Dispatcher
	formStateRepo repositories.FormStateRepository
	locksMu       sync.Mutex
	locks         map[string]*sessionLock
	log           logger.Logger
}

// sessionLock is dropped from the map once its last holder unlocks.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func New(
	variant form.Variant,
	dispatcher form.Dispatcher,
	formStateRepo repositories.FormStateRepository,
) *RegistrationController {
	return &RegistrationController{
		variant:       variant,
		dispatcher:    dispatcher,
		formStateRepo: formStateRepo,
		locks:         make(map[string]*sessionLock),
		log:           logger.New("RegistrationController"),
	}
}

func (rc *RegistrationController) Variant() form.Variant {
	return rc.variant
}

func (rc *RegistrationController) Current(ctx context.Context, sessionID string) (form.Snapshot, error) {
	unlock := rc.lock(sessionID)
	defer unlock()

	controller, err := rc.load(ctx, sessionID)
	if err != nil {
		return form.Snapshot{}, err
	}
	return controller.Snapshot(), nil
}

// ApplyEdit sets one field and returns the resulting state.
func (rc *RegistrationController) ApplyEdit(
	ctx context.Context,
	sessionID string,
	field form.Field,
	value string,
) (form.Snapshot, error) {
	unlock := rc.lock(sessionID)
	defer unlock()

	controller, err := rc.load(ctx, sessionID)
	if err != nil {
		return form.Snapshot{}, err
	}

	if err := controller.Edit(field, value); err != nil {
		return controller.Snapshot(), err
	}

	snapshot := controller.Snapshot()
	if err := rc.save(ctx, sessionID, snapshot); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

// Submit merges posted into the draft when it is not nil, then submits. Only
// fields are merged when given; otherwise posted replaces every field of the
// variant. The returned snapshot reflects the state after the attempt,
// including the Error Set on a validation failure.
func (rc *RegistrationController) Submit(
	ctx context.Context,
	sessionID string,
	posted *form.DraftRecord,
	fields ...form.Field,
) (form.SubmissionRecord, form.Snapshot, error) {
	log := rc.log.Function("Submit")

	unlock := rc.lock(sessionID)
	defer unlock()

	controller, err := rc.load(ctx, sessionID)
	if err != nil {
		return form.SubmissionRecord{}, form.Snapshot{}, err
	}

	if posted != nil && controller.State() == form.StateEditing {
		if len(fields) == 0 {
			fields = rc.variant.Fields()
		}
		if err := controller.MergeFields(*posted, fields); err != nil {
			return form.SubmissionRecord{}, controller.Snapshot(), log.Err("failed to apply posted form", err, "sessionID", sessionID)
		}
	}

	record, submitErr := controller.Submit(ctx)
	snapshot := controller.Snapshot()

	if errors.Is(submitErr, form.ErrAlreadySubmitted) || errors.Is(submitErr, form.ErrSubmitInProgress) {
		return form.SubmissionRecord{}, snapshot, submitErr
	}

	if err := rc.save(ctx, sessionID, snapshot); err != nil {
		if submitErr != nil {
			return form.SubmissionRecord{}, snapshot, submitErr
		}
		// The record is already dispatched, so the user still sees the acknowledgment.
		log.Warn("submission accepted but form state was not saved", "sessionID", sessionID, "error", err)
	}

	return record, snapshot, submitErr
}

func (rc *RegistrationController) Dismiss(ctx context.Context, sessionID string) (form.Snapshot, error) {
	unlock := rc.lock(sessionID)
	defer unlock()

	controller, err := rc.load(ctx, sessionID)
	if err != nil {
		return form.Snapshot{}, err
	}

	if err := controller.Dismiss(); err != nil {
		return controller.Snapshot(), err
	}

	snapshot := controller.Snapshot()
	if err := rc.save(ctx, sessionID, snapshot); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

// Reset discards the session's form state.
func (rc *RegistrationController) Reset(ctx context.Context, sessionID string) error {
	unlock := rc.lock(sessionID)
	defer unlock()

	if err := rc.formStateRepo.Delete(ctx, sessionID); err != nil {
		return rc.log.Function("Reset").Err("failed to delete form state", err, "sessionID", sessionID)
	}
	return nil
}

func (rc *RegistrationController) lock(sessionID string) func() {
	rc.locksMu.Lock()
	entry, ok := rc.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		rc.locks[sessionID] = entry
	}
	entry.refs++
	rc.locksMu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		rc.locksMu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(rc.locks, sessionID)
		}
		rc.locksMu.Unlock()
	}
}

func (rc *RegistrationController) lockCount() int {
	rc.locksMu.Lock()
	defer rc.locksMu.Unlock()
	return len(rc.locks)
}

// load restores the session's controller. State saved under a different
// variant is discarded since its fields no longer apply.
func (rc *RegistrationController) load(ctx context.Context, sessionID string) (*form.Controller, error) {
	log := rc.log.Function("load")

	snapshot, found, err := rc.formStateRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, log.Err("failed to load form state", err, "sessionID", sessionID)
	}

	if !found {
		return form.NewController(rc.variant, rc.dispatcher), nil
	}
	if snapshot.Variant != rc.variant.Name {
		log.Info("discarding form state of another variant", "sessionID", sessionID, "variant", snapshot.Variant)
		return form.NewController(rc.variant, rc.dispatcher), nil
	}

	return form.Restore(snapshot, rc.variant, rc.dispatcher), nil
}

func (rc *RegistrationController) save(ctx context.Context, sessionID string, snapshot form.Snapshot) error {
	if err := rc.formStateRepo.Save(ctx, sessionID, snapshot); err != nil {
		return rc.log.Function("save").Err("failed to save form state", err, "sessionID", sessionID)
	}
	return nil
}
