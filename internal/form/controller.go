package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobfair/internal/logger"
)

type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

var (
	ErrNotEditing       = errors.New("form is not accepting edits")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted = errors.New("form already submitted")
)

// Dispatcher issues the outbound submission. Implementations must return as
// soon as the call is issued; the controller never sees its outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, record SubmissionRecord)
}

// Controller owns one Draft Record and its Error Set.
type Controller struct {
	mu         sync.Mutex
	variant    Variant
	dispatcher Dispatcher
	now        func() time.Time
	log        logger.Logger

	state  State
	draft  DraftRecord
	errors ErrorSet
	last   *SubmissionRecord
}

func NewController(variant Variant, dispatcher Dispatcher) *Controller {
	return &Controller{
		variant:    variant,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        logger.New("form").File("controller"),
		state:      StateEditing,
		errors:     ErrorSet{},
	}
}

func (c *Controller) Variant() Variant {
	return c.variant
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Draft() DraftRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.clone()
}

func (c *Controller) Errors() ErrorSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.clone()
}

func (c *Controller) LastSubmission() (SubmissionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return SubmissionRecord{}, false
	}
	return *c.last, true
}

// Edit sets field to value and clears the error the field reports under.
func (c *Controller) Edit(field Field, value string) error {
	return c.edit(field, func(d *DraftRecord) error {
		return d.setText(field, value)
	})
}

func (c *Controller) ToggleInterest(tag string) error {
	return c.edit(FieldInterests, func(d *DraftRecord) error {
		d.toggleInterest(tag)
		return nil
	})
}

func (c *Controller) SetInterests(tags []string) error {
	return c.edit(FieldInterests, func(d *DraftRecord) error {
		d.setInterests(tags)
		return nil
	})
}

func (c *Controller) SetConsent(consent bool) error {
	return c.edit(FieldPrivacyConsent, func(d *DraftRecord) error {
		d.PrivacyConsent = consent
		return nil
	})
}

// Merge applies every field of posted that differs from the current draft as
// an individual edit. Fields outside the variant are ignored.
func (c *Controller) Merge(posted DraftRecord) error {
	return c.MergeFields(posted, c.variant.Fields())
}

// MergeFields is Merge restricted to fields, for partial updates where an
// absent key must leave the draft untouched.
func (c *Controller) MergeFields(posted DraftRecord, fields []Field) error {
	current := c.Draft()

	for _, field := range fields {
		if !c.variant.Has(field) {
			continue
		}
		switch field {
		case FieldInterests:
			if !sameSet(current.Interests, posted.Interests) {
				if err := c.SetInterests(posted.Interests); err != nil {
					return err
				}
			}
		case FieldPrivacyConsent:
			if current.PrivacyConsent != posted.PrivacyConsent {
				if err := c.SetConsent(posted.PrivacyConsent); err != nil {
					return err
				}
			}
		default:
			if value := posted.Value(field); value != current.Value(field) {
				if err := c.Edit(field, value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Controller) edit(field Field, apply func(*DraftRecord) error) error {
	if !c.variant.Has(field) {
		return ErrUnknownField
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}

	draft := c.draft.clone()
	if err := apply(&draft); err != nil {
		return err
	}
	c.draft = draft
	delete(c.errors, field.errorKey())

	return nil
}

// Submit validates the draft and, when valid, dispatches it and moves to
// StateSubmitted as soon as the dispatch call has been issued.
func (c *Controller) Submit(ctx context.Context) (SubmissionRecord, error) {
	log := c.log.Function("Submit")

	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return SubmissionRecord{}, ErrSubmitInProgress
	case StateSubmitted:
		c.mu.Unlock()
		return SubmissionRecord{}, ErrAlreadySubmitted
	}

	record, err := BuildSubmission(c.variant, c.draft, c.now())
	if err != nil {
		var invalid *ValidationError
		if errors.As(err, &invalid) {
			c.errors = invalid.Errors.clone()
		}
		failing := len(c.errors)
		c.mu.Unlock()
		log.Debug("submission blocked by validation", "fields", failing)
		return SubmissionRecord{}, err
	}

	c.errors = ErrorSet{}
	c.state = StateSubmitting
	c.mu.Unlock()

	// The lock is not held here so a concurrent Submit observes StateSubmitting.
	c.dispatcher.Dispatch(ctx, record)

	c.mu.Lock()
	c.state = StateSubmitted
	c.last = &record
	c.mu.Unlock()

	log.Info("submission accepted", "submissionID", record.ID, "variant", c.variant.Name)
	return record, nil
}

// Dismiss closes the acknowledgment and returns to editing with the draft kept.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateSubmitted:
		c.state = StateEditing
		return nil
	case StateEditing:
		return nil
	default:
		return ErrSubmitInProgress
	}
}

// Snapshot is the serializable state of a Controller.
type Snapshot struct {
	Variant        string            `json:"variant"`
	State          State             `json:"state"`
	Draft          DraftRecord       `json:"draft"`
	Errors         ErrorSet          `json:"errors,omitempty"`
	LastSubmission *SubmissionRecord `json:"lastSubmission,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		Variant: c.variant.Name,
		State:   c.state,
		Draft:   c.draft.clone(),
		Errors:  c.errors.clone(),
	}
	if c.last != nil {
		last := *c.last
		snapshot.LastSubmission = &last
	}
	return snapshot
}

// Restore rebuilds a Controller from snapshot. StateSubmitting only exists
// while Submit runs, so a persisted one is treated as editing.
func Restore(snapshot Snapshot, variant Variant, dispatcher Dispatcher) *Controller {
	c := NewController(variant, dispatcher)
	c.draft = snapshot.Draft.clone()
	if snapshot.Errors != nil {
		c.errors = snapshot.Errors.clone()
	}
	if snapshot.LastSubmission != nil {
		last := *snapshot.LastSubmission
		c.last = &last
	}
	if snapshot.State == StateSubmitted {
		c.state = StateSubmitted
	}
	return c
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, tag := range a {
		seen[tag] = struct{}{}
	}
	for _, tag := range b {
		if _, ok := seen[tag]; !ok {
			return false
		}
	}
	return true
}
