package form

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	records []SubmissionRecord
}

func (d *recordingDispatcher) Dispatch(_ context.Context, record SubmissionRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, record)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}

// failingDispatcher issues a call whose network result is a rejection the
// controller never observes.
type failingDispatcher struct {
	calls   atomic.Int32
	results chan error
}

func (d *failingDispatcher) Dispatch(_ context.Context, _ SubmissionRecord) {
	d.calls.Add(1)
	go func() { d.results <- errors.New("connection refused") }()
}

// blockingDispatcher holds the issuing call open until released.
type blockingDispatcher struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (d *blockingDispatcher) Dispatch(_ context.Context, _ SubmissionRecord) {
	d.calls.Add(1)
	d.entered <- struct{}{}
	<-d.release
}

func fillExhibition(t *testing.T, c *Controller) {
	t.Helper()
	draft := validExhibitionDraft()
	require.NoError(t, c.Merge(draft))
}

func TestController_EditClearsOnlyThatError(t *testing.T) {
	c := NewController(Exhibition(), &recordingDispatcher{})

	_, err := c.Submit(context.Background())
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
	require.True(t, c.Errors().Has(FieldFirstName))
	require.True(t, c.Errors().Has(FieldLastName))
	before := len(c.Errors())

	require.NoError(t, c.Edit(FieldFirstName, "Taro"))

	errs := c.Errors()
	assert.False(t, errs.Has(FieldFirstName))
	assert.True(t, errs.Has(FieldLastName))
	assert.Len(t, errs, before-1)
	assert.Equal(t, StateEditing, c.State())
}

func TestController_OtherTextClearsParentError(t *testing.T) {
	c := NewController(Exhibition(), &recordingDispatcher{})
	_, _ = c.Submit(context.Background())
	require.True(t, c.Errors().Has(FieldFaculty))

	require.NoError(t, c.Edit(FieldFacultyOther, "Architecture"))
	assert.False(t, c.Errors().Has(FieldFaculty))
}

func TestController_InterestEdits(t *testing.T) {
	c := NewController(Exhibition(), &recordingDispatcher{})

	require.NoError(t, c.ToggleInterest("A"))
	require.NoError(t, c.ToggleInterest("B"))
	require.NoError(t, c.ToggleInterest("A"))
	assert.Equal(t, []string{"B"}, c.Draft().Interests)

	require.NoError(t, c.SetInterests([]string{"C", "C", " ", "D"}))
	assert.Equal(t, []string{"C", "D"}, c.Draft().Interests)

	require.NoError(t, c.Edit(FieldInterests, "X, Y"))
	assert.Equal(t, []string{"X", "Y"}, c.Draft().Interests)
}

func TestController_RejectsFieldsOutsideVariant(t *testing.T) {
	c := NewController(PhD(), &recordingDispatcher{})

	assert.ErrorIs(t, c.Edit(FieldGender, "female"), ErrUnknownField)
	assert.ErrorIs(t, c.SetConsent(true), ErrUnknownField)
	assert.NoError(t, c.Edit(FieldUniversity, OtherValue))
}

func TestController_InvalidSubmitReplacesErrorSet(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	c := NewController(Exhibition(), dispatcher)
	fillExhibition(t, c)
	require.NoError(t, c.Edit(FieldEmailConfirm, "a@b.com"))

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, ErrorSet{FieldEmailConfirm: MsgEmailMismatch}, c.Errors())
	assert.Equal(t, StateEditing, c.State())
	assert.Zero(t, dispatcher.count())
}

func TestController_SubmitSucceedsWhenDispatchFails(t *testing.T) {
	dispatcher := &failingDispatcher{results: make(chan error, 1)}
	c := NewController(Exhibition(), dispatcher)
	fillExhibition(t, c)

	record, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateSubmitted, c.State())
	assert.Equal(t, "Taro Yamada", record.FullName)
	assert.EqualValues(t, 1, dispatcher.calls.Load())

	select {
	case err := <-dispatcher.results:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatch never ran")
	}
	assert.Equal(t, StateSubmitted, c.State(), "dispatch failure must not reverse the transition")

	last, ok := c.LastSubmission()
	require.True(t, ok)
	assert.Equal(t, record, last)
}

func TestController_SecondSubmitWhileSubmittingIsRejected(t *testing.T) {
	dispatcher := &blockingDispatcher{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewController(Exhibition(), dispatcher)
	fillExhibition(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-dispatcher.entered
	assert.Equal(t, StateSubmitting, c.State())

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.ErrorIs(t, c.Edit(FieldComments, "late"), ErrNotEditing)

	close(dispatcher.release)
	require.NoError(t, <-done)

	assert.EqualValues(t, 1, dispatcher.calls.Load())
	assert.Equal(t, StateSubmitted, c.State())
}

func TestController_SubmittedUntilDismissed(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	c := NewController(Exhibition(), dispatcher)
	fillExhibition(t, c)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, dispatcher.count())

	require.NoError(t, c.Dismiss())
	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, "Taro", c.Draft().FirstName, "dismissal keeps the draft")

	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dispatcher.count())
}

func TestController_SnapshotRestore(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	c := NewController(Exhibition(), dispatcher)
	require.NoError(t, c.Edit(FieldFirstName, "Taro"))
	_, _ = c.Submit(context.Background())

	body, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))

	restored := Restore(snapshot, Exhibition(), dispatcher)
	assert.Equal(t, c.Draft(), restored.Draft())
	assert.Equal(t, c.Errors(), restored.Errors())
	assert.Equal(t, StateEditing, restored.State())

	fillExhibition(t, restored)
	_, err = restored.Submit(context.Background())
	require.NoError(t, err)

	again := Restore(restored.Snapshot(), Exhibition(), dispatcher)
	assert.Equal(t, StateSubmitted, again.State())
	_, ok := again.LastSubmission()
	assert.True(t, ok)
}

func TestController_RestoreDropsTransientSubmitting(t *testing.T) {
	restored := Restore(Snapshot{State: StateSubmitting}, Exhibition(), &recordingDispatcher{})
	assert.Equal(t, StateEditing, restored.State())
}

func TestParseField(t *testing.T) {
	field, err := ParseField("facultyOther")
	require.NoError(t, err)
	assert.Equal(t, FieldFacultyOther, field)

	_, err = ParseField("age")
	assert.ErrorIs(t, err, ErrUnknownField)
}
