package registrationController

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"jobfair/internal/form"
	"jobfair/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	records []form.SubmissionRecord
}

func (d *recordingDispatcher) Dispatch(_ context.Context, record form.SubmissionRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, record)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}

type failingRepo struct {
	repositories.FormStateRepository
	saveErr error
}

func (r failingRepo) Save(context.Context, string, form.Snapshot) error {
	return r.saveErr
}

func validDraft(variant form.Variant) *form.DraftRecord {
	return &form.DraftRecord{
		FirstName:      "Taro",
		LastName:       "Yamada",
		Furigana:       "やまだ たろう",
		Gender:         "male",
		Faculty:        variant.FacultyOptions[0].Value,
		DesiredYear:    "2027",
		Email:          "taro@example.com",
		EmailConfirm:   "taro@example.com",
		Interests:      []string{variant.InterestOptions[0].Value},
		PrivacyConsent: true,
	}
}

func newController(t *testing.T) (*RegistrationController, *recordingDispatcher) {
	t.Helper()
	dispatcher := &recordingDispatcher{}
	repo := repositories.NewMemoryFormState(time.Hour, time.Now)
	return New(form.Exhibition(), dispatcher, repo), dispatcher
}

func TestRegistrationController_EditPersistsAcrossCalls(t *testing.T) {
	ctx := context.Background()
	rc, _ := newController(t)

	_, err := rc.ApplyEdit(ctx, "s1", form.FieldFirstName, "Taro")
	require.NoError(t, err)

	current, err := rc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Taro", current.Draft.FirstName)
	assert.Equal(t, form.StateEditing, current.State)

	other, err := rc.Current(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Draft.FirstName, "sessions do not share drafts")
}

func TestRegistrationController_EditUnknownField(t *testing.T) {
	rc, _ := newController(t)

	_, err := rc.ApplyEdit(context.Background(), "s1", form.FieldUniversity, "x")
	assert.ErrorIs(t, err, form.ErrUnknownField)
}

func TestRegistrationController_SubmitInvalidStoresErrors(t *testing.T) {
	ctx := context.Background()
	rc, dispatcher := newController(t)

	_, snapshot, err := rc.Submit(ctx, "s1", &form.DraftRecord{FirstName: "Taro"})

	var invalid *form.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, snapshot.Errors.Has(form.FieldEmail))
	assert.Equal(t, 0, dispatcher.count())

	current, err := rc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Taro", current.Draft.FirstName)
	assert.True(t, current.Errors.Has(form.FieldLastName))

	current, err = rc.ApplyEdit(ctx, "s1", form.FieldLastName, "Yamada")
	require.NoError(t, err)
	assert.False(t, current.Errors.Has(form.FieldLastName))
	assert.True(t, current.Errors.Has(form.FieldEmail))
}

func TestRegistrationController_SubmitDismissCycle(t *testing.T) {
	ctx := context.Background()
	rc, dispatcher := newController(t)
	draft := validDraft(rc.Variant())

	record, snapshot, err := rc.Submit(ctx, "s1", draft)
	require.NoError(t, err)
	assert.Equal(t, "Taro Yamada", record.FullName)
	assert.Equal(t, form.StateSubmitted, snapshot.State)
	require.NotNil(t, snapshot.LastSubmission)
	assert.Equal(t, record.ID, snapshot.LastSubmission.ID)
	assert.Equal(t, 1, dispatcher.count())

	_, again, err := rc.Submit(ctx, "s1", draft)
	assert.ErrorIs(t, err, form.ErrAlreadySubmitted)
	assert.Equal(t, form.StateSubmitted, again.State)
	assert.Equal(t, 1, dispatcher.count())

	dismissed, err := rc.Dismiss(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, form.StateEditing, dismissed.State)
	assert.Equal(t, "taro@example.com", dismissed.Draft.Email, "draft is kept after dismiss")

	_, _, err = rc.Submit(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, dispatcher.count())
}

func TestRegistrationController_ConcurrentSubmitsDispatchOnce(t *testing.T) {
	ctx := context.Background()
	rc, dispatcher := newController(t)
	draft := validDraft(rc.Variant())

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := rc.Submit(ctx, "s1", draft)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, form.ErrAlreadySubmitted)
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, dispatcher.count())
}

func TestRegistrationController_DiscardsOtherVariantState(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryFormState(time.Hour, time.Now)
	require.NoError(t, repo.Save(ctx, "s1", form.Snapshot{
		Variant: form.VariantPhD,
		State:   form.StateSubmitted,
		Draft:   form.DraftRecord{University: "x"},
	}))

	rc := New(form.Exhibition(), &recordingDispatcher{}, repo)
	current, err := rc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, form.StateEditing, current.State)
	assert.Empty(t, current.Draft.University)
}

func TestRegistrationController_SaveFailure(t *testing.T) {
	ctx := context.Background()
	saveErr := errors.New("cache unavailable")
	dispatcher := &recordingDispatcher{}
	repo := failingRepo{
		FormStateRepository: repositories.NewMemoryFormState(time.Hour, time.Now),
		saveErr:             saveErr,
	}
	rc := New(form.Exhibition(), dispatcher, repo)

	_, err := rc.ApplyEdit(ctx, "s1", form.FieldFirstName, "Taro")
	assert.ErrorIs(t, err, saveErr)

	record, _, err := rc.Submit(ctx, "s1", validDraft(rc.Variant()))
	require.NoError(t, err, "an accepted submission is not failed by a state save error")
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 1, dispatcher.count())
}

func TestRegistrationController_Reset(t *testing.T) {
	ctx := context.Background()
	rc, _ := newController(t)

	_, err := rc.ApplyEdit(ctx, "s1", form.FieldFirstName, "Taro")
	require.NoError(t, err)
	require.NoError(t, rc.Reset(ctx, "s1"))

	current, err := rc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, current.Draft.FirstName)
}

func TestRegistrationController_ReleasesSessionLocks(t *testing.T) {
	ctx := context.Background()
	rc, _ := newController(t)

	for i := 0; i < 500; i++ {
		sessionID := fmt.Sprintf("visitor-%d", i)
		_, err := rc.Current(ctx, sessionID)
		require.NoError(t, err)
		require.NoError(t, rc.Reset(ctx, sessionID))
	}
	assert.Equal(t, 0, rc.lockCount())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = rc.ApplyEdit(ctx, "shared", form.FieldFirstName, fmt.Sprint(i))
			_, _ = rc.Current(ctx, fmt.Sprintf("own-%d", i))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, rc.lockCount())
}

func TestRegistrationController_SubmitMergesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	rc, dispatcher := newController(t)
	full := validDraft(rc.Variant())

	for _, field := range rc.Variant().Fields() {
		if field == form.FieldEmail {
			continue
		}
		_, err := rc.ApplyEdit(ctx, "s1", field, full.Value(field))
		require.NoError(t, err, field)
	}

	record, snapshot, err := rc.Submit(ctx, "s1",
		&form.DraftRecord{Email: "taro@example.com"},
		form.FieldEmail,
	)
	require.NoError(t, err)
	assert.Equal(t, "Taro Yamada", record.FullName, "fields absent from the submission keep earlier edits")
	assert.Equal(t, "taro@example.com", snapshot.Draft.Email)
	assert.Equal(t, full.Interests, snapshot.Draft.Interests)
	assert.Equal(t, 1, dispatcher.count())
}
