package repositories

import (
	"context"
	"testing"
	"time"

	"jobfair/internal/database"
	"jobfair/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func TestNewFormState_FallsBackToMemory(t *testing.T) {
	repo := NewFormState(database.DB{}, 0)
	_, ok := repo.(*memoryFormStateRepository)
	assert.True(t, ok)
}

func TestMemoryFormState_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	repo := NewMemoryFormState(time.Hour, clock.Now)

	_, found, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, found)

	snapshot := form.Snapshot{
		Variant: form.VariantExhibition,
		State:   form.StateEditing,
		Draft:   form.DraftRecord{FirstName: "Taro", Interests: []string{"A"}},
		Errors:  form.ErrorSet{form.FieldEmail: form.MsgEmailRequired},
	}
	require.NoError(t, repo.Save(ctx, "session-1", snapshot))

	snapshot.Draft.Interests[0] = "mutated"

	got, found, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Taro", got.Draft.FirstName)
	assert.Equal(t, []string{"A"}, got.Draft.Interests, "stored copy is independent of the caller")
	assert.Equal(t, form.MsgEmailRequired, got.Errors[form.FieldEmail])

	require.NoError(t, repo.Delete(ctx, "session-1"))
	_, found, err = repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryFormState_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	repo := NewMemoryFormState(time.Hour, clock.Now)

	require.NoError(t, repo.Save(ctx, "session-1", form.Snapshot{State: form.StateEditing}))

	clock.now = clock.now.Add(59 * time.Minute)
	_, found, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, found)

	clock.now = clock.now.Add(time.Minute)
	_, found, err = repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, found)
}
