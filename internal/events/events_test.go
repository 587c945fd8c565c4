package events

import (
	"context"
	"testing"

	"jobfair/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_FanOut(t *testing.T) {
	bus := New()
	first, cancelFirst := bus.Subscribe(4)
	second, cancelSecond := bus.Subscribe(4)
	defer cancelFirst()
	defer cancelSecond()

	outcome := services.DispatchOutcome{SubmissionID: "abc", Status: services.DispatchDelivered}
	bus.Record(context.Background(), outcome)

	assert.Equal(t, outcome, <-first)
	assert.Equal(t, outcome, <-second)
}

func TestEventBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := New()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Record(context.Background(), services.DispatchOutcome{SubmissionID: "1"})
	bus.Record(context.Background(), services.DispatchOutcome{SubmissionID: "2"})

	got := <-ch
	assert.Equal(t, "1", got.SubmissionID)
	assert.Empty(t, ch)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New()
	ch, cancel := bus.Subscribe(0)
	require.Equal(t, 1, bus.SubscriberCount())

	cancel()
	cancel()

	assert.Equal(t, 0, bus.SubscriberCount())
	_, open := <-ch
	assert.False(t, open)
}

func TestEventBus_Close(t *testing.T) {
	bus := New()
	ch, cancel := bus.Subscribe(0)

	require.NoError(t, bus.Close())
	_, open := <-ch
	assert.False(t, open)

	cancel()
	late, _ := bus.Subscribe(0)
	_, open = <-late
	assert.False(t, open, "subscriptions after close are already closed")
	assert.NoError(t, bus.Close())
}
