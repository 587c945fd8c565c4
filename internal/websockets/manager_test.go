package websockets

import (
	"testing"

	"jobfair/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	manager, err := New(events.New())
	require.NoError(t, err)
	assert.Equal(t, events.DEFAULT_SUBSCRIBER_BUFFER, manager.buffer)
}
