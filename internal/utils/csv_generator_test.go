package utils

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	. "jobfair/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDispatchCSV(t *testing.T) {
	message := `bad "payload", retry later`
	created := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	outcomes := []*DispatchOutcome{
		{BaseUUIDModel: BaseUUIDModel{CreatedAt: created}, SubmissionID: "sub-1", Status: "delivered", HTTPStatus: 200, DurationMs: 120},
		{BaseUUIDModel: BaseUUIDModel{CreatedAt: created}, SubmissionID: "sub-2", Status: "rejected", HTTPStatus: 200, ErrorMessage: &message},
	}

	var buf bytes.Buffer
	written, err := WriteDispatchCSV(context.Background(), &buf, outcomes)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, DispatchCSVHeaders, rows[0])
	assert.Equal(t, []string{"2026-10-17T09:30:00Z", "sub-1", "delivered", "200", "120", "", ""}, rows[1])
	assert.Equal(t, message, rows[2][5])
}

func TestWriteDispatchCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WriteDispatchCSV(ctx, &bytes.Buffer{}, []*DispatchOutcome{{SubmissionID: "sub-1"}})
	assert.ErrorIs(t, err, context.Canceled)
}
