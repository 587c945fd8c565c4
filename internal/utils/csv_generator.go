package utils

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	. "jobfair/internal/models"
)

var DispatchCSVHeaders = []string{
	"created_at", "submission_id", "status", "http_status", "duration_ms", "error", "email_digest",
}

// WriteDispatchCSV writes outcomes with DispatchCSVHeaders as the first row.
func WriteDispatchCSV(ctx context.Context, w io.Writer, outcomes []*DispatchOutcome) (int, error) {
	writer := bufio.NewWriter(w)
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(DispatchCSVHeaders); err != nil {
		return 0, fmt.Errorf("failed to write headers: %w", err)
	}

	for i, outcome := range outcomes {
		if i%1000 == 0 && ctx.Err() != nil {
			return i, fmt.Errorf("dispatch CSV export cancelled: %w", ctx.Err())
		}

		errorMessage := ""
		if outcome.ErrorMessage != nil {
			errorMessage = *outcome.ErrorMessage
		}

		row := []string{
			outcome.CreatedAt.UTC().Format(time.RFC3339),
			outcome.SubmissionID,
			outcome.Status,
			strconv.Itoa(outcome.HTTPStatus),
			strconv.Itoa(outcome.DurationMs),
			errorMessage,
			outcome.EmailDigest,
		}
		if err := csvWriter.Write(row); err != nil {
			return i, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return len(outcomes), fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return len(outcomes), fmt.Errorf("failed to flush CSV: %w", err)
	}

	return len(outcomes), nil
}
