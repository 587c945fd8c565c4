package services

import (
	"context"

	"jobfair/internal/logger"
)

// NewLogSink writes every outcome to the structured log. It never logs the
// submitter's email.
func NewLogSink() OutcomeSink {
	log := logger.New("SubmissionDispatcher").Function("outcome")

	return OutcomeSinkFunc(func(_ context.Context, outcome DispatchOutcome) {
		args := []any{
			"submissionID", outcome.SubmissionID,
			"status", outcome.Status,
			"httpStatus", outcome.HTTPStatus,
			"durationMs", outcome.Duration.Milliseconds(),
		}

		switch outcome.Status {
		case DispatchDelivered:
			log.Info("submission delivered", args...)
		case DispatchSkipped:
			log.Warn("submission not delivered, endpoint unconfigured", args...)
		default:
			log.Warn("submission delivery failed", append(args, "error", outcome.Error)...)
		}
	})
}
