package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"jobfair/internal/form"
	"jobfair/internal/logger"
)

// UNCONFIGURED_ENDPOINT is the placeholder shipped in sample configuration.
const (
	UNCONFIGURED_ENDPOINT    = "YOUR_GOOGLE_SCRIPT_URL_HERE"
	DEFAULT_DISPATCH_TIMEOUT = 15 * time.Second
	MAX_RESPONSE_BYTES       = 1 << 20
)

type DispatchStatus string

const (
	DispatchDelivered DispatchStatus = "delivered"
	DispatchRejected  DispatchStatus = "rejected"
	DispatchFailed    DispatchStatus = "failed"
	DispatchSkipped   DispatchStatus = "skipped"
)

// DispatchOutcome is what one dispatch attempt observed. It only ever reaches
// outcome sinks, never the form controller.
type DispatchOutcome struct {
	SubmissionID string         `json:"submissionId"`
	Email        string         `json:"-"`
	Status       DispatchStatus `json:"status"`
	HTTPStatus   int            `json:"httpStatus,omitempty"`
	Error        string         `json:"error,omitempty"`
	StartedAt    time.Time      `json:"startedAt"`
	Duration     time.Duration  `json:"duration"`
}

type OutcomeSink interface {
	Record(ctx context.Context, outcome DispatchOutcome)
}

type OutcomeSinkFunc func(ctx context.Context, outcome DispatchOutcome)

func (f OutcomeSinkFunc) Record(ctx context.Context, outcome DispatchOutcome) {
	f(ctx, outcome)
}

type DispatcherConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// SubmissionDispatcher posts Submission Records to the collaborator endpoint
// at most once each, in a goroutine detached from the caller.
type SubmissionDispatcher struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	sinks    []OutcomeSink
	inflight sync.WaitGroup
	now      func() time.Time
	log      logger.Logger
}

var _ form.Dispatcher = (*SubmissionDispatcher)(nil)

func NewSubmissionDispatcher(cfg DispatcherConfig, client *http.Client, sinks ...OutcomeSink) *SubmissionDispatcher {
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DEFAULT_DISPATCH_TIMEOUT
	}

	return &SubmissionDispatcher{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		timeout:  timeout,
		client:   client,
		sinks:    sinks,
		now:      time.Now,
		log:      logger.New("SubmissionDispatcher"),
	}
}

// AddSink registers another outcome consumer. It must be called before the
// first dispatch.
func (d *SubmissionDispatcher) AddSink(sink OutcomeSink) {
	d.sinks = append(d.sinks, sink)
}

func (d *SubmissionDispatcher) Configured() bool {
	return d.endpoint != "" && d.endpoint != UNCONFIGURED_ENDPOINT
}

// PendingDispatch is the handle of one detached dispatch.
type PendingDispatch struct {
	done chan DispatchOutcome
}

// Done yields the outcome once, then is closed.
func (p *PendingDispatch) Done() <-chan DispatchOutcome {
	return p.done
}

// Dispatch is the fire-and-forget form used by the form controller.
func (d *SubmissionDispatcher) Dispatch(ctx context.Context, record form.SubmissionRecord) {
	d.Start(ctx, record)
}

// Start issues the dispatch and returns immediately. Cancelling ctx does not
// abort the request; only the configured timeout bounds it.
func (d *SubmissionDispatcher) Start(ctx context.Context, record form.SubmissionRecord) *PendingDispatch {
	pending := &PendingDispatch{done: make(chan DispatchOutcome, 1)}
	detached := context.WithoutCancel(ctx)

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer close(pending.done)

		outcome := d.send(detached, record)
		for _, sink := range d.sinks {
			sink.Record(detached, outcome)
		}
		pending.done <- outcome
	}()

	return pending
}

// Wait blocks until every in-flight dispatch has finished or ctx ends.
func (d *SubmissionDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type collaboratorReply struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (d *SubmissionDispatcher) send(ctx context.Context, record form.SubmissionRecord) DispatchOutcome {
	log := d.log.Function("send")
	started := d.now()

	outcome := DispatchOutcome{
		SubmissionID: record.ID,
		Email:        record.Email,
		StartedAt:    started,
	}
	finish := func(status DispatchStatus, httpStatus int, errMsg string) DispatchOutcome {
		outcome.Status = status
		outcome.HTTPStatus = httpStatus
		outcome.Error = errMsg
		outcome.Duration = d.now().Sub(started)
		return outcome
	}

	if !d.Configured() {
		log.Warn("submission endpoint not configured, skipping dispatch", "submissionID", record.ID)
		return finish(DispatchSkipped, 0, "")
	}

	body, err := json.Marshal(record)
	if err != nil {
		return finish(DispatchFailed, 0, fmt.Sprintf("failed to encode submission: %v", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return finish(DispatchFailed, 0, fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return finish(DispatchFailed, 0, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MAX_RESPONSE_BYTES))
	if err != nil {
		return finish(DispatchFailed, resp.StatusCode, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return finish(DispatchFailed, resp.StatusCode, "unexpected status "+resp.Status)
	}

	var reply collaboratorReply
	if err := json.Unmarshal(data, &reply); err != nil {
		// The script may answer with HTML after a redirect; a 2xx is enough.
		return finish(DispatchDelivered, resp.StatusCode, "")
	}

	if reply.Success != nil && !*reply.Success {
		errMsg := reply.Error
		if errMsg == "" {
			errMsg = "collaborator reported failure"
		}
		return finish(DispatchRejected, resp.StatusCode, errMsg)
	}

	return finish(DispatchDelivered, resp.StatusCode, "")
}
