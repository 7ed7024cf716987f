package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/upstream"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

const (
	detailsMaxAttempts  = 20
	detailsPollInterval = 500 * time.Millisecond
)

// DetailsAPI is the slice of the upstream client the poller needs.
type DetailsAPI interface {
	CreateDetailsRequest(ctx context.Context, tripID string) (string, error)
	GetDetailsRequest(ctx context.Context, tripID, requestID string) (upstream.DetailsJobStatus, error)
}

// DetailsService turns the carrier's create-then-poll seat-map computation
// into a single bounded call: at most MaxAttempts polls, PollInterval
// apart, so worst-case latency stays around ten seconds.
type DetailsService struct {
	API DetailsAPI

	// Overridable in tests. Zero values fall back to the defaults.
	MaxAttempts  int
	PollInterval time.Duration
	Sleep        func(ctx context.Context, d time.Duration) error
}

func (s DetailsService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return detailsMaxAttempts
}

func (s DetailsService) pollInterval() time.Duration {
	if s.PollInterval > 0 {
		return s.PollInterval
	}
	return detailsPollInterval
}

func (s DetailsService) sleep(ctx context.Context, d time.Duration) error {
	if s.Sleep != nil {
		return s.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type pollOutcome int

const (
	pollContinue pollOutcome = iota
	pollDone
	pollFailed
)

// nextPollState is the pure transition of the polling state machine. A
// poll error is inconclusive and continues the loop; a terminal job state
// ends it. Attempt bookkeeping happens here so the loop stays trivial.
func nextPollState(job models.DetailsJob, status upstream.DetailsJobStatus, pollErr error) (models.DetailsJob, pollOutcome) {
	job.Attempt++
	if pollErr != nil {
		job.State = models.DetailsJobPending
		return job, pollContinue
	}

	switch models.DetailsJobState(status.State) {
	case models.DetailsJobFinished:
		job.State = models.DetailsJobFinished
		job.Payload = status.Payload
		if payloadError(status.Payload) != "" {
			job.State = models.DetailsJobError
			return job, pollFailed
		}
		return job, pollDone
	case models.DetailsJobError:
		job.State = models.DetailsJobError
		return job, pollFailed
	default:
		if status.Error != "" {
			job.State = models.DetailsJobError
			return job, pollFailed
		}
		job.State = models.DetailsJobPending
		return job, pollContinue
	}
}

// payloadError extracts an error code a finished payload may carry.
func payloadError(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.Error
}

// FetchDetails creates the remote computation for tripID and polls it to
// completion. Job creation failures fail fast; transient poll failures are
// tolerated; exhausting the attempt budget or the caller's deadline is a
// TimeoutError.
func (s DetailsService) FetchDetails(ctx context.Context, tripID string) (json.RawMessage, error) {
	tripID = utils.TrimOrEmpty(tripID)
	if tripID == "" {
		return nil, domain.ValidationError{Field: "trip_id", Msg: "es obligatorio"}
	}

	requestID, err := s.API.CreateDetailsRequest(ctx, tripID)
	if err != nil {
		if domain.IsUpstream(err) {
			return nil, err
		}
		return nil, domain.UpstreamError{Op: "create details request", Err: err}
	}

	job := models.DetailsJob{RequestID: requestID, TripID: tripID, State: models.DetailsJobPending}
	for job.Attempt < s.maxAttempts() {
		status, pollErr := s.API.GetDetailsRequest(ctx, tripID, requestID)
		if pollErr != nil && ctx.Err() != nil {
			return nil, domain.TimeoutError{Op: "trip details"}
		}

		var outcome pollOutcome
		job, outcome = nextPollState(job, status, pollErr)
		switch outcome {
		case pollDone:
			return job.Payload, nil
		case pollFailed:
			return nil, domain.UpstreamError{Op: "trip details", Err: errJobFailed(status)}
		}

		if job.Attempt < s.maxAttempts() {
			if err := s.sleep(ctx, s.pollInterval()); err != nil {
				// Caller-imposed deadline aborting the loop counts
				// as a timeout, same as exhausting the budget.
				return nil, domain.TimeoutError{Op: "trip details"}
			}
		}
	}

	return nil, domain.TimeoutError{Op: "trip details"}
}

type jobFailedError struct {
	state   string
	message string
}

func (e jobFailedError) Error() string {
	if e.message != "" {
		return "job state " + e.state + ": " + e.message
	}
	return "job state " + e.state
}

func errJobFailed(status upstream.DetailsJobStatus) error {
	msg := status.Error
	if msg == "" {
		msg = payloadError(status.Payload)
	}
	return jobFailedError{state: status.State, message: msg}
}
