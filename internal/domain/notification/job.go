package notification

import (
	"time"

	"event-notifier/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidJob         = errs.New("invalid notification job")
	ErrJobAlreadyTerminal = errs.New("notification job already terminal")
	ErrLeaseExhausted     = errs.New("lease expired on every attempt")
)

// Job is owned by the queue from enqueue until a terminal status.
type Job struct {
	ID             uuid.UUID
	Kind           Kind
	Recipient      Contact
	EventID        uuid.UUID
	ChangeRecordID *uuid.UUID
	Payload        []byte
	ScheduledFor   time.Time
	Attempts       int
	MaxAttempts    int
	Status         Status
	LastError      *string
	CreatedAt      time.Time
}

func NewReminderJob(recipient Contact, eventID uuid.UUID, fireAt time.Time, maxAttempts int, payload []byte, now time.Time) (*Job, error) {
	return newJob(KindReminder, recipient, eventID, nil, fireAt, maxAttempts, payload, now)
}

// NewUpdateJob references the change record rather than copying it.
func NewUpdateJob(recipient Contact, eventID, changeRecordID uuid.UUID, maxAttempts int, payload []byte, now time.Time) (*Job, error) {
	return newJob(KindUpdate, recipient, eventID, &changeRecordID, now, maxAttempts, payload, now)
}

func newJob(kind Kind, recipient Contact, eventID uuid.UUID, recordID *uuid.UUID, scheduledFor time.Time, maxAttempts int, payload []byte, now time.Time) (*Job, error) {
	if !recipient.HasAddress() {
		return nil, errs.Wrap(ErrInvalidJob, "recipient address is empty")
	}
	if eventID == uuid.Nil {
		return nil, errs.Wrap(ErrInvalidJob, "event id is empty")
	}
	if maxAttempts < 1 {
		return nil, errs.Wrap(ErrInvalidJob, "max attempts must be positive")
	}
	if payload == nil {
		payload = []byte("{}")
	}
	return &Job{
		ID:             uuid.New(),
		Kind:           kind,
		Recipient:      recipient,
		EventID:        eventID,
		ChangeRecordID: recordID,
		Payload:        payload,
		ScheduledFor:   scheduledFor,
		MaxAttempts:    maxAttempts,
		Status:         StatusQueued,
		CreatedAt:      now,
	}, nil
}

// Transition describes what RecordAttempt decided.
type Transition struct {
	Status    Status
	Retry     bool
	RetryAt   time.Time
	Exhausted bool
}

// RecordAttempt counts one dispatch attempt and moves the job to its next state.
// Transient failures are re-queued with exponential backoff until MaxAttempts,
// after which the job is failed and never retried again.
func (j *Job) RecordAttempt(outcome Outcome, cause error, now time.Time, policy Policy) (Transition, error) {
	if j.Status.IsTerminal() {
		return Transition{}, ErrJobAlreadyTerminal
	}

	j.Attempts++
	j.LastError = nil
	if cause != nil {
		msg := cause.Error()
		j.LastError = &msg
	}

	switch outcome {
	case OutcomeSuccess:
		j.Status = StatusSent
	case OutcomeSkipped:
		j.Status = StatusSkipped
	case OutcomeTransientFailure:
		if j.Attempts < j.MaxAttempts {
			j.Status = StatusQueued
			j.ScheduledFor = now.Add(policy.Backoff(j.Attempts))
			return Transition{Status: j.Status, Retry: true, RetryAt: j.ScheduledFor}, nil
		}
		j.Status = StatusFailed
		return Transition{Status: j.Status, Exhausted: true}, nil
	default:
		j.Status = StatusFailed
	}
	return Transition{Status: j.Status}, nil
}

// Reschedule moves a claimed job to a new fire instant. The job starts over
// with a fresh attempt budget.
func (j *Job) Reschedule(at time.Time) error {
	if j.Status.IsTerminal() {
		return ErrJobAlreadyTerminal
	}
	j.Status = StatusQueued
	j.ScheduledFor = at
	j.Attempts = 0
	j.LastError = nil
	return nil
}

// AbandonIfExhausted fails a re-delivered job whose earlier leases expired
// without an outcome until no attempts were left.
func (j *Job) AbandonIfExhausted() bool {
	if j.Status.IsTerminal() || j.Attempts < j.MaxAttempts {
		return false
	}
	msg := ErrLeaseExhausted.Error()
	j.Status = StatusFailed
	j.LastError = &msg
	return true
}
