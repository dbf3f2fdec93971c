package notification

import (
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	KindReminder Kind = "reminder"
	KindUpdate   Kind = "update"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	return k == KindReminder || k == KindUpdate
}

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusSkipped || s == StatusFailed
}

// Outcome is the DeliveryOutcome of one dispatch attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTransientFailure
	OutcomePermanentFailure
	// OutcomeSkipped: the event or change record disappeared before fire time.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransientFailure:
		return "transient_failure"
	case OutcomePermanentFailure:
		return "permanent_failure"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Contact is an identity with its (possibly empty) address.
type Contact struct {
	UserID uuid.UUID
	Email  string
}

func (c Contact) HasAddress() bool {
	return strings.TrimSpace(c.Email) != ""
}
