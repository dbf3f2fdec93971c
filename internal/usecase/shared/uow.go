package shared

import (
	"context"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"

	"github.com/google/uuid"
)

// UnitOfWork scopes one database session to one piece of work. Nothing obtained
// from a Tx may be used after the callback returns.
type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Events() EventRepository
	ChangeRecords() ChangeRecordRepository
	Jobs() NotificationJobRepository
	SweepMarks() SweepMarkRepository
	Reads() CommandReads
}

type CommandReads interface {
	EventByID(ctx context.Context, id uuid.UUID) (*event.Snapshot, error)
	// EventByIDForUpdate locks the row until the transaction ends.
	EventByIDForUpdate(ctx context.Context, id uuid.UUID) (*event.Snapshot, error)
	RemindableEventsBetween(ctx context.Context, from, to time.Time) ([]*event.Snapshot, error)
	Registrants(ctx context.Context, eventID uuid.UUID) ([]notification.Contact, error)
	Followers(ctx context.Context, eventID uuid.UUID) ([]notification.Contact, error)
	ChangeRecordByID(ctx context.Context, id uuid.UUID) (*event.ChangeRecord, error)
}

type EventRepository interface {
	Update(ctx context.Context, snapshot *event.Snapshot, updatedAt time.Time) error
}

type ChangeRecordRepository interface {
	Create(ctx context.Context, record *event.ChangeRecord) error
}

type NotificationJobRepository interface {
	// Enqueue returns false when an equivalent pending job already exists.
	Enqueue(ctx context.Context, job *notification.Job) (bool, error)
	// ClaimDue leases up to limit due jobs, including running jobs whose lease expired.
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*notification.Job, error)
	SaveAttempt(ctx context.Context, job *notification.Job, now time.Time) error
}

type SweepMarkRepository interface {
	// Claim returns false when the pair was already claimed for that day.
	Claim(ctx context.Context, eventID, userID uuid.UUID, day time.Time) (bool, error)
	Release(ctx context.Context, eventID, userID uuid.UUID, day time.Time) error
}
