package repository

import (
	"context"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/infra"
	"event-notifier/internal/infra/db"
	"event-notifier/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// Partial unique indexes decide what "equivalent pending job" means per kind.
	enqueueJobSQL = `
INSERT INTO notification_jobs (
    id, kind, recipient, recipient_id, event_id, change_record_id, payload,
    scheduled_for, attempts, max_attempts, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
ON CONFLICT DO NOTHING`

	// A reclaimed running job lost its worker mid-attempt; that attempt counts.
	claimDueJobsSQL = `
UPDATE notification_jobs
SET status = 'running', locked_until = $2, updated_at = $1,
    attempts = CASE WHEN status = 'running' THEN attempts + 1 ELSE attempts END
WHERE id IN (
    SELECT id FROM notification_jobs
    WHERE (status = 'queued' AND scheduled_for <= $1)
       OR (status = 'running' AND locked_until < $1)
    ORDER BY scheduled_for
    FOR UPDATE SKIP LOCKED
    LIMIT $3
)
RETURNING id, kind, recipient, recipient_id, event_id, change_record_id, payload,
          scheduled_for, attempts, max_attempts, status, last_error, created_at`

	saveJobAttemptSQL = `
UPDATE notification_jobs
SET status = $2, attempts = $3, scheduled_for = $4, last_error = $5,
    locked_until = NULL, updated_at = $6
WHERE id = $1`
)

type NotificationJobRepository struct {
	db db.DBTX
}

func NewNotificationJobRepository(db db.DBTX) *NotificationJobRepository {
	return &NotificationJobRepository{db: db}
}

func (r *NotificationJobRepository) Enqueue(ctx context.Context, job *notification.Job) (bool, error) {
	tag, err := r.db.Exec(ctx, enqueueJobSQL,
		job.ID,
		string(job.Kind),
		job.Recipient.Email,
		job.Recipient.UserID,
		job.EventID,
		pgconv.UUIDPtrToPgtype(job.ChangeRecordID),
		job.Payload,
		job.ScheduledFor,
		job.Attempts,
		job.MaxAttempts,
		string(job.Status),
		job.CreatedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *NotificationJobRepository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*notification.Job, error) {
	rows, err := r.db.Query(ctx, claimDueJobsSQL, now, now.Add(lease), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim due notification jobs", err)
	}

	jobs, err := pgx.CollectRows(rows, scanJob)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan claimed notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationJobRepository) SaveAttempt(ctx context.Context, job *notification.Job, now time.Time) error {
	tag, err := r.db.Exec(ctx, saveJobAttemptSQL,
		job.ID,
		string(job.Status),
		job.Attempts,
		job.ScheduledFor,
		pgconv.StringPtrToPgtype(job.LastError),
		now,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save notification job attempt", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("notification job not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func scanJob(row pgx.CollectableRow) (*notification.Job, error) {
	var (
		job         notification.Job
		kind        string
		status      string
		recipientID uuid.UUID
		recordID    pgtype.UUID
		lastError   pgtype.Text
	)
	err := row.Scan(
		&job.ID,
		&kind,
		&job.Recipient.Email,
		&recipientID,
		&job.EventID,
		&recordID,
		&job.Payload,
		&job.ScheduledFor,
		&job.Attempts,
		&job.MaxAttempts,
		&status,
		&lastError,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Kind = notification.Kind(kind)
	job.Status = notification.Status(status)
	job.Recipient.UserID = recipientID
	job.ChangeRecordID = pgconv.UUIDPtrFromPgtype(recordID)
	job.LastError = pgconv.StringPtrFromPgtype(lastError)
	return &job, nil
}
