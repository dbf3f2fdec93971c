package readstore

import (
	"context"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/infra"
	"event-notifier/internal/infra/db"
	"event-notifier/internal/pkg/pgconv"
	"event-notifier/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	getChangeRecordByIDSQL = `
SELECT id, event_id, editor_id, payload, created_at
FROM event_updates
WHERE id = $1`

	getChangeRecordsFirstPageSQL = `
SELECT id, event_id, editor_id, payload, created_at
FROM event_updates
WHERE event_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

	getChangeRecordsKeysetSQL = `
SELECT id, event_id, editor_id, payload, created_at
FROM event_updates
WHERE event_id = $1 AND (created_at, id) < ($2, $3)
ORDER BY created_at DESC, id DESC
LIMIT $4`
)

type ChangeRecordReadStore struct {
	db     db.DBTX
	events *EventReadStore
}

func NewChangeRecordReadStore(db db.DBTX) *ChangeRecordReadStore {
	return &ChangeRecordReadStore{db: db, events: NewEventReadStore(db)}
}

// FindByID decodes the payload strictly; a malformed payload surfaces as
// event.ErrInvalidPayload rather than a repository error.
func (s *ChangeRecordReadStore) FindByID(ctx context.Context, id uuid.UUID) (*event.ChangeRecord, error) {
	row, err := scanChangeRecordRow(s.db.QueryRow(ctx, getChangeRecordByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("change record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get change record by id", err)
	}
	return event.ReconstructChangeRecord(row.ID, row.EventID, row.EditorID, row.Payload, row.CreatedAt)
}

func (s *ChangeRecordReadStore) EventExists(ctx context.Context, eventID uuid.UUID) (bool, error) {
	return s.events.Exists(ctx, eventID)
}

func (s *ChangeRecordReadStore) FindByEventFirstPage(ctx context.Context, eventID uuid.UUID, limit int32) ([]*queries.ChangeRecordRow, error) {
	rows, err := s.db.Query(ctx, getChangeRecordsFirstPageSQL, eventID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get change records first page", err)
	}
	return collectChangeRecordRows(rows)
}

func (s *ChangeRecordReadStore) FindByEventKeyset(ctx context.Context, eventID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ChangeRecordRow, error) {
	rows, err := s.db.Query(ctx, getChangeRecordsKeysetSQL, eventID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get change records keyset", err)
	}
	return collectChangeRecordRows(rows)
}

func collectChangeRecordRows(rows pgx.Rows) ([]*queries.ChangeRecordRow, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.ChangeRecordRow, error) {
		return scanChangeRecordRow(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan change records", err)
	}
	return out, nil
}

func scanChangeRecordRow(row pgx.Row) (*queries.ChangeRecordRow, error) {
	var r queries.ChangeRecordRow
	if err := row.Scan(&r.ID, &r.EventID, &r.EditorID, &r.Payload, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
