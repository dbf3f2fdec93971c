package queries

//go:generate mockgen -source=updates.go -destination=../../../tests/mock/queries/updates.go -package=queriesmock

import (
	"context"
	"log/slog"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/infra"
	"event-notifier/internal/pkg/errs"

	"github.com/google/uuid"
)

// InvalidUpdateFormat is shown in place of a change record that cannot be decoded.
const InvalidUpdateFormat = "Invalid update format"

// ChangeRecordRow is a persisted change record whose payload has not been parsed yet.
type ChangeRecordRow struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	EditorID  uuid.UUID
	Payload   []byte
	CreatedAt time.Time
}

type UpdateView struct {
	ID        uuid.UUID           `json:"id"`
	EventID   uuid.UUID           `json:"event_id"`
	EditorID  uuid.UUID           `json:"editor_id"`
	Changes   []event.FieldChange `json:"changes,omitempty"`
	Summary   []string            `json:"summary,omitempty"`
	Error     string              `json:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

type UpdatesReadStore interface {
	EventExists(ctx context.Context, eventID uuid.UUID) (bool, error)
	FindByEventFirstPage(ctx context.Context, eventID uuid.UUID, limit int32) ([]*ChangeRecordRow, error)
	FindByEventKeyset(ctx context.Context, eventID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*ChangeRecordRow, error)
}

type UpdateQueries interface {
	// ListByEvent returns an event's change records, newest first. A record
	// with a malformed payload is returned with Error set instead of failing
	// the whole page.
	ListByEvent(ctx context.Context, eventID uuid.UUID, cursor *Cursor, limit int) ([]*UpdateView, *Cursor, error)
}

type updateQueriesImpl struct {
	store  UpdatesReadStore
	logger *slog.Logger
}

func NewUpdateQueries(store UpdatesReadStore, logger *slog.Logger) UpdateQueries {
	return &updateQueriesImpl{store: store, logger: logger}
}

func (q *updateQueriesImpl) ListByEvent(ctx context.Context, eventID uuid.UUID, cursor *Cursor, limit int) ([]*UpdateView, *Cursor, error) {
	exists, err := q.store.EventExists(ctx, eventID)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !exists {
		return nil, nil, errs.ErrEventNotFound
	}

	limit = ValidateLimit(limit)
	var rows []*ChangeRecordRow
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByEventFirstPage(ctx, eventID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, derr
		}
		rows, err = q.store.FindByEventKeyset(ctx, eventID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.ErrEventNotFound
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}

	views := make([]*UpdateView, len(rows))
	for i, row := range rows {
		views[i] = q.toView(row)
	}
	return views, next, nil
}

func (q *updateQueriesImpl) toView(row *ChangeRecordRow) *UpdateView {
	view := &UpdateView{
		ID:        row.ID,
		EventID:   row.EventID,
		EditorID:  row.EditorID,
		CreatedAt: row.CreatedAt,
	}

	payload, err := event.DecodePayload(row.Payload)
	if err != nil {
		q.logger.Warn("malformed change record payload",
			"change_record_id", row.ID.String(),
			"event_id", row.EventID.String(),
			"error", err.Error())
		view.Error = InvalidUpdateFormat
		return view
	}

	view.Changes = payload.Changes
	view.Summary = payload.Summary
	return view
}
