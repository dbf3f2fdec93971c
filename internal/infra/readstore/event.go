package readstore

import (
	"context"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/infra"
	"event-notifier/internal/infra/db"
	"event-notifier/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	eventColumns = `id, event_name, start_date, address, city, state, description,
       is_accepted, is_flagged, organizer_id`

	getEventByIDSQL = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	getEventByIDForUpdateSQL = getEventByIDSQL + ` FOR UPDATE`

	getRemindableEventsBetweenSQL = `SELECT ` + eventColumns + `
FROM events
WHERE start_date >= $1 AND start_date < $2
  AND is_accepted AND NOT is_flagged
ORDER BY start_date, id`

	eventExistsSQL = `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`
)

type EventReadStore struct {
	db db.DBTX
}

func NewEventReadStore(db db.DBTX) *EventReadStore {
	return &EventReadStore{db: db}
}

func (s *EventReadStore) FindByID(ctx context.Context, id uuid.UUID) (*event.Snapshot, error) {
	return s.findOne(ctx, getEventByIDSQL, id)
}

// FindByIDForUpdate must run inside a transaction; the row stays locked until it ends.
func (s *EventReadStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*event.Snapshot, error) {
	return s.findOne(ctx, getEventByIDForUpdateSQL, id)
}

// FindRemindableBetween selects accepted, unflagged events starting in [from, to).
func (s *EventReadStore) FindRemindableBetween(ctx context.Context, from, to time.Time) ([]*event.Snapshot, error) {
	rows, err := s.db.Query(ctx, getRemindableEventsBetweenSQL, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select remindable events", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*event.Snapshot, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan remindable events", err)
	}
	return events, nil
}

func (s *EventReadStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, eventExistsSQL, id).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check event existence", err)
	}
	return exists, nil
}

func (s *EventReadStore) findOne(ctx context.Context, query string, id uuid.UUID) (*event.Snapshot, error) {
	snapshot, err := scanEvent(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get event by id", err)
	}
	return snapshot, nil
}

func scanEvent(row pgx.Row) (*event.Snapshot, error) {
	var (
		s           event.Snapshot
		startDate   pgtype.Timestamptz
		organizerID pgtype.UUID
	)
	err := row.Scan(
		&s.ID,
		&s.Name,
		&startDate,
		&s.Address,
		&s.City,
		&s.State,
		&s.Description,
		&s.IsAccepted,
		&s.IsFlagged,
		&organizerID,
	)
	if err != nil {
		return nil, err
	}
	s.StartDate = pgconv.TimePtrFromPgtype(startDate)
	s.OrganizerID = pgconv.UUIDPtrFromPgtype(organizerID)
	return &s, nil
}
