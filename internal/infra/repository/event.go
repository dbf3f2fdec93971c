package repository

import (
	"context"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/infra"
	"event-notifier/internal/infra/db"
	"event-notifier/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
)

const updateEventSQL = `
UPDATE events
SET event_name = $2, start_date = $3, address = $4, city = $5, state = $6,
    description = $7, updated_at = $8
WHERE id = $1`

type EventRepository struct {
	db db.DBTX
}

func NewEventRepository(db db.DBTX) *EventRepository {
	return &EventRepository{db: db}
}

// Update writes the notifiable fields only; moderation flags belong to the CRUD layer.
func (r *EventRepository) Update(ctx context.Context, snapshot *event.Snapshot, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, updateEventSQL,
		snapshot.ID,
		snapshot.Name,
		pgconv.TimePtrToPgtype(snapshot.StartDate),
		snapshot.Address,
		snapshot.City,
		snapshot.State,
		snapshot.Description,
		updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update event", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("event not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}
