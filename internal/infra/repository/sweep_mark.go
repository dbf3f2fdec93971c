package repository

import (
	"context"
	"time"

	"event-notifier/internal/infra"
	"event-notifier/internal/infra/db"
	"event-notifier/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	claimSweepMarkSQL = `
INSERT INTO sweep_deliveries (event_id, user_id, sweep_date)
VALUES ($1, $2, $3)
ON CONFLICT (event_id, user_id, sweep_date) DO NOTHING`

	releaseSweepMarkSQL = `
DELETE FROM sweep_deliveries
WHERE event_id = $1 AND user_id = $2 AND sweep_date = $3`
)

type SweepMarkRepository struct {
	db db.DBTX
}

func NewSweepMarkRepository(db db.DBTX) *SweepMarkRepository {
	return &SweepMarkRepository{db: db}
}

func (r *SweepMarkRepository) Claim(ctx context.Context, eventID, userID uuid.UUID, day time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, claimSweepMarkSQL, eventID, userID, pgconv.DateToPgtype(day))
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim sweep delivery", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SweepMarkRepository) Release(ctx context.Context, eventID, userID uuid.UUID, day time.Time) error {
	_, err := r.db.Exec(ctx, releaseSweepMarkSQL, eventID, userID, pgconv.DateToPgtype(day))
	if err != nil {
		return infra.WrapRepoErr("failed to release sweep delivery", err)
	}
	return nil
}
