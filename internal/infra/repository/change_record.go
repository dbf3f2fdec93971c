package repository

import (
	"context"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/infra"
	"event-notifier/internal/infra/db"
)

const insertChangeRecordSQL = `
INSERT INTO event_updates (id, event_id, editor_id, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`

type ChangeRecordRepository struct {
	db db.DBTX
}

func NewChangeRecordRepository(db db.DBTX) *ChangeRecordRepository {
	return &ChangeRecordRepository{db: db}
}

func (r *ChangeRecordRepository) Create(ctx context.Context, record *event.ChangeRecord) error {
	payload, err := event.EncodePayload(record.Payload())
	if err != nil {
		return infra.WrapRepoErr("failed to encode change record payload", err, infra.KindDBFailure)
	}

	_, err = r.db.Exec(ctx, insertChangeRecordSQL,
		record.ID(),
		record.EventID(),
		record.EditorID(),
		payload,
		record.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create change record", err)
	}
	return nil
}
