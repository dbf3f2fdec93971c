//go:build unit

package readstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/infra"
	"event-notifier/internal/infra/readstore"
	"event-notifier/internal/pkg/errs"
	"event-notifier/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDBConnectionLost = errors.New("database connection lost")

func changeRecordRow(id, eventID uuid.UUID, payload []byte, at time.Time) func(string, []any) pgx.Row {
	return func(string, []any) pgx.Row {
		return dbtest.Row{Values: []any{id, eventID, uuid.New(), payload, at}}
	}
}

func TestChangeRecordReadStore_FindByID(t *testing.T) {
	ctx := context.Background()
	id, eventID := uuid.New(), uuid.New()
	at := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)

	t.Run("success: payload decoded", func(t *testing.T) {
		payload := []byte(`{"changes":[{"field":"city","from":"A","to":"B"}],"summary":["city changed from 'A' to 'B'"]}`)
		db := &dbtest.StubDB{QueryRowFunc: changeRecordRow(id, eventID, payload, at)}

		rec, err := readstore.NewChangeRecordReadStore(db).FindByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, id, rec.ID())
		assert.Equal(t, eventID, rec.EventID())
		assert.Equal(t, []string{"city changed from 'A' to 'B'"}, rec.Summary())
		assert.Equal(t, []any{id}, db.Calls[0].Args)
	})

	t.Run("error: malformed payload", func(t *testing.T) {
		db := &dbtest.StubDB{QueryRowFunc: changeRecordRow(id, eventID, []byte(`{"changes":"oops"}`), at)}

		_, err := readstore.NewChangeRecordReadStore(db).FindByID(ctx, id)

		assert.True(t, errs.Is(err, event.ErrInvalidPayload))
	})

	t.Run("error: not found", func(t *testing.T) {
		db := &dbtest.StubDB{QueryRowFunc: func(string, []any) pgx.Row { return dbtest.Row{Err: pgx.ErrNoRows} }}

		_, err := readstore.NewChangeRecordReadStore(db).FindByID(ctx, id)

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("error: database error", func(t *testing.T) {
		db := &dbtest.StubDB{QueryRowFunc: func(string, []any) pgx.Row { return dbtest.Row{Err: errDBConnectionLost} }}

		_, err := readstore.NewChangeRecordReadStore(db).FindByID(ctx, id)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestChangeRecordReadStore_EventExists(t *testing.T) {
	db := &dbtest.StubDB{QueryRowFunc: func(string, []any) pgx.Row { return dbtest.Row{Values: []any{true}} }}

	exists, err := readstore.NewChangeRecordReadStore(db).EventExists(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestChangeRecordReadStore_FindByEventFirstPage_Error(t *testing.T) {
	db := &dbtest.StubDB{QueryErr: errDBConnectionLost}

	_, err := readstore.NewChangeRecordReadStore(db).FindByEventFirstPage(context.Background(), uuid.New(), 21)

	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	assert.Equal(t, int32(21), db.Calls[0].Args[1])
}
