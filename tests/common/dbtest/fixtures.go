//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"event-notifier/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a user; an empty email stores NULL.
func CreateTestUser(t *testing.T, db DBLike, email string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	var addr any
	if email != "" {
		addr = email
	}
	_, err := db.Exec(context.Background(), "INSERT INTO users (id, email) VALUES ($1, $2)", userID, addr)
	require.NoError(t, err)
	return userID
}

func CreateTestEvent(t *testing.T, db DBLike, b *builder.EventBuilder) uuid.UUID {
	t.Helper()

	e := b.BuildDomain()
	_, err := db.Exec(context.Background(), `
		INSERT INTO events (id, event_name, start_date, address, city, state, description, is_accepted, is_flagged, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Name, e.StartDate, e.Address, e.City, e.State, e.Description, e.IsAccepted, e.IsFlagged, e.OrganizerID)
	require.NoError(t, err)
	return e.ID
}

func RegisterUser(t *testing.T, db DBLike, eventID, userID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO event_registrations (event_id, user_id) VALUES ($1, $2)", eventID, userID)
	require.NoError(t, err)
}

func FollowEvent(t *testing.T, db DBLike, eventID, userID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO event_followers (event_id, user_id) VALUES ($1, $2)", eventID, userID)
	require.NoError(t, err)
}

// InsertRawChangeRecord stores a payload verbatim, bypassing domain validation.
func InsertRawChangeRecord(t *testing.T, db DBLike, eventID, editorID uuid.UUID, payload string, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO event_updates (id, event_id, editor_id, payload, created_at) VALUES ($1, $2, $3, $4, $5)",
		id, eventID, editorID, payload, createdAt)
	require.NoError(t, err)
	return id
}

func CountJobs(t *testing.T, db DBLike, eventID uuid.UUID, kind string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE event_id = $1 AND kind = $2", eventID, kind).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
