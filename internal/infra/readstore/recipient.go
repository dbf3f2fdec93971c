package readstore

import (
	"context"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/infra"
	"event-notifier/internal/infra/db"
	"event-notifier/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	getRegistrantsSQL = `
SELECT u.id, u.email
FROM event_registrations r
JOIN users u ON u.id = r.user_id
WHERE r.event_id = $1
ORDER BY r.created_at, u.id`

	getFollowersSQL = `
SELECT u.id, u.email
FROM event_followers f
JOIN users u ON u.id = f.user_id
WHERE f.event_id = $1
ORDER BY f.created_at, u.id`
)

// RecipientReadStore returns contacts with possibly empty addresses;
// filtering is left to notification.ResolveRecipients.
type RecipientReadStore struct {
	db db.DBTX
}

func NewRecipientReadStore(db db.DBTX) *RecipientReadStore {
	return &RecipientReadStore{db: db}
}

func (s *RecipientReadStore) Registrants(ctx context.Context, eventID uuid.UUID) ([]notification.Contact, error) {
	return s.list(ctx, getRegistrantsSQL, eventID, "registrants")
}

func (s *RecipientReadStore) Followers(ctx context.Context, eventID uuid.UUID) ([]notification.Contact, error) {
	return s.list(ctx, getFollowersSQL, eventID, "followers")
}

func (s *RecipientReadStore) list(ctx context.Context, query string, eventID uuid.UUID, what string) ([]notification.Contact, error) {
	rows, err := s.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list "+what, err)
	}
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (notification.Contact, error) {
		var (
			c     notification.Contact
			email pgtype.Text
		)
		if err := row.Scan(&c.UserID, &email); err != nil {
			return notification.Contact{}, err
		}
		c.Email = pgconv.StringFromPgtype(email)
		return c, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan "+what, err)
	}
	return contacts, nil
}
