package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"event-notifier/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxListLimit     = 200
	DefaultListLimit = 20
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.New("invalid cursor")

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	data := CursorVersionV1 + ":" + strconv.FormatInt(t.UnixMicro(), 10) + "-" + id.String()
	return base64.URLEncoding.EncodeToString([]byte(data))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "cursor cannot be empty")
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(err, ErrInvalidCursor)
	}

	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "unsupported cursor version")
	}

	micros, rawID, ok := strings.Cut(payload, "-")
	if !ok {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "expected '<micros>-<uuid>'")
	}

	timestamp, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "invalid timestamp"), ErrInvalidCursor)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "invalid uuid"), ErrInvalidCursor)
	}

	return time.UnixMicro(timestamp), id, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
