//go:build unit

package commands_test

import (
	"io"
	"log/slog"
	"time"

	"event-notifier/internal/domain/notification"

	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPolicy() notification.Policy {
	p := notification.DefaultPolicy()
	p.RetryBaseDelay = time.Minute
	return p
}

func contact(email string) notification.Contact {
	return notification.Contact{UserID: uuid.New(), Email: email}
}
