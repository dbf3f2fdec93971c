//go:build unit

package mailer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"event-notifier/internal/infra/mailer"
	"event-notifier/internal/pkg/config"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/dispatch"
	"event-notifier/tests/common/smtptest"

	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransport(t *testing.T, cfg config.SMTPConfig) *mailer.SMTPTransport {
	t.Helper()
	tr, err := mailer.NewSMTPTransport(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return tr
}

var envelope = dispatch.Envelope{
	To:      "alice@example.com",
	Subject: "Tomorrow's Event: Park Cleanup",
	Body:    "Hello,\n\nPark Cleanup is happening tomorrow!\n",
}

func TestSMTPTransport_Deliver(t *testing.T) {
	t.Run("success: message is accepted", func(t *testing.T) {
		srv := smtptest.NewServer()
		tr := newTransport(t, srv.Start(t))

		err := tr.Deliver(context.Background(), envelope)

		require.NoError(t, err)
		msgs := srv.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "noreply@example.com", msgs[0].From)
		assert.Equal(t, "alice@example.com", msgs[0].To)
		assert.Equal(t, envelope.Subject, msgs[0].Subject)
		assert.Contains(t, msgs[0].Body, "Park Cleanup is happening tomorrow!")
	})

	t.Run("error: bad credentials are an authentication failure", func(t *testing.T) {
		srv := smtptest.NewServer().RejectPassword()
		tr := newTransport(t, srv.Start(t))

		err := tr.Deliver(context.Background(), envelope)

		require.Error(t, err)
		assert.True(t, errs.Is(err, dispatch.ErrAuthentication))
		assert.Equal(t, "permanent_failure", dispatch.Classify(err).String())
		assert.Empty(t, srv.Messages())
	})

	t.Run("error: unknown mailbox is an invalid recipient", func(t *testing.T) {
		srv := smtptest.NewServer().
			FailRcpt(&smtp.SMTPError{Code: 550, EnhancedCode: smtp.EnhancedCode{5, 1, 1}, Message: "No such user"})
		tr := newTransport(t, srv.Start(t))

		err := tr.Deliver(context.Background(), envelope)

		require.Error(t, err)
		assert.True(t, errs.Is(err, dispatch.ErrInvalidRecipient))
	})

	t.Run("error: greylisting is transient", func(t *testing.T) {
		srv := smtptest.NewServer().
			FailRcpt(&smtp.SMTPError{Code: 451, EnhancedCode: smtp.EnhancedCode{4, 7, 1}, Message: "Try again later"})
		tr := newTransport(t, srv.Start(t))

		err := tr.Deliver(context.Background(), envelope)

		require.Error(t, err)
		assert.True(t, errs.Is(err, dispatch.ErrTransientDelivery))
		assert.Equal(t, "transient_failure", dispatch.Classify(err).String())
	})

	t.Run("error: unreachable server is transient", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
		require.NoError(t, l.Close())

		tr := newTransport(t, config.SMTPConfig{
			Host:     "127.0.0.1",
			Port:     port,
			Username: smtptest.Username,
			Password: smtptest.Password,
			From:     "noreply@example.com",
			Security: mailer.SecurityNone,
			Timeout:  time.Second,
		})

		err = tr.Deliver(context.Background(), envelope)

		require.Error(t, err)
		assert.True(t, errs.Is(err, dispatch.ErrTransientDelivery))
	})
}

func TestNewSMTPTransport_RejectsBadConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := mailer.NewSMTPTransport(config.SMTPConfig{From: "not an address", Security: mailer.SecurityNone}, logger)
	assert.Error(t, err)

	_, err = mailer.NewSMTPTransport(config.SMTPConfig{From: "noreply@example.com", Security: "ssl3"}, logger)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, dispatch.ErrAuthentication))
}
