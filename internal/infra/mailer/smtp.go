package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"event-notifier/internal/pkg/config"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/dispatch"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

const (
	SecurityStartTLS = "starttls"
	SecurityTLS      = "tls"
	SecurityNone     = "none"
)

var errUnknownSecurity = errs.New("unknown smtp security mode")

// SMTPTransport opens one SMTP session per envelope.
type SMTPTransport struct {
	cfg    config.SMTPConfig
	from   *mail.Address
	logger *slog.Logger
	now    func() time.Time
}

func NewSMTPTransport(cfg config.SMTPConfig, logger *slog.Logger) (*SMTPTransport, error) {
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, errs.Wrapf(err, "invalid SMTP_FROM %q", cfg.From)
	}
	switch cfg.Security {
	case SecurityStartTLS, SecurityTLS, SecurityNone:
	default:
		return nil, errs.Wrapf(errUnknownSecurity, "%q", cfg.Security)
	}
	return &SMTPTransport{cfg: cfg, from: from, logger: logger, now: time.Now}, nil
}

func (t *SMTPTransport) Deliver(ctx context.Context, env dispatch.Envelope) (err error) {
	msg, err := t.compose(env)
	if err != nil {
		return errs.Mark(err, dispatch.ErrPermanentDelivery)
	}

	c, err := t.dial(ctx)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "smtp connect"), dispatch.ErrTransientDelivery)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			t.logger.Debug("smtp close failed", "error", cerr.Error())
		}
	}()

	if t.cfg.Username != "" {
		auth := sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)
		if aerr := c.Auth(auth); aerr != nil {
			if isTemporary(aerr) {
				return errs.Mark(errs.Wrap(aerr, "smtp auth"), dispatch.ErrTransientDelivery)
			}
			return errs.Mark(errs.Wrap(aerr, "smtp auth"), dispatch.ErrAuthentication)
		}
	}

	if merr := c.Mail(t.from.Address, nil); merr != nil {
		return classifyReply(merr, "smtp mail from", dispatch.ErrPermanentDelivery)
	}
	if rerr := c.Rcpt(env.To, nil); rerr != nil {
		return classifyReply(rerr, "smtp rcpt to", dispatch.ErrInvalidRecipient)
	}

	w, err := c.Data()
	if err != nil {
		return classifyReply(err, "smtp data", dispatch.ErrPermanentDelivery)
	}
	if _, werr := io.Copy(w, bytes.NewReader(msg)); werr != nil {
		_ = w.Close()
		return errs.Mark(errs.Wrap(werr, "smtp write body"), dispatch.ErrTransientDelivery)
	}
	if cerr := w.Close(); cerr != nil {
		return classifyReply(cerr, "smtp end data", dispatch.ErrPermanentDelivery)
	}

	if qerr := c.Quit(); qerr != nil {
		// The message was accepted; a failed QUIT does not undo that.
		t.logger.Debug("smtp quit failed", "error", qerr.Error())
	}
	return nil
}

func (t *SMTPTransport) dial(ctx context.Context) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: t.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.cfg.Address())
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(t.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if t.cfg.Timeout > 0 {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}

	tlsConfig := &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}

	switch t.cfg.Security {
	case SecurityTLS:
		return smtp.NewClient(tls.Client(conn, tlsConfig)), nil
	case SecurityStartTLS:
		c, err := smtp.NewClientStartTLS(conn, tlsConfig)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return c, nil
	default:
		return smtp.NewClient(conn), nil
	}
}

func (t *SMTPTransport) compose(env dispatch.Envelope) ([]byte, error) {
	to, err := mail.ParseAddress(env.To)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "recipient %q", env.To), dispatch.ErrInvalidRecipient)
	}

	var h mail.Header
	h.SetDate(t.now())
	h.SetAddressList("From", []*mail.Address{t.from})
	h.SetAddressList("To", []*mail.Address{to})
	h.SetSubject(env.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, errs.Wrap(err, "generate message id")
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, errs.Wrap(err, "create message writer")
	}
	if _, err := io.WriteString(w, env.Body); err != nil {
		return nil, errs.Wrap(err, "write message body")
	}
	if err := w.Close(); err != nil {
		return nil, errs.Wrap(err, "close message writer")
	}
	return buf.Bytes(), nil
}

// classifyReply marks a 4xx reply or a broken connection transient and any
// other 5xx reply with permanent.
func classifyReply(err error, op string, permanent error) error {
	wrapped := errs.Wrap(err, op)
	var smtpErr *smtp.SMTPError
	if !errors.As(err, &smtpErr) {
		return errs.Mark(wrapped, dispatch.ErrTransientDelivery)
	}
	if smtpErr.Temporary() {
		return errs.Mark(wrapped, dispatch.ErrTransientDelivery)
	}
	if permanent == dispatch.ErrInvalidRecipient && !isMailboxReply(smtpErr.Code) {
		permanent = dispatch.ErrPermanentDelivery
	}
	return errs.Mark(wrapped, permanent)
}

func isMailboxReply(code int) bool {
	switch code {
	case 501, 550, 551, 553:
		return true
	default:
		return false
	}
}

func isTemporary(err error) bool {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return smtpErr.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
