package dispatch

import (
	"context"
	"log/slog"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/errs"

	"github.com/emersion/go-message/mail"
)

type EmailDispatcher struct {
	transport Transport
	logger    *slog.Logger
	loc       *time.Location
}

func NewEmailDispatcher(transport Transport, logger *slog.Logger, policy notification.Policy) *EmailDispatcher {
	loc := policy.Location
	if loc == nil {
		loc = time.UTC
	}
	return &EmailDispatcher{transport: transport, logger: logger, loc: loc}
}

func (d *EmailDispatcher) Send(ctx context.Context, msg Message) Result {
	attrs := []any{
		slog.String("kind", msg.Kind.String()),
		slog.String("recipient", msg.Recipient),
	}
	if msg.Event != nil {
		attrs = append(attrs, slog.String("event_id", msg.Event.ID.String()))
	}

	if _, err := mail.ParseAddress(msg.Recipient); err != nil {
		err = errs.Mark(errs.Wrapf(err, "recipient %q", msg.Recipient), ErrInvalidRecipient)
		d.logger.Error("notification rejected: malformed recipient", append(attrs, slog.String("error", err.Error()))...)
		return Result{Outcome: notification.OutcomePermanentFailure, Err: err}
	}

	env, err := Render(msg, d.loc)
	if err != nil {
		d.logger.Error("notification rejected: render failed", append(attrs, slog.String("error", err.Error()))...)
		return Result{Outcome: notification.OutcomePermanentFailure, Err: errs.Mark(err, ErrPermanentDelivery)}
	}

	err = d.transport.Deliver(ctx, env)
	outcome := Classify(err)
	switch outcome {
	case notification.OutcomeSuccess:
		d.logger.Info("notification sent", attrs...)
	case notification.OutcomeTransientFailure:
		d.logger.Warn("notification delivery failed (transient)", append(attrs, slog.String("error", err.Error()))...)
	default:
		d.logger.Error("notification delivery failed (permanent)", append(attrs, slog.String("error", err.Error()))...)
	}
	return Result{Outcome: outcome, Err: err}
}

// Classify maps a transport error to a DeliveryOutcome. Unrecognized errors are
// treated as transient so the retry ceiling bounds them.
func Classify(err error) notification.Outcome {
	switch {
	case err == nil:
		return notification.OutcomeSuccess
	case errs.Is(err, ErrAuthentication),
		errs.Is(err, ErrInvalidRecipient),
		errs.Is(err, ErrPermanentDelivery):
		return notification.OutcomePermanentFailure
	default:
		return notification.OutcomeTransientFailure
	}
}
