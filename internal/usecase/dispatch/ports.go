package dispatch

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/dispatch/ports.go -package=dispatchmock

import (
	"context"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/errs"
)

// Transports mark their errors with one of these so the dispatcher can classify them.
var (
	ErrAuthentication    = errs.New("mail transport authentication failed")
	ErrInvalidRecipient  = errs.New("invalid recipient address")
	ErrPermanentDelivery = errs.New("permanent delivery failure")
	ErrTransientDelivery = errs.New("transient delivery failure")
)

// Envelope is one fully rendered email.
type Envelope struct {
	To      string
	Subject string
	Body    string
}

// Transport opens a session, authenticates, transmits and releases the session
// on every exit path.
type Transport interface {
	Deliver(ctx context.Context, env Envelope) error
}

type Message struct {
	Kind      notification.Kind
	Recipient string
	Event     *event.Snapshot
	// Summary lines of the change record; updates only.
	Summary []string
}

type Result struct {
	Outcome notification.Outcome
	Err     error
}

func (r Result) OK() bool {
	return r.Outcome == notification.OutcomeSuccess
}

// Dispatcher reports an outcome and never decides retry timing.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) Result
}
