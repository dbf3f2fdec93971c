package commands

//go:generate mockgen -source=sweep.go -destination=../../../tests/mock/commands/sweep.go -package=commandsmock

import (
	"context"
	"log/slog"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/dispatch"
	"event-notifier/internal/usecase/shared"
)

type SweepResult struct {
	Window          notification.Window
	EventsProcessed int
	Sent            int
	Failed          int
	// Skipped counts recipients already reminded by an earlier run for the same day.
	Skipped int
}

type SweepCommands interface {
	RunDailySweep(ctx context.Context) (*SweepResult, error)
}

type sweepUseCaseImpl struct {
	uow        shared.UnitOfWork
	dispatcher dispatch.Dispatcher
	clock      clock.Clock
	policy     notification.Policy
	logger     *slog.Logger
}

func NewSweepCommands(
	uow shared.UnitOfWork,
	dispatcher dispatch.Dispatcher,
	clk clock.Clock,
	policy notification.Policy,
	logger *slog.Logger,
) SweepCommands {
	return &sweepUseCaseImpl{
		uow:        uow,
		dispatcher: dispatcher,
		clock:      clk,
		policy:     policy,
		logger:     logger,
	}
}

// RunDailySweep reminds every registrant and follower of tomorrow's events.
// Only a failing event selection fails the sweep as a whole.
func (uc *sweepUseCaseImpl) RunDailySweep(ctx context.Context) (*SweepResult, error) {
	window := uc.policy.TomorrowWindow(uc.clock.Now())
	result := &SweepResult{Window: window}

	var events []*event.Snapshot
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, rerr := tx.Reads().RemindableEventsBetween(ctx, window.Start, window.End)
		events = found
		return rerr
	})
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "select tomorrow's events"), errs.ErrDatabaseOperationFailed)
	}

	uc.logger.Info("daily sweep started",
		"window_start", window.Start,
		"window_end", window.End,
		"events", len(events))

	for _, ev := range events {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		uc.remindEvent(ctx, ev, window, result)
		result.EventsProcessed++
	}

	uc.logger.Info("daily sweep finished",
		"events", result.EventsProcessed,
		"sent", result.Sent,
		"failed", result.Failed,
		"skipped", result.Skipped)

	return result, nil
}

func (uc *sweepUseCaseImpl) remindEvent(ctx context.Context, ev *event.Snapshot, window notification.Window, result *SweepResult) {
	var registrants, followers []notification.Contact
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var rerr error
		if registrants, rerr = tx.Reads().Registrants(ctx, ev.ID); rerr != nil {
			return rerr
		}
		followers, rerr = tx.Reads().Followers(ctx, ev.ID)
		return rerr
	})
	if err != nil {
		uc.logger.Error("sweep: failed to load recipients",
			"event_id", ev.ID.String(),
			"error", err.Error())
		return
	}

	recipients := notification.ResolveRecipients(registrants, followers, nil)
	for _, id := range recipients.Dropped() {
		uc.logger.Warn("recipient has no contact address, skipping",
			"event_id", ev.ID.String(),
			"user_id", id.String())
	}

	for _, contact := range recipients.Contacts() {
		uc.remindContact(ctx, ev, contact, window, result)
	}
}

func (uc *sweepUseCaseImpl) remindContact(
	ctx context.Context,
	ev *event.Snapshot,
	contact notification.Contact,
	window notification.Window,
	result *SweepResult,
) {
	claimed, err := uc.claim(ctx, ev, contact, window)
	if err != nil {
		result.Failed++
		uc.logger.Error("sweep: failed to claim delivery",
			"event_id", ev.ID.String(),
			"recipient", contact.Email,
			"error", err.Error())
		return
	}
	if !claimed {
		result.Skipped++
		return
	}

	sent := uc.dispatcher.Send(ctx, dispatch.Message{
		Kind:      notification.KindReminder,
		Recipient: contact.Email,
		Event:     ev,
	})
	if sent.OK() {
		result.Sent++
		return
	}

	result.Failed++
	// Let a later run retry this recipient.
	if rerr := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.SweepMarks().Release(ctx, ev.ID, contact.UserID, window.Start)
	}); rerr != nil {
		uc.logger.Warn("sweep: failed to release delivery mark",
			"event_id", ev.ID.String(),
			"recipient", contact.Email,
			"error", rerr.Error())
	}
}

func (uc *sweepUseCaseImpl) claim(ctx context.Context, ev *event.Snapshot, contact notification.Contact, window notification.Window) (bool, error) {
	var claimed bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, cerr := tx.SweepMarks().Claim(ctx, ev.ID, contact.UserID, window.Start)
		claimed = ok
		return cerr
	})
	return claimed, err
}
