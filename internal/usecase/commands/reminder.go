package commands

//go:generate mockgen -source=reminder.go -destination=../../../tests/mock/commands/reminder.go -package=commandsmock

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/infra"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/dispatch"
	"event-notifier/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRecipientAddressRequired = errs.New("recipient address required")
	ErrEventNotScheduled        = errs.New("event has no start date")
)

type ReminderMode string

const (
	ReminderScheduled        ReminderMode = "scheduled"
	ReminderAlreadyScheduled ReminderMode = "already_scheduled"
	// ReminderSentImmediately: the fire instant had already elapsed.
	ReminderSentImmediately ReminderMode = "sent_immediately"
)

type ScheduleReminderResult struct {
	Mode    ReminderMode
	FireAt  time.Time
	JobID   *uuid.UUID
	Outcome *notification.Outcome
}

type ReminderCommands interface {
	ScheduleReminder(ctx context.Context, recipient notification.Contact, eventID uuid.UUID) (*ScheduleReminderResult, error)
}

type reminderUseCaseImpl struct {
	uow        shared.UnitOfWork
	dispatcher dispatch.Dispatcher
	clock      clock.Clock
	policy     notification.Policy
	logger     *slog.Logger
}

func NewReminderCommands(
	uow shared.UnitOfWork,
	dispatcher dispatch.Dispatcher,
	clk clock.Clock,
	policy notification.Policy,
	logger *slog.Logger,
) ReminderCommands {
	return &reminderUseCaseImpl{
		uow:        uow,
		dispatcher: dispatcher,
		clock:      clk,
		policy:     policy,
		logger:     logger,
	}
}

func (uc *reminderUseCaseImpl) ScheduleReminder(
	ctx context.Context,
	recipient notification.Contact,
	eventID uuid.UUID,
) (*ScheduleReminderResult, error) {
	if !recipient.HasAddress() {
		return nil, errs.Mark(ErrRecipientAddressRequired, errs.ErrDomainValidation)
	}

	snapshot, err := uc.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if snapshot.StartDate == nil {
		return nil, errs.Mark(ErrEventNotScheduled, errs.ErrDomainValidation)
	}

	fireAt := uc.policy.ReminderFireInstant(*snapshot.StartDate)
	now := uc.clock.Now()

	if fireAt.After(now) {
		return uc.enqueue(ctx, recipient, snapshot, fireAt, now)
	}

	result := uc.dispatcher.Send(ctx, dispatch.Message{
		Kind:      notification.KindReminder,
		Recipient: recipient.Email,
		Event:     snapshot,
	})
	uc.logger.Info("reminder time already elapsed, sent immediately",
		"event_id", eventID.String(),
		"recipient", recipient.Email,
		"fire_at", fireAt,
		"outcome", result.Outcome.String())

	outcome := result.Outcome
	return &ScheduleReminderResult{
		Mode:    ReminderSentImmediately,
		FireAt:  fireAt,
		Outcome: &outcome,
	}, nil
}

func (uc *reminderUseCaseImpl) loadEvent(ctx context.Context, eventID uuid.UUID) (*event.Snapshot, error) {
	var snapshot *event.Snapshot
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, rerr := tx.Reads().EventByID(ctx, eventID)
		if rerr != nil {
			return rerr
		}
		snapshot = s
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrEventNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return snapshot, nil
}

func (uc *reminderUseCaseImpl) enqueue(
	ctx context.Context,
	recipient notification.Contact,
	snapshot *event.Snapshot,
	fireAt, now time.Time,
) (*ScheduleReminderResult, error) {
	payload, err := json.Marshal(map[string]any{
		"event_name": snapshot.Name,
		"fire_at":    fireAt,
	})
	if err != nil {
		return nil, err
	}

	job, err := notification.NewReminderJob(recipient, snapshot.ID, fireAt, uc.policy.MaxAttempts(notification.KindReminder), payload, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var inserted bool
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, eerr := tx.Jobs().Enqueue(ctx, job)
		inserted = ok
		return eerr
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !inserted {
		uc.logger.Info("reminder already pending",
			"event_id", snapshot.ID.String(),
			"recipient", recipient.Email)
		return &ScheduleReminderResult{Mode: ReminderAlreadyScheduled, FireAt: fireAt}, nil
	}

	uc.logger.Info("reminder scheduled",
		"event_id", snapshot.ID.String(),
		"recipient", recipient.Email,
		"job_id", job.ID.String(),
		"fire_at", fireAt)

	jobID := job.ID
	return &ScheduleReminderResult{Mode: ReminderScheduled, FireAt: fireAt, JobID: &jobID}, nil
}
