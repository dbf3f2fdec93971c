package commands

//go:generate mockgen -source=event_update.go -destination=../../../tests/mock/commands/event_update.go -package=commandsmock

import (
	"context"
	"encoding/json"
	"log/slog"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/infra"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrChangeRecordEventMismatch = errs.New("change record belongs to another event")

type UpdateEventResult struct {
	Changed        bool
	Event          *event.Snapshot
	ChangeRecordID *uuid.UUID
	Changes        []event.FieldChange
	Enqueued       int
}

// UpdateNotice points at a change record that has already been persisted.
type UpdateNotice struct {
	EventID        uuid.UUID
	EditorID       uuid.UUID
	ChangeRecordID uuid.UUID
}

type EventUpdateCommands interface {
	// UpdateEvent diffs req against the stored event, persists the mutation and
	// its change record atomically, then fans out update notifications.
	UpdateEvent(ctx context.Context, eventID, editorID uuid.UUID, req event.EditRequest) (*UpdateEventResult, error)
	// NotifyOfUpdate resolves recipients now and enqueues one job per recipient.
	NotifyOfUpdate(ctx context.Context, notice UpdateNotice) (int, error)
}

type eventUpdateUseCaseImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	policy notification.Policy
	logger *slog.Logger
}

func NewEventUpdateCommands(
	uow shared.UnitOfWork,
	clk clock.Clock,
	policy notification.Policy,
	logger *slog.Logger,
) EventUpdateCommands {
	return &eventUpdateUseCaseImpl{uow: uow, clock: clk, policy: policy, logger: logger}
}

func (uc *eventUpdateUseCaseImpl) UpdateEvent(
	ctx context.Context,
	eventID, editorID uuid.UUID,
	req event.EditRequest,
) (*UpdateEventResult, error) {
	var result *UpdateEventResult

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, rerr := tx.Reads().EventByIDForUpdate(ctx, eventID)
		if rerr != nil {
			return rerr
		}

		changes := event.Diff(current, req, uc.policy.Location)
		if len(changes) == 0 {
			result = &UpdateEventResult{Changed: false, Event: current}
			return nil
		}

		now := uc.clock.Now()
		updated := current.Apply(req)
		if uerr := tx.Events().Update(ctx, updated, now); uerr != nil {
			return uerr
		}

		record, derr := event.NewChangeRecord(eventID, editorID, changes, now)
		if derr != nil {
			return derr
		}
		if cerr := tx.ChangeRecords().Create(ctx, record); cerr != nil {
			return cerr
		}

		recordID := record.ID()
		result = &UpdateEventResult{
			Changed:        true,
			Event:          updated,
			ChangeRecordID: &recordID,
			Changes:        changes,
		}
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrEventNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !result.Changed {
		uc.logger.Info("event edit produced no changes", "event_id", eventID.String())
		return result, nil
	}

	enqueued, err := uc.NotifyOfUpdate(ctx, UpdateNotice{
		EventID:        eventID,
		EditorID:       editorID,
		ChangeRecordID: *result.ChangeRecordID,
	})
	if err != nil {
		// The edit is committed; notification failures never reach the editor.
		uc.logger.Error("failed to enqueue update notifications",
			"event_id", eventID.String(),
			"change_record_id", result.ChangeRecordID.String(),
			"error", err.Error())
	}
	result.Enqueued = enqueued

	return result, nil
}

func (uc *eventUpdateUseCaseImpl) NotifyOfUpdate(ctx context.Context, notice UpdateNotice) (int, error) {
	var enqueued int

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		enqueued = 0

		record, rerr := tx.Reads().ChangeRecordByID(ctx, notice.ChangeRecordID)
		if rerr != nil {
			return rerr
		}
		if record.EventID() != notice.EventID {
			return ErrChangeRecordEventMismatch
		}

		registrants, rerr := tx.Reads().Registrants(ctx, notice.EventID)
		if rerr != nil {
			return rerr
		}
		followers, rerr := tx.Reads().Followers(ctx, notice.EventID)
		if rerr != nil {
			return rerr
		}

		recipients := notification.ResolveRecipients(registrants, followers, &notice.EditorID)
		for _, id := range recipients.Dropped() {
			uc.logger.Warn("recipient has no contact address, skipping",
				"event_id", notice.EventID.String(),
				"user_id", id.String())
		}

		payload, merr := json.Marshal(map[string]any{
			"change_record_id": notice.ChangeRecordID,
			"editor_id":        notice.EditorID,
		})
		if merr != nil {
			return merr
		}

		now := uc.clock.Now()
		maxAttempts := uc.policy.MaxAttempts(notification.KindUpdate)
		for _, contact := range recipients.Contacts() {
			job, jerr := notification.NewUpdateJob(contact, notice.EventID, notice.ChangeRecordID, maxAttempts, payload, now)
			if jerr != nil {
				return jerr
			}
			inserted, eerr := tx.Jobs().Enqueue(ctx, job)
			if eerr != nil {
				return eerr
			}
			if inserted {
				enqueued++
			}
		}
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return 0, errs.ErrChangeRecordNotFound
		}
		if errs.Is(err, ErrChangeRecordEventMismatch) {
			return 0, errs.Mark(err, errs.ErrChangeRecordNotFound)
		}
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	uc.logger.Info("update notifications enqueued",
		"event_id", notice.EventID.String(),
		"change_record_id", notice.ChangeRecordID.String(),
		"jobs", enqueued)

	return enqueued, nil
}
