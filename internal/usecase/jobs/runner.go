package jobs

import (
	"context"
	"log/slog"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/infra"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/dispatch"
	"event-notifier/internal/usecase/shared"
)

var errMissingChangeRecord = errs.New("update job has no change record")

type Runner interface {
	// ClaimBatch leases up to limit due jobs for this worker.
	ClaimBatch(ctx context.Context, limit int) ([]*notification.Job, error)
	// Process executes one claimed job and persists its next state.
	Process(ctx context.Context, job *notification.Job) (notification.Transition, error)
}

type runnerImpl struct {
	uow        shared.UnitOfWork
	dispatcher dispatch.Dispatcher
	clock      clock.Clock
	policy     notification.Policy
	lease      time.Duration
	logger     *slog.Logger
}

func NewRunner(
	uow shared.UnitOfWork,
	dispatcher dispatch.Dispatcher,
	clk clock.Clock,
	policy notification.Policy,
	lease time.Duration,
	logger *slog.Logger,
) Runner {
	return &runnerImpl{
		uow:        uow,
		dispatcher: dispatcher,
		clock:      clk,
		policy:     policy,
		lease:      lease,
		logger:     logger,
	}
}

func (r *runnerImpl) ClaimBatch(ctx context.Context, limit int) ([]*notification.Job, error) {
	var claimed, abandoned []*notification.Job
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := r.clock.Now()
		jobs, cerr := tx.Jobs().ClaimDue(ctx, now, limit, r.lease)
		if cerr != nil {
			return cerr
		}
		claimed, abandoned = make([]*notification.Job, 0, len(jobs)), nil
		for _, job := range jobs {
			if !job.AbandonIfExhausted() {
				claimed = append(claimed, job)
				continue
			}
			if serr := tx.Jobs().SaveAttempt(ctx, job, now); serr != nil {
				return serr
			}
			abandoned = append(abandoned, job)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "claim due jobs"), errs.ErrDatabaseOperationFailed)
	}

	for _, job := range abandoned {
		r.logger.Error("notification abandoned after expired leases",
			slog.String("job_id", job.ID.String()),
			slog.String("kind", job.Kind.String()),
			slog.String("event_id", job.EventID.String()),
			slog.String("recipient", job.Recipient.Email),
			slog.Int("attempt", job.Attempts),
			slog.Int("max_attempts", job.MaxAttempts))
	}
	return claimed, nil
}

// execution is what one run of a job produced.
type execution struct {
	outcome      notification.Outcome
	cause        error
	rescheduleAt *time.Time
}

func (r *runnerImpl) Process(ctx context.Context, job *notification.Job) (notification.Transition, error) {
	exec := r.execute(ctx, job)
	now := r.clock.Now()

	attrs := []any{
		slog.String("job_id", job.ID.String()),
		slog.String("kind", job.Kind.String()),
		slog.String("event_id", job.EventID.String()),
		slog.String("recipient", job.Recipient.Email),
	}

	var transition notification.Transition
	if exec.rescheduleAt != nil {
		if err := job.Reschedule(*exec.rescheduleAt); err != nil {
			return notification.Transition{}, err
		}
		transition = notification.Transition{Status: job.Status, Retry: true, RetryAt: job.ScheduledFor}
		r.logger.Info("event moved, reminder rescheduled", append(attrs, slog.Time("fire_at", job.ScheduledFor))...)
	} else {
		t, err := job.RecordAttempt(exec.outcome, exec.cause, now, r.policy)
		if err != nil {
			return notification.Transition{}, err
		}
		transition = t
		r.logTransition(job, exec, transition, attrs)
	}

	// Fresh session: nothing was held open while the mail was in flight.
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Jobs().SaveAttempt(ctx, job, now)
	})
	if err != nil {
		// The lease expires and the job is delivered again.
		r.logger.Error("failed to persist job state", append(attrs, slog.String("error", err.Error()))...)
		return transition, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return transition, nil
}

func (r *runnerImpl) logTransition(job *notification.Job, exec execution, t notification.Transition, attrs []any) {
	attrs = append(attrs,
		slog.Int("attempt", job.Attempts),
		slog.Int("max_attempts", job.MaxAttempts),
		slog.String("status", string(t.Status)))
	if exec.cause != nil {
		attrs = append(attrs, slog.String("error", exec.cause.Error()))
	}

	switch {
	case t.Exhausted:
		r.logger.Error("notification abandoned after max attempts", attrs...)
	case t.Retry:
		r.logger.Warn("notification will be retried", append(attrs, slog.Time("retry_at", t.RetryAt))...)
	case t.Status == notification.StatusFailed:
		r.logger.Error("notification failed permanently", attrs...)
	case t.Status == notification.StatusSkipped:
		r.logger.Info("notification skipped", attrs...)
	default:
		r.logger.Info("notification job completed", attrs...)
	}
}

func (r *runnerImpl) execute(ctx context.Context, job *notification.Job) execution {
	switch job.Kind {
	case notification.KindReminder:
		return r.executeReminder(ctx, job)
	case notification.KindUpdate:
		return r.executeUpdate(ctx, job)
	default:
		return execution{
			outcome: notification.OutcomePermanentFailure,
			cause:   errs.Wrapf(notification.ErrInvalidJob, "unknown kind %q", job.Kind),
		}
	}
}

func (r *runnerImpl) executeReminder(ctx context.Context, job *notification.Job) execution {
	var snapshot *event.Snapshot
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, rerr := tx.Reads().EventByID(ctx, job.EventID)
		snapshot = s
		return rerr
	})
	if err != nil {
		return readFailure(err, errs.ErrEventNotFound)
	}
	if snapshot.StartDate == nil {
		return execution{outcome: notification.OutcomeSkipped, cause: errs.New("event no longer has a start date")}
	}

	fireAt := r.policy.ReminderFireInstant(*snapshot.StartDate)
	if fireAt.After(r.clock.Now()) && !fireAt.Equal(job.ScheduledFor) {
		return execution{rescheduleAt: &fireAt}
	}

	return r.send(ctx, dispatch.Message{
		Kind:      notification.KindReminder,
		Recipient: job.Recipient.Email,
		Event:     snapshot,
	})
}

func (r *runnerImpl) executeUpdate(ctx context.Context, job *notification.Job) execution {
	if job.ChangeRecordID == nil {
		return execution{outcome: notification.OutcomePermanentFailure, cause: errMissingChangeRecord}
	}

	var (
		snapshot *event.Snapshot
		record   *event.ChangeRecord
	)
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, rerr := tx.Reads().ChangeRecordByID(ctx, *job.ChangeRecordID)
		if rerr != nil {
			return errs.Mark(rerr, errs.ErrChangeRecordNotFound)
		}
		record = rec

		s, rerr := tx.Reads().EventByID(ctx, job.EventID)
		if rerr != nil {
			return errs.Mark(rerr, errs.ErrEventNotFound)
		}
		snapshot = s
		return nil
	})
	if err != nil {
		if errs.Is(err, event.ErrInvalidPayload) {
			return execution{outcome: notification.OutcomePermanentFailure, cause: err}
		}
		return readFailure(err, nil)
	}

	return r.send(ctx, dispatch.Message{
		Kind:      notification.KindUpdate,
		Recipient: job.Recipient.Email,
		Event:     snapshot,
		Summary:   record.Summary(),
	})
}

func (r *runnerImpl) send(ctx context.Context, msg dispatch.Message) execution {
	result := r.dispatcher.Send(ctx, msg)
	return execution{outcome: result.Outcome, cause: result.Err}
}

// readFailure turns a missing row into a no-op and anything else into a retry.
func readFailure(err, notFound error) execution {
	if infra.IsKind(err, infra.KindNotFound) {
		if notFound != nil {
			err = errs.Mark(err, notFound)
		}
		return execution{outcome: notification.OutcomeSkipped, cause: err}
	}
	return execution{outcome: notification.OutcomeTransientFailure, cause: err}
}
