package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/infra/db"
	"event-notifier/internal/infra/readstore"
	"event-notifier/internal/infra/repository"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = fn(ctx, newPgTx(pgxTx))
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, newPgTx(pgxTx)); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- high bit masked above
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	eventRepo        shared.EventRepository
	changeRecordRepo shared.ChangeRecordRepository
	jobRepo          shared.NotificationJobRepository
	sweepMarkRepo    shared.SweepMarkRepository
	commandReads     shared.CommandReads
}

func newPgTx(dbtx db.DBTX) *pgTx {
	return &pgTx{dbtx: dbtx}
}

func (t *pgTx) Events() shared.EventRepository {
	if t.eventRepo == nil {
		t.eventRepo = repository.NewEventRepository(t.dbtx)
	}
	return t.eventRepo
}

func (t *pgTx) ChangeRecords() shared.ChangeRecordRepository {
	if t.changeRecordRepo == nil {
		t.changeRecordRepo = repository.NewChangeRecordRepository(t.dbtx)
	}
	return t.changeRecordRepo
}

func (t *pgTx) Jobs() shared.NotificationJobRepository {
	if t.jobRepo == nil {
		t.jobRepo = repository.NewNotificationJobRepository(t.dbtx)
	}
	return t.jobRepo
}

func (t *pgTx) SweepMarks() shared.SweepMarkRepository {
	if t.sweepMarkRepo == nil {
		t.sweepMarkRepo = repository.NewSweepMarkRepository(t.dbtx)
	}
	return t.sweepMarkRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	eventStore        *readstore.EventReadStore
	recipientStore    *readstore.RecipientReadStore
	changeRecordStore *readstore.ChangeRecordReadStore
}

func (r *commandReads) events() *readstore.EventReadStore {
	if r.eventStore == nil {
		r.eventStore = readstore.NewEventReadStore(r.dbtx)
	}
	return r.eventStore
}

func (r *commandReads) recipients() *readstore.RecipientReadStore {
	if r.recipientStore == nil {
		r.recipientStore = readstore.NewRecipientReadStore(r.dbtx)
	}
	return r.recipientStore
}

func (r *commandReads) changeRecords() *readstore.ChangeRecordReadStore {
	if r.changeRecordStore == nil {
		r.changeRecordStore = readstore.NewChangeRecordReadStore(r.dbtx)
	}
	return r.changeRecordStore
}

func (r *commandReads) EventByID(ctx context.Context, id uuid.UUID) (*event.Snapshot, error) {
	return r.events().FindByID(ctx, id)
}

func (r *commandReads) EventByIDForUpdate(ctx context.Context, id uuid.UUID) (*event.Snapshot, error) {
	return r.events().FindByIDForUpdate(ctx, id)
}

func (r *commandReads) RemindableEventsBetween(ctx context.Context, from, to time.Time) ([]*event.Snapshot, error) {
	return r.events().FindRemindableBetween(ctx, from, to)
}

func (r *commandReads) Registrants(ctx context.Context, eventID uuid.UUID) ([]notification.Contact, error) {
	return r.recipients().Registrants(ctx, eventID)
}

func (r *commandReads) Followers(ctx context.Context, eventID uuid.UUID) ([]notification.Contact, error) {
	return r.recipients().Followers(ctx, eventID)
}

func (r *commandReads) ChangeRecordByID(ctx context.Context, id uuid.UUID) (*event.ChangeRecord, error) {
	return r.changeRecords().FindByID(ctx, id)
}
