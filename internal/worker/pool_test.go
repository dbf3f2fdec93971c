//go:build unit

package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/config"
	"event-notifier/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu        sync.Mutex
	queue     []*notification.Job
	processed []uuid.UUID
	claimErr  error
	block     chan struct{}
}

func (f *fakeRunner) ClaimBatch(_ context.Context, limit int) ([]*notification.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	n := min(limit, len(f.queue))
	batch := f.queue[:n]
	f.queue = f.queue[n:]
	return batch, nil
}

func (f *fakeRunner) Process(ctx context.Context, job *notification.Job) (notification.Transition, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, job.ID)
	return notification.Transition{Status: notification.StatusSent}, ctx.Err()
}

func (f *fakeRunner) processedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.processed)
}

func queuedJobs(n int) []*notification.Job {
	out := make([]*notification.Job, n)
	for i := range out {
		out[i] = &notification.Job{ID: uuid.New(), Kind: notification.KindReminder, Status: notification.StatusRunning}
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPool_ProcessesEveryClaimedJob(t *testing.T) {
	runner := &fakeRunner{queue: queuedJobs(25)}
	pool := worker.NewPool(runner, config.WorkerConfig{Concurrency: 3, BatchSize: 10, PollInterval: 10 * time.Millisecond}, discardLogger())

	pool.Start(context.Background())
	t.Cleanup(func() { _ = pool.Stop(context.Background()) })

	assert.Eventually(t, func() bool { return runner.processedCount() == 25 }, 2*time.Second, 5*time.Millisecond)
}

func TestPool_KeepsPollingAfterClaimErrors(t *testing.T) {
	runner := &fakeRunner{claimErr: errors.New("connection refused")}
	pool := worker.NewPool(runner, config.WorkerConfig{Concurrency: 1, BatchSize: 5, PollInterval: 5 * time.Millisecond}, discardLogger())

	pool.Start(context.Background())
	t.Cleanup(func() { _ = pool.Stop(context.Background()) })

	time.Sleep(20 * time.Millisecond)
	runner.mu.Lock()
	runner.claimErr = nil
	runner.queue = queuedJobs(2)
	runner.mu.Unlock()

	assert.Eventually(t, func() bool { return runner.processedCount() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestPool_StopWaitsForInFlightJobs(t *testing.T) {
	runner := &fakeRunner{queue: queuedJobs(1), block: make(chan struct{})}
	pool := worker.NewPool(runner, config.WorkerConfig{Concurrency: 1, BatchSize: 1, PollInterval: 5 * time.Millisecond}, discardLogger())
	pool.Start(context.Background())

	// Let the job reach Process before stopping.
	time.Sleep(30 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Stop(ctx), context.DeadlineExceeded)

	close(runner.block)
	require.NoError(t, pool.Stop(context.Background()))
	assert.Equal(t, 1, runner.processedCount())
}
