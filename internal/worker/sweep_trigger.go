package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/usecase/commands"
)

// SweepTrigger runs the daily sweep at the configured time of day, forever.
type SweepTrigger struct {
	sweep  commands.SweepCommands
	clock  clock.Clock
	policy notification.Policy
	logger *slog.Logger

	// after is swapped in tests
	after func(d time.Duration) <-chan time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSweepTrigger(sweep commands.SweepCommands, clk clock.Clock, policy notification.Policy, logger *slog.Logger) *SweepTrigger {
	return &SweepTrigger{
		sweep:  sweep,
		clock:  clk,
		policy: policy,
		logger: logger,
		after:  time.After,
	}
}

func (t *SweepTrigger) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(1)
	go t.loop(ctx)
}

func (t *SweepTrigger) Stop(ctx context.Context) error {
	if t.cancel != nil {
		t.cancel()
	}
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun is the next sweep instant strictly after now.
func (t *SweepTrigger) NextRun(now time.Time) time.Time {
	return t.policy.SweepTime.Next(now, t.policy.Location)
}

func (t *SweepTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	for {
		now := t.clock.Now()
		next := t.NextRun(now)
		t.logger.Info("next daily sweep scheduled", "at", next)

		select {
		case <-ctx.Done():
			return
		case <-t.after(next.Sub(now)):
		}

		if _, err := t.sweep.RunDailySweep(ctx); err != nil && ctx.Err() == nil {
			t.logger.Error("daily sweep failed", "error", err.Error())
		}
	}
}
