//go:build unit

package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweep struct {
	runs atomic.Int32
}

func (c *countingSweep) RunDailySweep(context.Context) (*commands.SweepResult, error) {
	c.runs.Add(1)
	return &commands.SweepResult{}, nil
}

func TestSweepTrigger_NextRun(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	policy := notification.DefaultPolicy()
	trigger := NewSweepTrigger(&countingSweep{}, clock.NewMockClock(time.Now()), policy, slog.New(slog.NewTextHandler(io.Discard, nil)))

	testCases := []struct {
		name string
		loc  *time.Location
		now  time.Time
		want time.Time
	}{
		{
			name: "before today's run",
			loc:  time.UTC,
			now:  time.Date(2025, 6, 5, 8, 59, 0, 0, time.UTC),
			want: time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at the run is tomorrow",
			loc:  time.UTC,
			now:  time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "local time of day",
			loc:  tokyo,
			now:  time.Date(2025, 6, 5, 1, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 6, 9, 0, 0, 0, tokyo),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trigger.policy.Location = tc.loc

			assert.True(t, trigger.NextRun(tc.now).Equal(tc.want), "got %s", trigger.NextRun(tc.now))
		})
	}
}

func TestSweepTrigger_RunsOnEachTick(t *testing.T) {
	sweep := &countingSweep{}
	clk := clock.NewMockClock(time.Date(2025, 6, 5, 8, 0, 0, 0, time.UTC))
	trigger := NewSweepTrigger(sweep, clk, notification.DefaultPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ticks := make(chan time.Time)
	waits := make(chan time.Duration, 4)
	trigger.after = func(d time.Duration) <-chan time.Time {
		waits <- d
		return ticks
	}

	trigger.Start(context.Background())

	assert.Equal(t, time.Hour, <-waits)
	ticks <- time.Now()
	<-waits
	ticks <- time.Now()
	<-waits

	require.NoError(t, trigger.Stop(context.Background()))
	assert.Equal(t, int32(2), sweep.runs.Load())
}
