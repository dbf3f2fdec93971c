//go:build unit

package notification_test

import (
	"testing"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_ReminderFireInstant(t *testing.T) {
	policy := notification.DefaultPolicy()

	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "day before at the fire time",
			start: time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC),
			want:  time.Date(2025, 6, 6, 6, 35, 0, 0, time.UTC),
		},
		{
			name:  "early morning event still fires the previous day",
			start: time.Date(2025, 6, 7, 0, 15, 0, 0, time.UTC),
			want:  time.Date(2025, 6, 6, 6, 35, 0, 0, time.UTC),
		},
		{
			name:  "month boundary",
			start: time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC),
			want:  time.Date(2025, 6, 30, 6, 35, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(policy.ReminderFireInstant(tt.start)))
		})
	}

	t.Run("calendar day is taken in the policy location", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		policy.Location = tokyo

		// 2025-06-07 01:00 in Tokyo is still 2025-06-06 in UTC.
		start := time.Date(2025, 6, 6, 16, 0, 0, 0, time.UTC)
		got := policy.ReminderFireInstant(start)

		assert.True(t, time.Date(2025, 6, 6, 6, 35, 0, 0, tokyo).Equal(got))
	})
}

func TestPolicy_TomorrowWindow(t *testing.T) {
	policy := notification.DefaultPolicy()
	now := time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC)

	w := policy.TomorrowWindow(now)

	assert.Equal(t, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(time.Date(2025, 6, 7, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(w.End))
	assert.False(t, w.Contains(now))
}

func TestPolicy_TomorrowWindow_Boundaries(t *testing.T) {
	policy := notification.DefaultPolicy()
	w := policy.TomorrowWindow(time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC))

	tests := []struct {
		at   time.Time
		want bool
	}{
		{at: time.Date(2025, 6, 6, 0, 0, 1, 0, time.UTC), want: true},
		{at: time.Date(2025, 6, 6, 23, 59, 59, 0, time.UTC), want: true},
		{at: time.Date(2025, 6, 7, 0, 0, 1, 0, time.UTC), want: false},
		{at: time.Date(2025, 6, 5, 23, 59, 59, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.at.Format(time.RFC3339), func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.at))
		})
	}
}

func TestPolicy_Backoff(t *testing.T) {
	policy := notification.Policy{RetryBaseDelay: time.Minute, SweepTime: clock.MustTimeOfDay("09:00")}

	assert.Equal(t, time.Minute, policy.Backoff(1))
	assert.Equal(t, 2*time.Minute, policy.Backoff(2))
	assert.Equal(t, 4*time.Minute, policy.Backoff(3))
	assert.Equal(t, time.Minute, policy.Backoff(0))
}

func TestPolicy_MaxAttempts(t *testing.T) {
	policy := notification.DefaultPolicy()

	assert.Equal(t, 3, policy.MaxAttempts(notification.KindReminder))
	assert.Equal(t, 5, policy.MaxAttempts(notification.KindUpdate))
}
