//go:build unit

package notification_test

import (
	"errors"
	"testing"
	"time"

	"event-notifier/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jobNow    = time.Date(2025, 6, 6, 6, 35, 0, 0, time.UTC)
	recipient = notification.Contact{UserID: uuid.New(), Email: "alice@example.com"}
)

func newReminder(t *testing.T, maxAttempts int) *notification.Job {
	t.Helper()
	job, err := notification.NewReminderJob(recipient, uuid.New(), jobNow, maxAttempts, nil, jobNow)
	require.NoError(t, err)
	return job
}

func TestNewJob(t *testing.T) {
	t.Run("reminder starts queued at the fire instant", func(t *testing.T) {
		job := newReminder(t, 3)

		assert.Equal(t, notification.KindReminder, job.Kind)
		assert.Equal(t, notification.StatusQueued, job.Status)
		assert.Equal(t, jobNow, job.ScheduledFor)
		assert.Equal(t, 0, job.Attempts)
		assert.JSONEq(t, `{}`, string(job.Payload))
	})

	t.Run("update job references its change record", func(t *testing.T) {
		recordID := uuid.New()
		job, err := notification.NewUpdateJob(recipient, uuid.New(), recordID, 5, []byte(`{"x":1}`), jobNow)

		require.NoError(t, err)
		require.NotNil(t, job.ChangeRecordID)
		assert.Equal(t, recordID, *job.ChangeRecordID)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := notification.NewReminderJob(notification.Contact{UserID: uuid.New()}, uuid.New(), jobNow, 3, nil, jobNow)
		assert.ErrorIs(t, err, notification.ErrInvalidJob)

		_, err = notification.NewReminderJob(recipient, uuid.Nil, jobNow, 3, nil, jobNow)
		assert.ErrorIs(t, err, notification.ErrInvalidJob)

		_, err = notification.NewReminderJob(recipient, uuid.New(), jobNow, 0, nil, jobNow)
		assert.ErrorIs(t, err, notification.ErrInvalidJob)
	})
}

func TestJob_RecordAttempt(t *testing.T) {
	policy := notification.DefaultPolicy()
	policy.RetryBaseDelay = time.Minute
	cause := errors.New("451 try again later")

	t.Run("success is terminal", func(t *testing.T) {
		job := newReminder(t, 3)

		tr, err := job.RecordAttempt(notification.OutcomeSuccess, nil, jobNow, policy)

		require.NoError(t, err)
		assert.Equal(t, notification.StatusSent, tr.Status)
		assert.Equal(t, 1, job.Attempts)
		assert.Nil(t, job.LastError)
	})

	t.Run("skipped is terminal", func(t *testing.T) {
		job := newReminder(t, 3)

		tr, err := job.RecordAttempt(notification.OutcomeSkipped, errors.New("event gone"), jobNow, policy)

		require.NoError(t, err)
		assert.Equal(t, notification.StatusSkipped, tr.Status)
		require.NotNil(t, job.LastError)
	})

	t.Run("permanent failure is never retried", func(t *testing.T) {
		job := newReminder(t, 3)

		tr, err := job.RecordAttempt(notification.OutcomePermanentFailure, errors.New("535 auth"), jobNow, policy)

		require.NoError(t, err)
		assert.Equal(t, notification.StatusFailed, tr.Status)
		assert.False(t, tr.Retry)
		assert.False(t, tr.Exhausted)
	})

	t.Run("transient failures back off exponentially up to the ceiling", func(t *testing.T) {
		job := newReminder(t, 3)

		tr1, err := job.RecordAttempt(notification.OutcomeTransientFailure, cause, jobNow, policy)
		require.NoError(t, err)
		assert.True(t, tr1.Retry)
		assert.Equal(t, jobNow.Add(time.Minute), tr1.RetryAt)
		assert.Equal(t, notification.StatusQueued, job.Status)

		tr2, err := job.RecordAttempt(notification.OutcomeTransientFailure, cause, jobNow, policy)
		require.NoError(t, err)
		assert.Equal(t, jobNow.Add(2*time.Minute), tr2.RetryAt)

		tr3, err := job.RecordAttempt(notification.OutcomeTransientFailure, cause, jobNow, policy)
		require.NoError(t, err)
		assert.True(t, tr3.Exhausted)
		assert.Equal(t, notification.StatusFailed, job.Status)
		assert.Equal(t, 3, job.Attempts)
		require.NotNil(t, job.LastError)
		assert.Equal(t, cause.Error(), *job.LastError)

		_, err = job.RecordAttempt(notification.OutcomeTransientFailure, cause, jobNow, policy)
		assert.ErrorIs(t, err, notification.ErrJobAlreadyTerminal)
		assert.Equal(t, 3, job.Attempts)
	})
}

func TestJob_Reschedule(t *testing.T) {
	t.Run("moves a running job back to queued and resets its attempts", func(t *testing.T) {
		job := newReminder(t, 3)
		job.Status = notification.StatusRunning
		job.Attempts = 2
		lastErr := "smtp connect: timeout"
		job.LastError = &lastErr
		later := jobNow.Add(48 * time.Hour)

		require.NoError(t, job.Reschedule(later))

		assert.Equal(t, notification.StatusQueued, job.Status)
		assert.Equal(t, later, job.ScheduledFor)
		assert.Equal(t, 0, job.Attempts)
		assert.Nil(t, job.LastError)
	})

	t.Run("terminal job cannot be rescheduled", func(t *testing.T) {
		job := newReminder(t, 3)
		job.Status = notification.StatusSent

		assert.ErrorIs(t, job.Reschedule(jobNow), notification.ErrJobAlreadyTerminal)
	})
}

func TestJob_AbandonIfExhausted(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		status   notification.Status
		want     bool
	}{
		{name: "attempts left", attempts: 2, status: notification.StatusRunning, want: false},
		{name: "ceiling reached", attempts: 3, status: notification.StatusRunning, want: true},
		{name: "already terminal", attempts: 3, status: notification.StatusSent, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := newReminder(t, 3)
			job.Attempts = tt.attempts
			job.Status = tt.status

			got := job.AbandonIfExhausted()

			assert.Equal(t, tt.want, got)
			if tt.want {
				assert.Equal(t, notification.StatusFailed, job.Status)
				require.NotNil(t, job.LastError)
				assert.Equal(t, notification.ErrLeaseExhausted.Error(), *job.LastError)
			} else {
				assert.Equal(t, tt.status, job.Status)
			}
		})
	}
}
