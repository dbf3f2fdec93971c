package notification

import (
	"time"

	"event-notifier/internal/pkg/clock"
)

// Policy holds the scheduling values that have changed over time and are
// therefore configuration rather than constants.
type Policy struct {
	Location            *time.Location
	ReminderFireTime    clock.TimeOfDay
	SweepTime           clock.TimeOfDay
	ReminderMaxAttempts int
	UpdateMaxAttempts   int
	RetryBaseDelay      time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Location:            time.UTC,
		ReminderFireTime:    clock.TimeOfDay{Hour: 6, Minute: 35},
		SweepTime:           clock.TimeOfDay{Hour: 9, Minute: 0},
		ReminderMaxAttempts: 3,
		UpdateMaxAttempts:   5,
		RetryBaseDelay:      time.Minute,
	}
}

func (p Policy) MaxAttempts(kind Kind) int {
	if kind == KindUpdate {
		return p.UpdateMaxAttempts
	}
	return p.ReminderMaxAttempts
}

// Backoff is the delay after the given (1-indexed) failed attempt: base, 2·base, 4·base...
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 30 {
		attempt = 30
	}
	return p.RetryBaseDelay * time.Duration(1<<(attempt-1))
}

// ReminderFireInstant is the day before eventStart at the configured time of day.
func (p Policy) ReminderFireInstant(eventStart time.Time) time.Time {
	local := eventStart.In(p.Location)
	return p.ReminderFireTime.On(local.AddDate(0, 0, -1), p.Location)
}

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// TomorrowWindow covers the whole next calendar day relative to now.
func (p Policy) TomorrowWindow(now time.Time) Window {
	local := now.In(p.Location)
	start := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, p.Location)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}
