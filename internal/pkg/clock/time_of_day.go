package clock

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date, e.g. "06:35".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func MustTimeOfDay(s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return tod
}

// Decode implements envconfig.Decoder.
func (t *TimeOfDay) Decode(value string) error {
	tod, err := ParseTimeOfDay(value)
	if err != nil {
		return err
	}
	*t = tod
	return nil
}

// On returns the instant at this time of day on the calendar date of day, in loc.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// Next returns the first occurrence of this time of day strictly after now.
func (t TimeOfDay) Next(now time.Time, loc *time.Location) time.Time {
	candidate := t.On(now, loc)
	if !candidate.After(now) {
		candidate = t.On(startOfDay(now, loc).AddDate(0, 0, 1), loc)
	}
	return candidate
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
