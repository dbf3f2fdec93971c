//go:build unit

package clock_test

import (
	"testing"
	"time"

	"event-notifier/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := clock.ParseTimeOfDay("06:35")
	require.NoError(t, err)
	assert.Equal(t, clock.TimeOfDay{Hour: 6, Minute: 35}, tod)
	assert.Equal(t, "06:35", tod.String())

	for _, bad := range []string{"", "6", "25:00", "06:60", "6:35am"} {
		_, err := clock.ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestTimeOfDay_Decode(t *testing.T) {
	var tod clock.TimeOfDay
	require.NoError(t, tod.Decode("09:00"))
	assert.Equal(t, clock.TimeOfDay{Hour: 9}, tod)
	assert.Error(t, tod.Decode("nine"))
}

func TestTimeOfDay_Next(t *testing.T) {
	nine := clock.MustTimeOfDay("09:00")

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 6, 6, 8, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly now rolls to tomorrow",
			now:  time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "already passed",
			now:  time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
			want: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(nine.Next(tt.now, time.UTC)))
		})
	}
}
