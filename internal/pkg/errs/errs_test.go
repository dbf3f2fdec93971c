//go:build unit

package errs_test

import (
	"testing"

	"event-notifier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStackLines(t *testing.T) {
	err := errs.Wrap(errs.New("connection refused"), "claim due jobs")

	t.Run("first line is the message", func(t *testing.T) {
		lines := errs.ExtractStackLines(err, 0)

		require.NotEmpty(t, lines)
		assert.Equal(t, "claim due jobs: connection refused", lines[0])
		assert.Greater(t, len(lines), 3)
	})

	t.Run("limit truncates", func(t *testing.T) {
		assert.Len(t, errs.ExtractStackLines(err, 3), 3)
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, errs.ExtractStackLines(nil, 5))
	})
}
