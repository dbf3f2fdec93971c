//go:build unit

package patch_test

import (
	"testing"

	"event-notifier/internal/pkg/patch"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	city := "Shelbyville"
	empty := ""

	assert.Equal(t, "Shelbyville", patch.Coalesce(&city, "Springfield"))
	assert.Equal(t, "Springfield", patch.Coalesce((*string)(nil), "Springfield"))
	assert.Equal(t, "", patch.Coalesce(&empty, "Springfield"))
}
