//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/handler/api"
	resdto "event-notifier/internal/handler/dto/response"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/commands"
	"event-notifier/tests/common/httptest"
	commandsmock "event-notifier/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSweepHandler_Run(t *testing.T) {
	gin.SetMode(gin.TestMode)
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*gin.Engine, *commandsmock.MockSweepCommands) {
		ctrl := gomock.NewController(t)
		cmds := commandsmock.NewMockSweepCommands(ctrl)
		router := gin.New()
		router.POST("/sweeps", fakeAuth(uuid.New()), api.NewSweepHandler(cmds).Run)
		return router, cmds
	}

	t.Run("success: returns the counters", func(t *testing.T) {
		router, cmds := setup(t)
		cmds.EXPECT().RunDailySweep(gomock.Any()).Return(&commands.SweepResult{
			Window:          notification.Window{Start: start, End: start.AddDate(0, 0, 1)},
			EventsProcessed: 2,
			Sent:            5,
			Failed:          1,
			Skipped:         3,
		}, nil)

		rec := httptest.PerformRequest(t, router, http.MethodPost, "/sweeps", nil, "bearer-token")

		var res resdto.SweepResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &res)
		require.Equal(t, resdto.SweepResponse{
			WindowStart:     "2025-06-06T00:00:00Z",
			WindowEnd:       "2025-06-07T00:00:00Z",
			EventsProcessed: 2,
			Sent:            5,
			Failed:          1,
			Skipped:         3,
		}, res)
	})

	t.Run("error: selection failure is a 500", func(t *testing.T) {
		router, cmds := setup(t)
		cmds.EXPECT().RunDailySweep(gomock.Any()).
			Return(nil, errs.Mark(errors.New("conn refused"), errs.ErrDatabaseOperationFailed))

		rec := httptest.PerformRequest(t, router, http.MethodPost, "/sweeps", nil, "bearer-token")

		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})
}
