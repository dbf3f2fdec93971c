package api

import (
	"net/http"

	resdto "event-notifier/internal/handler/dto/response"
	"event-notifier/internal/handler/httperr"
	"event-notifier/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SweepHandler struct {
	cmds commands.SweepCommands
}

func NewSweepHandler(cmds commands.SweepCommands) *SweepHandler {
	return &SweepHandler{cmds: cmds}
}

// @Summary Run daily sweep
// @Description Remind the audience of every event starting tomorrow; safe to re-run
// @Tags sweeps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} httperr.Response
// @Router /sweeps [post]
func (h *SweepHandler) Run(c *gin.Context) {
	result, err := h.cmds.RunDailySweep(c.Request.Context())
	if err != nil {
		abortWithUseCaseError(c, err, "Sweep failed")
		return
	}
	res, err := resdto.FromSweepResult(result)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
