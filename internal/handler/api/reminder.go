package api

import (
	"net/http"

	reqdto "event-notifier/internal/handler/dto/request"
	resdto "event-notifier/internal/handler/dto/response"
	"event-notifier/internal/handler/httperr"
	"event-notifier/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReminderHandler struct {
	cmds commands.ReminderCommands
}

func NewReminderHandler(cmds commands.ReminderCommands) *ReminderHandler {
	return &ReminderHandler{cmds: cmds}
}

// @Summary Schedule event reminder
// @Description Schedule the day-before reminder for a new registrant, or send it now if that time has passed
// @Tags reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.ScheduleReminderRequest true "Recipient"
// @Success 202 {object} resdto.ScheduleReminderResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} map[string]string
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /events/{id}/reminders [post]
func (h *ReminderHandler) Schedule(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event id", nil)
		return
	}
	var req reqdto.ScheduleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.ScheduleReminder(c.Request.Context(), req.ToContact(), eventID)
	if err != nil {
		abortWithUseCaseError(c, err, "Cannot schedule reminder")
		return
	}
	c.JSON(http.StatusAccepted, resdto.FromScheduleReminderResult(result))
}
