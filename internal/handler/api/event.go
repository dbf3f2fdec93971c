package api

import (
	"net/http"
	"strconv"

	reqdto "event-notifier/internal/handler/dto/request"
	resdto "event-notifier/internal/handler/dto/response"
	"event-notifier/internal/handler/httperr"
	"event-notifier/internal/handler/middleware"
	"event-notifier/internal/usecase/commands"
	"event-notifier/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	cmds commands.EventUpdateCommands
	q    queries.UpdateQueries
}

func NewEventHandler(cmds commands.EventUpdateCommands, q queries.UpdateQueries) *EventHandler {
	return &EventHandler{cmds: cmds, q: q}
}

// @Summary Edit event
// @Description Apply an edit, record what changed and notify registrants and followers
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} resdto.UpdateEventResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} map[string]string
// @Failure 404 {object} httperr.Response
// @Router /events/{id} [patch]
func (h *EventHandler) Update(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event id", nil)
		return
	}
	editorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	var req reqdto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	edit, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.UpdateEvent(c.Request.Context(), eventID, editorID, edit)
	if err != nil {
		abortWithUseCaseError(c, err, "Cannot update event")
		return
	}
	res, err := resdto.FromUpdateEventResult(result)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Notify of an update
// @Description Fan out notifications for a change record persisted by the caller
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.NotifyUpdateRequest true "Change record"
// @Success 202 {object} resdto.NotifyUpdateResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} map[string]string
// @Failure 404 {object} httperr.Response
// @Router /events/{id}/update-notifications [post]
func (h *EventHandler) NotifyOfUpdate(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event id", nil)
		return
	}
	editorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	var req reqdto.NotifyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	enqueued, err := h.cmds.NotifyOfUpdate(c.Request.Context(), commands.UpdateNotice{
		EventID:        eventID,
		EditorID:       editorID,
		ChangeRecordID: req.ChangeRecordID,
	})
	if err != nil {
		abortWithUseCaseError(c, err, "Cannot notify of update")
		return
	}
	c.JSON(http.StatusAccepted, resdto.NotifyUpdateResponse{Enqueued: enqueued})
}

// @Summary List event updates
// @Description Change records of an event, newest first; undecodable entries carry an error marker
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.UpdateListResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /events/{id}/updates [get]
func (h *EventHandler) ListUpdates(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event id", nil)
		return
	}
	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	views, next, err := h.q.ListByEvent(c.Request.Context(), eventID, cursor, limit)
	if err != nil {
		abortWithUseCaseError(c, err, "Cannot list updates")
		return
	}
	res, err := resdto.FromUpdateViews(views, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
