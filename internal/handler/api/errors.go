package api

import (
	"net/http"

	"event-notifier/internal/handler/httperr"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errUnauthenticated = errs.New("no authenticated user in context")

// abortWithUseCaseError maps use case failures onto HTTP statuses.
func abortWithUseCaseError(c *gin.Context, err error, msg string) {
	switch {
	case errs.Is(err, errs.ErrEventNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Event not found", nil)
	case errs.Is(err, errs.ErrChangeRecordNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Change record not found", nil)
	case errs.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, msg, err.Error())
	case errs.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
