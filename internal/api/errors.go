package api

import (
	"errors"
	"net/http"

	"fitvibe/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unclassified is an external/store failure and surfaces as 500;
// read paths that prefer degrading to an empty list handle that before
// calling here.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrOwnMessageSeen):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRelationshipNotFound),
		errors.Is(err, service.ErrCoachNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrImageNotFound),
		errors.Is(err, service.ErrVideoNotFound),
		errors.Is(err, service.ErrAppointmentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotACoach),
		errors.Is(err, service.ErrNotAClient),
		errors.Is(err, service.ErrNotSubscribed):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "The operation failed, please try again")
	}
}
