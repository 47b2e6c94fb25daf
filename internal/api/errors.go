package api

import (
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/proposal"
	"alcyxob/trainer-planner/internal/service"
	"alcyxob/trainer-planner/internal/storage"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes returned next to "error".
const (
	CodeValidation      = "validation_failed"
	CodeInvalidBody     = "invalid_body"
	CodeExerciseInUse   = "exercise_in_use"
	CodeNameTaken       = "exercise_name_taken"
	CodeVersionConflict = "version_conflict"
)

// respondError writes the status and body for err and aborts the request.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var (
		verr      *service.ValidationError
		rejection proposal.Rejection
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Resource not found")
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "code": CodeValidation, "field": verr.Field})
	case errors.As(err, &rejection):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": rejection.Error(), "code": rejection.Code()})
	case errors.Is(err, service.ErrExerciseInUse):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "code": CodeExerciseInUse})
	case errors.Is(err, service.ErrExerciseNameTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "code": CodeNameTaken})
	case errors.Is(err, service.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "code": CodeVersionConflict})
	case errors.Is(err, service.ErrGeneratorUnavailable), errors.Is(err, storage.ErrDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrGeneratorFailed):
		log.Warn("Workout generator failed", "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusBadGateway, "Workout generator is not responding, try again later")
	case errors.Is(err, service.ErrUnauthenticated):
		abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
	default:
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// invalidBody reports a request body that failed to bind.
func invalidBody(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation error: " + err.Error(), "code": CodeInvalidBody})
}
