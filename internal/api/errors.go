package api

import (
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/service"
	"hiroonarita/practice-planner/internal/storage"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondWithServiceError maps service and domain errors to HTTP statuses.
func respondWithServiceError(c *gin.Context, op string, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "fields": vErr.Fields})
	case errors.Is(err, domain.ErrInvalidTeam), errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidGradeGroup), errors.Is(err, storage.ErrUnsupportedContentType),
		errors.Is(err, service.ErrInvalidObjectKey):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrVoiceClipNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanPublished), errors.Is(err, service.ErrPlanNotPublished):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAmbiguousPlan):
		log.Printf("ERROR: %s: more than one stored plan shares a natural key: %v", op, err)
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrVoiceDisabled), errors.Is(err, service.ErrPlanStoreFailure):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("ERROR: %s: %v", op, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to "+op)
	}
}
