package api

import (
	"hiroonarita/practice-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReflectionHandler struct {
	reflectionService service.ReflectionService
}

func NewReflectionHandler(reflectionService service.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflectionService: reflectionService}
}

// SubmitReflection godoc
// @Summary Submit a player's reflection on a published plan
// @Tags Reflections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reflection body ReflectionRequest true "Reflection"
// @Success 201 {object} domain.Reflection
// @Failure 409 {object} gin.H "Plan is not published"
// @Failure 422 {object} gin.H "Field errors"
// @Router /reflections [post]
func (h *ReflectionHandler) SubmitReflection(c *gin.Context) {
	var req ReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in := req.ToReflection()
	if in.PlayerName == "" {
		in.PlayerName = getLabelFromContext(c)
	}
	saved, err := h.reflectionService.Submit(c.Request.Context(), in)
	if err != nil {
		respondWithServiceError(c, "submit reflection", err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListReflections godoc
// @Summary List reflections submitted for a plan
// @Tags Reflections
// @Produce json
// @Security BearerAuth
// @Param teamId query string true "Team ID"
// @Param date query string true "Date"
// @Param gradeGroup query string true "Grade group"
// @Success 200 {array} domain.Reflection
// @Router /reflections [get]
func (h *ReflectionHandler) ListReflections(c *gin.Context) {
	var q PlanKeyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	reflections, err := h.reflectionService.ListForPlan(c.Request.Context(), q.Key())
	if err != nil {
		respondWithServiceError(c, "list reflections", err)
		return
	}
	if reflections == nil {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}
	c.JSON(http.StatusOK, reflections)
}
