// internal/api/plan_handler.go
package api

import (
	"hiroonarita/practice-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// ListPlans godoc
// @Summary Fetch every plan visible to the caller
// @Description Coaches get drafts and published plans; players only published ones.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PlanResponse
// @Failure 503 {object} gin.H "Store unavailable"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	coach := isCoach(c)
	plans, err := h.planService.ListPlans(c.Request.Context(), !coach)
	if err != nil {
		respondWithServiceError(c, "list plans", err)
		return
	}
	resp := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, MapPlanToResponse(&plans[i], coach))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCurrentPlan godoc
// @Summary Resolve the plan for a team, date and grade group
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param teamId query string true "Team ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param gradeGroup query string true "Grade group (1-2, 3-4, 5-6)"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "No plan for that day"
// @Router /plans/current [get]
func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	var q PlanKeyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coach := isCoach(c)
	plan, err := h.planService.Lookup(c.Request.Context(), q.Key(), !coach)
	if err != nil {
		respondWithServiceError(c, "look up plan", err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan, coach))
}

// GetYesterdayPlan godoc
// @Summary Resolve the published plan of the previous calendar day
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param teamId query string true "Team ID"
// @Param date query string true "Today's date (YYYY-MM-DD)"
// @Param gradeGroup query string true "Grade group"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Nothing was published yesterday"
// @Router /plans/yesterday [get]
func (h *PlanHandler) GetYesterdayPlan(c *gin.Context) {
	var q PlanKeyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.LookupYesterday(c.Request.Context(), q.Key())
	if err != nil {
		respondWithServiceError(c, "look up yesterday's plan", err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan, isCoach(c)))
}

// SaveDraft godoc
// @Summary Upsert a plan as a draft
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan"
// @Success 200 {object} PlanResponse
// @Failure 409 {object} gin.H "Plan is already published"
// @Router /plans [put]
func (h *PlanHandler) SaveDraft(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	saved, err := h.planService.SaveDraft(c.Request.Context(), req.ToRecord())
	if err != nil {
		respondWithServiceError(c, "save draft", err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(saved, true))
}

// PublishPlan godoc
// @Summary Validate and publish a plan
// @Description Requires a title in all four drill slots. Re-publishing replaces the published content.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan"
// @Success 200 {object} PlanResponse
// @Failure 422 {object} gin.H "Missing drill titles, keyed by slot"
// @Router /plans/publish [post]
func (h *PlanHandler) PublishPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	saved, err := h.planService.Publish(c.Request.Context(), req.ToRecord())
	if err != nil {
		respondWithServiceError(c, "publish plan", err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(saved, true))
}

