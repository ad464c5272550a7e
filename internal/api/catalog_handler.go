package api

import (
	"hiroonarita/practice-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetTeams godoc
// @Summary List the configured teams
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Team
// @Router /teams [get]
func (h *CatalogHandler) GetTeams(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.Teams())
}

// GetTemplates godoc
// @Summary List the built-in plan templates
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TemplateResponse
// @Router /templates [get]
func (h *CatalogHandler) GetTemplates(c *gin.Context) {
	templates := h.catalogService.Templates()
	resp := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, MapTemplateToResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// GetFocusTags godoc
// @Summary List the focus tag vocabulary
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /focus-tags [get]
func (h *CatalogHandler) GetFocusTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.FocusTags())
}
