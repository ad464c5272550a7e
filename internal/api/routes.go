package api

import (
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services groups everything the routes depend on.
type Services struct {
	Access     service.AccessService
	Catalog    service.CatalogService
	Plans      service.PlanService
	Reflection service.ReflectionService
	Voice      service.VoiceService
}

func SetupRoutes(router *gin.Engine, svc Services) {
	catalogHandler := NewCatalogHandler(svc.Catalog)
	planHandler := NewPlanHandler(svc.Plans)
	reflectionHandler := NewReflectionHandler(svc.Reflection)
	voiceHandler := NewVoiceHandler(svc.Voice)

	coachOnly := RoleMiddleware(domain.RoleCoach)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(AccessKeyMiddleware(svc.Access))
	{
		apiV1.GET("/me", func(c *gin.Context) {
			role, _ := getRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"role": role, "label": getLabelFromContext(c)})
		})

		// --- Catalog ---
		apiV1.GET("/teams", catalogHandler.GetTeams)
		apiV1.GET("/templates", catalogHandler.GetTemplates)
		apiV1.GET("/focus-tags", catalogHandler.GetFocusTags)

		// --- Plans ---
		plans := apiV1.Group("/plans")
		{
			plans.GET("", planHandler.ListPlans)
			plans.GET("/current", planHandler.GetCurrentPlan)
			plans.GET("/yesterday", planHandler.GetYesterdayPlan)
			plans.PUT("", coachOnly, planHandler.SaveDraft)
			plans.POST("/publish", coachOnly, planHandler.PublishPlan)
		}

		// --- Reflections ---
		apiV1.POST("/reflections", RoleMiddleware(domain.RolePlayer), reflectionHandler.SubmitReflection)
		apiV1.GET("/reflections", coachOnly, reflectionHandler.ListReflections)

		// --- Voice clips ---
		voice := apiV1.Group("/voice")
		{
			voice.POST("/uploads", voiceHandler.RequestUploadURL)
			voice.POST("/clips", voiceHandler.ConfirmUpload)
			voice.GET("/clips/:id", voiceHandler.GetDownloadURL)
			voice.DELETE("/clips/:id", coachOnly, voiceHandler.DeleteClip)
		}
	}
}
