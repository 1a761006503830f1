package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/video-task-dashboard/internal/middleware"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

// Dependencies are the services shared by every handler
type Dependencies struct {
	Tasks     *services.TaskService
	Views     *services.ViewService
	AIService *services.AIService
	Editors   []models.Editor
}

// RegisterRoutes mounts the health check and the /api routes on r. The
// session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	taskHandler := NewTaskHandler(deps.Tasks, deps.Views, deps.Editors)
	dayHandler := NewDayHandler(deps.Views)
	editorHandler := NewEditorHandler(deps.Editors)
	recommendationHandler := NewRecommendationHandler(deps.AIService, deps.Tasks, deps.Views, deps.Editors)
	analyticsHandler := NewAnalyticsHandler(deps.Tasks, deps.Views, deps.Editors)

	selectedDay := middleware.SelectedDay(deps.Views.Today)
	requireTask := middleware.RequireTask(deps.Tasks)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Video Task Dashboard is running",
		})
	})

	api := r.Group("/api")
	{
		api.GET("/editors", editorHandler.ListEditors)

		api.GET("/day", selectedDay, dayHandler.GetDay)
		api.PUT("/day", dayHandler.SetDay)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", selectedDay, taskHandler.ListTasks)
			tasks.GET("/all", taskHandler.ListAllTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", requireTask, taskHandler.GetTask)
			tasks.PATCH("/:id", requireTask, taskHandler.UpdateTask)
			tasks.POST("/:id/done", requireTask, taskHandler.MarkDone)
			tasks.POST("/:id/urgent", requireTask, taskHandler.ToggleUrgent)
		}

		api.POST("/recommendations", recommendationHandler.Recommend)
		api.GET("/analytics", analyticsHandler.GetAnalytics)
	}
}
