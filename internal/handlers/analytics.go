package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/video-task-dashboard/internal/errors"
	"github.com/yukikurage/video-task-dashboard/internal/middleware"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

type AnalyticsHandler struct {
	tasks   *services.TaskService
	views   *services.ViewService
	editors []models.Editor
}

func NewAnalyticsHandler(tasks *services.TaskService, views *services.ViewService, editors []models.Editor) *AnalyticsHandler {
	return &AnalyticsHandler{
		tasks:   tasks,
		views:   views,
		editors: editors,
	}
}

// GetAnalytics returns completion metrics over every task, or over one day
// when the date query parameter is set.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	tasks := h.tasks.Tasks()
	if date := c.Query("date"); date != "" {
		if !middleware.IsValidDay(date) {
			apierrors.InvalidFormat(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		tasks = h.views.ForDay(date).Tasks
	}

	c.JSON(http.StatusOK, services.ComputeAnalytics(tasks, h.editors))
}
