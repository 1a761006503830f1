package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	apierrors "github.com/yukikurage/video-task-dashboard/internal/errors"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

// RequireTask loads the task named by the :id parameter into the context
func RequireTask(tasks *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, ok := tasks.Get(c.Param("id"))
		if !ok {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task set by RequireTask
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
