package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/video-task-dashboard/internal/errors"
	"github.com/yukikurage/video-task-dashboard/internal/middleware"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

type RecommendationHandler struct {
	aiService *services.AIService
	tasks     *services.TaskService
	views     *services.ViewService
	editors   []models.Editor
}

func NewRecommendationHandler(aiService *services.AIService, tasks *services.TaskService, views *services.ViewService, editors []models.Editor) *RecommendationHandler {
	return &RecommendationHandler{
		aiService: aiService,
		tasks:     tasks,
		views:     views,
		editors:   editors,
	}
}

// Recommend asks the model for workload recommendations over every task, or
// over one day when a date is given.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	type RecommendRequest struct {
		Date string `json:"date"`
	}

	// an empty body asks about every task
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks := h.tasks.Tasks()
	if req.Date != "" {
		if !middleware.IsValidDay(req.Date) {
			apierrors.InvalidFormat(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		tasks = h.views.ForDay(req.Date).Tasks
	}

	rec, err := h.aiService.Recommend(c.Request.Context(), tasks, h.editors)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func respondRecommendationError(c *gin.Context, err error) {
	var recErr *services.RecommendationError
	switch {
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrRecommendationInProgress):
		apierrors.Conflict(c, apierrors.ErrCodeRecommendationInProgress, err.Error())
	case errors.As(err, &recErr):
		apierrors.BadGateway(c, apierrors.ErrCodeRecommendationFailed, recErr.Message)
	default:
		log.Printf("[ai] unexpected recommendation error: %v", err)
		apierrors.InternalError(c, "")
	}
}
