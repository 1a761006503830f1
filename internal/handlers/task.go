package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/video-task-dashboard/internal/dto"
	apierrors "github.com/yukikurage/video-task-dashboard/internal/errors"
	"github.com/yukikurage/video-task-dashboard/internal/middleware"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
	"github.com/yukikurage/video-task-dashboard/internal/utils"
)

// Accepted deadline layouts, most specific first. The zone-less layouts are
// what a datetime-local form field sends.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

type TaskHandler struct {
	tasks   *services.TaskService
	views   *services.ViewService
	editors []models.Editor
}

func NewTaskHandler(tasks *services.TaskService, views *services.ViewService, editors []models.Editor) *TaskHandler {
	return &TaskHandler{
		tasks:   tasks,
		views:   views,
		editors: editors,
	}
}

// ListTasks returns the ordered view of the selected day
func (h *TaskHandler) ListTasks(c *gin.Context) {
	day, ok := middleware.GetSelectedDay(c)
	if !ok {
		day = h.views.Today()
	}

	view := h.views.ForDay(day)
	c.JSON(http.StatusOK, dto.ToDayViewResponse(view, h.editors))
}

// ListAllTasks returns every task in insertion order, paginated
func (h *TaskHandler) ListAllTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	all := h.tasks.Tasks()

	page := utils.Paginate(all, params)
	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, h.editors, h.views.OverdueWindowOpen(), params.Page, params.Limit, int64(len(all))))
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTask middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, h.toDTO(task))
}

// CreateTask adds a new pending task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title     string           `json:"title" binding:"required"`
		EditorID  string           `json:"editorId" binding:"required"`
		Deadline  string           `json:"deadline" binding:"required"`
		FileLink  string           `json:"fileLink"`
		Notes     string           `json:"notes"`
		VideoType models.VideoType `json:"videoType"`
		Priority  models.Priority  `json:"priority"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, &req, err)
		return
	}

	deadline, err := parseDeadline(req.Deadline, h.views.Location())
	if err != nil {
		apierrors.InvalidFormat(c, err.Error())
		return
	}

	if req.VideoType == "" {
		req.VideoType = models.VideoTypeSocialMedia
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !validateEnums(c, &req.VideoType, &req.Priority) {
		return
	}

	task := h.tasks.Add(services.CreateTaskInput{
		Title:     req.Title,
		EditorID:  req.EditorID,
		Deadline:  deadline,
		FileLink:  req.FileLink,
		Notes:     req.Notes,
		VideoType: req.VideoType,
		Priority:  req.Priority,
	})

	c.JSON(http.StatusCreated, h.toDTO(task))
}

// UpdateTask merges the provided fields into an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title     *string           `json:"title"`
		EditorID  *string           `json:"editorId"`
		Deadline  *string           `json:"deadline"`
		FileLink  *string           `json:"fileLink"`
		Notes     *string           `json:"notes"`
		VideoType *models.VideoType `json:"videoType"`
		Priority  *models.Priority  `json:"priority"`
		IsUrgent  *bool             `json:"isUrgent"`
		Progress  *int              `json:"progress"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !validateEnums(c, req.VideoType, req.Priority) {
		return
	}

	input := services.UpdateTaskInput{
		Title:     req.Title,
		EditorID:  req.EditorID,
		FileLink:  req.FileLink,
		Notes:     req.Notes,
		VideoType: req.VideoType,
		Priority:  req.Priority,
		IsUrgent:  req.IsUrgent,
		Progress:  req.Progress,
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(*req.Deadline, h.views.Location())
		if err != nil {
			apierrors.InvalidFormat(c, err.Error())
			return
		}
		input.Deadline = &deadline
	}

	updated, ok := h.tasks.Update(task.ID, input)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, h.toDTO(updated))
}

// MarkDone completes a task
func (h *TaskHandler) MarkDone(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	done, ok := h.tasks.MarkDone(task.ID)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, h.toDTO(done))
}

// ToggleUrgent flips the urgent flag of a pending task
func (h *TaskHandler) ToggleUrgent(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	toggled, ok := h.tasks.ToggleUrgent(task.ID)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, h.toDTO(toggled))
}

func (h *TaskHandler) toDTO(task models.Task) dto.TaskDTO {
	return dto.ToTaskDTO(task, h.editors, services.IsOverdue(task, h.views.OverdueWindowOpen()))
}

func validateEnums(c *gin.Context, videoType *models.VideoType, priority *models.Priority) bool {
	if videoType != nil && !videoType.IsValid() {
		apierrors.BadRequestWithDetails(c, "Unknown video type", gin.H{"allowed": models.VideoTypes})
		return false
	}
	if priority != nil && !priority.IsValid() {
		apierrors.BadRequestWithDetails(c, "Unknown priority", gin.H{"allowed": models.Priorities})
		return false
	}
	return true
}

func parseDeadline(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline %q is not a valid date-time", value)
}
