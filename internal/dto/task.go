package dto

import (
	"time"

	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                  string                `json:"id"`
	Title               string                `json:"title"`
	EditorID            string                `json:"editorId"`
	EditorName          string                `json:"editorName,omitempty"`
	Deadline            time.Time             `json:"deadline"`
	FileLink            string                `json:"fileLink,omitempty"`
	Notes               string                `json:"notes,omitempty"`
	VideoType           models.VideoType      `json:"videoType"`
	Priority            models.Priority       `json:"priority"`
	Status              models.TaskStatus     `json:"status"`
	IsUrgent            bool                  `json:"isUrgent"`
	IsOverdue           bool                  `json:"isOverdue"`
	Progress            int                   `json:"progress"`
	ApprovalStatus      models.ApprovalStatus `json:"approvalStatus"`
	CompletionTimestamp *time.Time            `json:"completionTimestamp,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
}

// DayViewResponse represents the ordered task list of one day
type DayViewResponse struct {
	Day           string    `json:"day"`
	Tasks         []TaskDTO `json:"tasks"`
	OverdueWindow bool      `json:"overdueWindow"`
	Revision      uint64    `json:"revision"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalCount int64     `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO. The editor name is filled in
// when the editor is on the roster.
func ToTaskDTO(task models.Task, editors []models.Editor, overdue bool) TaskDTO {
	dto := TaskDTO{
		ID:                  task.ID,
		Title:               task.Title,
		EditorID:            task.EditorID,
		Deadline:            task.Deadline,
		FileLink:            task.FileLink,
		Notes:               task.Notes,
		VideoType:           task.VideoType,
		Priority:            task.Priority,
		Status:              task.Status,
		IsUrgent:            task.IsUrgent,
		IsOverdue:           overdue,
		Progress:            task.Progress,
		ApprovalStatus:      task.ApprovalStatus,
		CompletionTimestamp: task.CompletionTimestamp,
		CreatedAt:           task.CreatedAt,
	}

	if editor, ok := models.FindEditor(editors, task.EditorID); ok {
		dto.EditorName = editor.Name
	}

	return dto
}

// ToDayViewResponse converts a computed day view to DayViewResponse
func ToDayViewResponse(view services.DayView, editors []models.Editor) DayViewResponse {
	items := make([]TaskDTO, len(view.Tasks))
	for i, task := range view.Tasks {
		items[i] = ToTaskDTO(task, editors, services.IsOverdue(task, view.OverdueWindow))
	}

	return DayViewResponse{
		Day:           view.Day,
		Tasks:         items,
		OverdueWindow: view.OverdueWindow,
		Revision:      view.Revision,
	}
}

// ToTaskListResponse converts one page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, editors []models.Editor, overdueWindow bool, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, editors, services.IsOverdue(task, overdueWindow))
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
