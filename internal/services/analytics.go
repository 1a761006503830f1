package services

import (
	"math"

	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// NamedCount is one bar of a completion chart.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Analytics summarizes completed work over a set of tasks.
type Analytics struct {
	VideosCompleted        int          `json:"videosCompleted"`
	AverageCompletionHours float64      `json:"averageCompletionHours"`
	UrgentTasksHandled     int          `json:"urgentTasksHandled"`
	PendingTasks           int          `json:"pendingTasks"`
	EditorProductivity     []NamedCount `json:"editorProductivity"`
	VideoTypeDistribution  []NamedCount `json:"videoTypeDistribution"`
}

// ComputeAnalytics aggregates tasks. Every roster editor and every video
// type appears in the breakdowns, in roster and display order.
func ComputeAnalytics(tasks []models.Task, editors []models.Editor) Analytics {
	result := Analytics{
		EditorProductivity:    make([]NamedCount, len(editors)),
		VideoTypeDistribution: make([]NamedCount, len(models.VideoTypes)),
	}

	editorIndex := make(map[string]int, len(editors))
	for i, e := range editors {
		result.EditorProductivity[i] = NamedCount{Name: e.Name}
		editorIndex[e.ID] = i
	}
	typeIndex := make(map[models.VideoType]int, len(models.VideoTypes))
	for i, vt := range models.VideoTypes {
		result.VideoTypeDistribution[i] = NamedCount{Name: string(vt)}
		typeIndex[vt] = i
	}

	var totalHours float64
	for _, task := range tasks {
		if task.IsUrgent {
			result.UrgentTasksHandled++
		}
		if !task.IsDone() {
			result.PendingTasks++
			continue
		}

		result.VideosCompleted++
		if task.CompletionTimestamp != nil {
			totalHours += task.CompletionTimestamp.Sub(task.CreatedAt).Hours()
		}
		if i, ok := editorIndex[task.EditorID]; ok {
			result.EditorProductivity[i].Count++
		}
		if i, ok := typeIndex[task.VideoType]; ok {
			result.VideoTypeDistribution[i].Count++
		}
	}

	if result.VideosCompleted > 0 {
		avg := totalHours / float64(result.VideosCompleted)
		result.AverageCompletionHours = math.Round(avg*100) / 100
	}

	return result
}
