package constants

import (
	"time"

	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// Session
const (
	SessionCookieName     = "dashboard_session"
	SessionKeySelectedDay = "selected_day"
)

// Context keys
const (
	ContextKeyTask        = "task"
	ContextKeySelectedDay = "selected_day"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Scheduling
const (
	DefaultOverdueHour  = 18
	DefaultPollInterval = 60 * time.Second
	MaxCachedDayViews   = 8
)

// Storage
const (
	DefaultSnapshotKey = "videoTasks"
)

// Recommendations
const (
	DefaultAIModel       = "gpt-4o-mini"
	AIRequestTimeout     = 60 * time.Second
	AIRecommendationName = "workload_recommendation"
)

// DefaultEditors is the roster used when the configuration does not provide one.
var DefaultEditors = []models.Editor{
	{ID: "1", Name: "Alex Johnson", AvatarURL: "https://i.pravatar.cc/150?u=alex"},
	{ID: "2", Name: "Maria Garcia", AvatarURL: "https://i.pravatar.cc/150?u=maria"},
	{ID: "3", Name: "Chen Wei", AvatarURL: "https://i.pravatar.cc/150?u=chen"},
	{ID: "4", Name: "Samira Khan", AvatarURL: "https://i.pravatar.cc/150?u=samira"},
}
