package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "Pending"
	TaskStatusDone    TaskStatus = "Done"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Rank returns the sort weight of a priority. Unknown values rank below Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

type ApprovalStatus string

const (
	ApprovalStatusPending       ApprovalStatus = "Pending"
	ApprovalStatusApproved      ApprovalStatus = "Approved"
	ApprovalStatusNeedsRevision ApprovalStatus = "Needs Revision"
)

type VideoType string

const (
	VideoTypePromo       VideoType = "Promo"
	VideoTypeSocialMedia VideoType = "Social Media"
	VideoTypeAd          VideoType = "Ad"
	VideoTypeTutorial    VideoType = "Tutorial"
	VideoTypeInternal    VideoType = "Internal"
)

// VideoTypes lists the video types in display order.
var VideoTypes = []VideoType{
	VideoTypePromo,
	VideoTypeSocialMedia,
	VideoTypeAd,
	VideoTypeTutorial,
	VideoTypeInternal,
}

// IsValid reports whether v is one of the known video types.
func (v VideoType) IsValid() bool {
	for _, known := range VideoTypes {
		if v == known {
			return true
		}
	}
	return false
}

// Task is a dated video assignment for one editor. The JSON form is also
// the persisted snapshot format.
type Task struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	EditorID            string         `json:"editorId"`
	Deadline            time.Time      `json:"deadline"`
	FileLink            string         `json:"fileLink,omitempty"`
	Notes               string         `json:"notes,omitempty"`
	VideoType           VideoType      `json:"videoType"`
	Priority            Priority       `json:"priority"`
	Status              TaskStatus     `json:"status"`
	IsUrgent            bool           `json:"isUrgent"`
	Progress            int            `json:"progress"`
	CompletionTimestamp *time.Time     `json:"completionTimestamp,omitempty"`
	ApprovalStatus      ApprovalStatus `json:"approvalStatus"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// IsDone reports whether the task has been completed.
func (t Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// IsPending reports whether the task is still open.
func (t Task) IsPending() bool {
	return t.Status == TaskStatusPending
}

// DayKey returns the calendar date (YYYY-MM-DD) of the task's creation in loc.
func (t Task) DayKey(loc *time.Location) string {
	return DayKey(t.CreatedAt, loc)
}

// DayKey formats ts as a calendar date in loc.
func DayKey(ts time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(DayLayout)
}

// DayLayout is the layout of a day bucket key.
const DayLayout = "2006-01-02"
