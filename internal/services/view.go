package services

import (
	"slices"
	"sync"
	"time"

	"github.com/yukikurage/video-task-dashboard/internal/constants"
	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// IsOverdueWindow reports whether now is at or past the cutoff hour.
func IsOverdueWindow(now time.Time, cutoffHour int) bool {
	return now.Hour() >= cutoffHour
}

// IsOverdue reports whether a task counts as overdue while the overdue
// window is open. Only pending tasks can be overdue.
func IsOverdue(task models.Task, overdueWindow bool) bool {
	return overdueWindow && task.IsPending()
}

// OverdueFunc reports whether a task is overdue at evaluation time. It must
// not read the clock itself.
type OverdueFunc func(models.Task) bool

// WindowOverdue returns the overdue rule for a fixed evaluation instant:
// every pending task is overdue once the cutoff hour has passed.
func WindowOverdue(overdueWindow bool) OverdueFunc {
	return func(task models.Task) bool {
		return IsOverdue(task, overdueWindow)
	}
}

// SelectDay returns the tasks created on day (YYYY-MM-DD in loc), ordered for
// display. The input slice is not modified.
func SelectDay(tasks []models.Task, day string, loc *time.Location, overdue OverdueFunc) []models.Task {
	selected := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.DayKey(loc) == day {
			selected = append(selected, task)
		}
	}

	SortForDisplay(selected, overdue)
	return selected
}

// SortForDisplay stable-sorts tasks: done last, then urgent first, then
// overdue first, then higher priority, then earlier deadline.
func SortForDisplay(tasks []models.Task, overdue OverdueFunc) {
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		return CompareForDisplay(a, b, overdue)
	})
}

// CompareForDisplay orders two tasks for the day view. A nil overdue rule
// treats no task as overdue.
func CompareForDisplay(a, b models.Task, overdue OverdueFunc) int {
	if a.IsDone() != b.IsDone() {
		if a.IsDone() {
			return 1
		}
		return -1
	}

	if a.IsUrgent != b.IsUrgent {
		if a.IsUrgent {
			return -1
		}
		return 1
	}

	if overdue != nil {
		if aOverdue, bOverdue := overdue(a), overdue(b); aOverdue != bOverdue {
			if aOverdue {
				return -1
			}
			return 1
		}
	}

	if rankA, rankB := a.Priority.Rank(), b.Priority.Rank(); rankA != rankB {
		return rankB - rankA
	}

	return a.Deadline.Compare(b.Deadline)
}

// OverdueTrigger exposes a counter that moves when the overdue state of the
// day view may have changed without any task mutation.
type OverdueTrigger interface {
	Generation() uint64
}

// DayView is the derived, ordered task list for one day.
type DayView struct {
	Day           string
	Tasks         []models.Task
	OverdueWindow bool
	Revision      uint64
	Generation    uint64
	ComputedAt    time.Time
}

type viewKey struct {
	day        string
	revision   uint64
	generation uint64
}

// ViewService derives day views and reuses them until the store, the day, or
// the overdue trigger changes.
type ViewService struct {
	tasks      *TaskService
	trigger    OverdueTrigger
	cutoffHour int
	loc        *time.Location
	now        Clock

	mu    sync.Mutex
	cache map[viewKey]DayView
}

// NewViewService creates a new ViewService. trigger may be nil.
func NewViewService(tasks *TaskService, trigger OverdueTrigger, cutoffHour int, loc *time.Location, now Clock) *ViewService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &ViewService{
		tasks:      tasks,
		trigger:    trigger,
		cutoffHour: cutoffHour,
		loc:        loc,
		now:        now,
		cache:      make(map[viewKey]DayView),
	}
}

// Location returns the time zone used for day buckets
func (s *ViewService) Location() *time.Location {
	return s.loc
}

// Today returns the current day key
func (s *ViewService) Today() string {
	return models.DayKey(s.now(), s.loc)
}

// OverdueWindowOpen reports whether the cutoff hour has passed right now
func (s *ViewService) OverdueWindowOpen() bool {
	return IsOverdueWindow(s.now().In(s.loc), s.cutoffHour)
}

// ForDay returns the view for day, recomputing it only when its inputs changed.
func (s *ViewService) ForDay(day string) DayView {
	tasks, revision := s.tasks.TasksWithRevision()
	var generation uint64
	if s.trigger != nil {
		generation = s.trigger.Generation()
	}
	key := viewKey{day: day, revision: revision, generation: generation}

	s.mu.Lock()
	defer s.mu.Unlock()

	if view, ok := s.cache[key]; ok {
		return view
	}

	now := s.now().In(s.loc)
	overdueWindow := IsOverdueWindow(now, s.cutoffHour)
	view := DayView{
		Day:           day,
		Tasks:         SelectDay(tasks, day, s.loc, WindowOverdue(overdueWindow)),
		OverdueWindow: overdueWindow,
		Revision:      revision,
		Generation:    generation,
		ComputedAt:    now,
	}

	for k := range s.cache {
		if k.revision != revision || k.generation != generation {
			delete(s.cache, k)
		}
	}
	// days come from clients, so hold only a few of them
	for k := range s.cache {
		if len(s.cache) < constants.MaxCachedDayViews {
			break
		}
		delete(s.cache, k)
	}
	s.cache[key] = view

	return view
}
