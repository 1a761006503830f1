package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/repository"
)

var viewDay = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func viewTask(id string, mutate func(*models.Task)) models.Task {
	task := models.Task{
		ID:        id,
		Title:     id,
		Deadline:  viewDay.Add(20 * time.Hour),
		Priority:  models.PriorityMedium,
		Status:    models.TaskStatusPending,
		CreatedAt: viewDay.Add(9 * time.Hour),
	}
	if mutate != nil {
		mutate(&task)
	}
	return task
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func markDone(t *models.Task) {
	done := t.CreatedAt.Add(time.Hour)
	t.Status = models.TaskStatusDone
	t.CompletionTimestamp = &done
	t.Progress = 100
}

func TestSelectDay_FiltersByCreationDay(t *testing.T) {
	tasks := []models.Task{
		viewTask("today", nil),
		viewTask("yesterday", func(t *models.Task) { t.CreatedAt = viewDay.Add(-time.Hour) }),
		viewTask("tomorrow", func(t *models.Task) { t.CreatedAt = viewDay.Add(24 * time.Hour) }),
		viewTask("late-today", func(t *models.Task) { t.CreatedAt = viewDay.Add(23*time.Hour + 59*time.Minute) }),
	}

	assert.Equal(t, []string{"today", "late-today"}, ids(SelectDay(tasks, "2025-06-02", time.UTC, nil)))
	assert.Equal(t, []string{"yesterday"}, ids(SelectDay(tasks, "2025-06-01", time.UTC, nil)))
	assert.Equal(t, []string{"tomorrow"}, ids(SelectDay(tasks, "2025-06-03", time.UTC, nil)))
	assert.Empty(t, SelectDay(tasks, "2025-06-04", time.UTC, nil))
}

func TestSelectDay_UsesLocalCalendarDate(t *testing.T) {
	newYork := time.FixedZone("EST", -5*60*60)
	task := viewTask("evening", func(t *models.Task) {
		// 02:00 UTC on June 3 is still June 2 in New York
		t.CreatedAt = time.Date(2025, 6, 3, 2, 0, 0, 0, time.UTC)
	})

	assert.Len(t, SelectDay([]models.Task{task}, "2025-06-02", newYork, nil), 1)
	assert.Empty(t, SelectDay([]models.Task{task}, "2025-06-03", newYork, nil))
}

func TestSelectDay_DoesNotModifyInput(t *testing.T) {
	tasks := []models.Task{
		viewTask("b", markDone),
		viewTask("a", nil),
	}

	SelectDay(tasks, "2025-06-02", time.UTC, nil)

	assert.Equal(t, []string{"b", "a"}, ids(tasks))
}

func TestSortForDisplay_KeyOrder(t *testing.T) {
	tasks := []models.Task{
		viewTask("done-urgent", func(t *models.Task) { markDone(t); t.IsUrgent = true; t.Priority = models.PriorityUrgent }),
		viewTask("low-early", func(t *models.Task) { t.Priority = models.PriorityLow; t.Deadline = viewDay.Add(10 * time.Hour) }),
		viewTask("high-late", func(t *models.Task) { t.Priority = models.PriorityHigh; t.Deadline = viewDay.Add(22 * time.Hour) }),
		viewTask("high-early", func(t *models.Task) { t.Priority = models.PriorityHigh; t.Deadline = viewDay.Add(11 * time.Hour) }),
		viewTask("urgent-flag-low", func(t *models.Task) { t.IsUrgent = true; t.Priority = models.PriorityLow }),
		viewTask("priority-urgent", func(t *models.Task) { t.Priority = models.PriorityUrgent }),
	}

	SortForDisplay(tasks, nil)

	assert.Equal(t, []string{
		"urgent-flag-low",
		"priority-urgent",
		"high-early",
		"high-late",
		"low-early",
		"done-urgent",
	}, ids(tasks))
}

func TestSortForDisplay_OverdueBeforeNotOverdue(t *testing.T) {
	tasks := []models.Task{
		viewTask("on-time", func(t *models.Task) { t.Priority = models.PriorityHigh }),
		viewTask("overdue", func(t *models.Task) { t.Priority = models.PriorityLow }),
	}
	overdue := func(task models.Task) bool { return task.ID == "overdue" }

	SortForDisplay(tasks, overdue)

	assert.Equal(t, []string{"overdue", "on-time"}, ids(tasks))
}

func TestWindowOverdue(t *testing.T) {
	now := viewDay.Add(19 * time.Hour)
	overdue := WindowOverdue(IsOverdueWindow(now, 18))

	assert.True(t, overdue(viewTask("pending", nil)))
	assert.False(t, overdue(viewTask("done", markDone)))
	assert.False(t, WindowOverdue(false)(viewTask("pending", nil)))
}

func TestSortForDisplay_OverdueWindowOrdersPendingFirst(t *testing.T) {
	tasks := []models.Task{
		viewTask("done-high", func(t *models.Task) { t.Priority = models.PriorityHigh; markDone(t) }),
		viewTask("pending-low", func(t *models.Task) { t.Priority = models.PriorityLow }),
	}

	SortForDisplay(tasks, WindowOverdue(true))

	assert.Equal(t, []string{"pending-low", "done-high"}, ids(tasks))
}

func TestSortForDisplay_UrgentOutranksOverdue(t *testing.T) {
	tasks := []models.Task{
		viewTask("overdue", nil),
		viewTask("urgent", func(t *models.Task) { t.IsUrgent = true }),
	}

	SortForDisplay(tasks, WindowOverdue(true))

	assert.Equal(t, []string{"urgent", "overdue"}, ids(tasks))
}

func TestSortForDisplay_IsStable(t *testing.T) {
	tasks := []models.Task{
		viewTask("first", nil),
		viewTask("second", nil),
		viewTask("third", nil),
	}

	SortForDisplay(tasks, WindowOverdue(true))

	assert.Equal(t, []string{"first", "second", "third"}, ids(tasks))
}

func TestCompareForDisplay_PairwiseProperty(t *testing.T) {
	variants := []models.Task{}
	for _, done := range []bool{false, true} {
		for _, urgent := range []bool{false, true} {
			for _, p := range models.Priorities {
				for _, hour := range []time.Duration{10, 20} {
					variants = append(variants, viewTask("v", func(t *models.Task) {
						t.IsUrgent = urgent
						t.Priority = p
						t.Deadline = viewDay.Add(hour * time.Hour)
						if done {
							markDone(t)
						}
					}))
				}
			}
		}
	}

	for _, overdue := range []OverdueFunc{nil, WindowOverdue(true)} {
		for _, a := range variants {
			for _, b := range variants {
				got := CompareForDisplay(a, b, overdue)
				assert.Equal(t, got > 0, CompareForDisplay(b, a, overdue) < 0, "antisymmetry")

				switch {
				case a.IsDone() && !b.IsDone():
					assert.Positive(t, got)
				case a.IsDone() == b.IsDone() && a.IsUrgent && !b.IsUrgent:
					assert.Negative(t, got)
				case a.IsDone() == b.IsDone() && a.IsUrgent == b.IsUrgent && a.Priority.Rank() > b.Priority.Rank():
					assert.Negative(t, got)
				case a.IsDone() == b.IsDone() && a.IsUrgent == b.IsUrgent && a.Priority == b.Priority && a.Deadline.Before(b.Deadline):
					assert.Negative(t, got)
				}
			}
		}
	}
}

func TestIsOverdueWindow(t *testing.T) {
	assert.False(t, IsOverdueWindow(viewDay.Add(17*time.Hour+59*time.Minute), 18))
	assert.True(t, IsOverdueWindow(viewDay.Add(18*time.Hour), 18))
	assert.True(t, IsOverdueWindow(viewDay.Add(23*time.Hour), 18))
}

type stubTrigger struct {
	generation uint64
}

func (s *stubTrigger) Generation() uint64 {
	return s.generation
}

func TestViewService_RecomputesOnTrigger(t *testing.T) {
	clock := &fakeClock{now: viewDay.Add(9 * time.Hour)}
	store := NewTaskService(repository.NewMemorySnapshotRepository(), WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	trigger := &stubTrigger{}
	views := NewViewService(store, trigger, 18, time.UTC, clock.Now)

	store.Add(CreateTaskInput{Title: "high", Priority: models.PriorityHigh, Deadline: viewDay.Add(20 * time.Hour)})
	store.Add(CreateTaskInput{Title: "low", Priority: models.PriorityLow, Deadline: viewDay.Add(19 * time.Hour)})

	morning := views.ForDay("2025-06-02")
	assert.False(t, morning.OverdueWindow)
	assert.Len(t, morning.Tasks, 2)

	// Time passes the cutoff but nothing else changes: the cached view stays.
	clock.now = viewDay.Add(19 * time.Hour)
	assert.False(t, views.ForDay("2025-06-02").OverdueWindow)

	trigger.generation++
	evening := views.ForDay("2025-06-02")
	assert.True(t, evening.OverdueWindow)
	assert.Equal(t, uint64(1), evening.Generation)
}

func TestViewService_CacheStaysBounded(t *testing.T) {
	clock := &fakeClock{now: viewDay.Add(9 * time.Hour)}
	store := NewTaskService(repository.NewMemorySnapshotRepository(), WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	views := NewViewService(store, nil, 18, time.UTC, clock.Now)
	store.Add(CreateTaskInput{Title: "today", Deadline: viewDay.Add(12 * time.Hour)})

	for i := 0; i < 2800; i++ {
		views.ForDay(models.DayKey(viewDay.AddDate(0, 0, i), time.UTC))
	}

	assert.LessOrEqual(t, len(views.cache), constants.MaxCachedDayViews)
	assert.Len(t, views.ForDay("2025-06-02").Tasks, 1)
	assert.Empty(t, views.ForDay("2031-01-01").Tasks)
}

func TestViewService_RecomputesOnMutation(t *testing.T) {
	clock := &fakeClock{now: viewDay.Add(9 * time.Hour)}
	store := NewTaskService(repository.NewMemorySnapshotRepository(), WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	views := NewViewService(store, nil, 18, time.UTC, clock.Now)

	first := store.Add(CreateTaskInput{Title: "first", Priority: models.PriorityLow})
	store.Add(CreateTaskInput{Title: "second", Priority: models.PriorityLow})
	assert.Equal(t, []string{"task-1", "task-2"}, ids(views.ForDay("2025-06-02").Tasks))

	store.ToggleUrgent("task-2")
	assert.Equal(t, []string{"task-2", "task-1"}, ids(views.ForDay("2025-06-02").Tasks))

	store.MarkDone("task-2")
	view := views.ForDay("2025-06-02")
	assert.Equal(t, []string{first.ID, "task-2"}, ids(view.Tasks))
	assert.Equal(t, "2025-06-02", views.Today())
}
