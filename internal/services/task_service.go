package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/repository"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// TaskService owns the canonical task collection and mirrors it to the
// snapshot repository after every mutation.
type TaskService struct {
	mu       sync.Mutex
	repo     repository.SnapshotRepository
	tasks    []models.Task
	revision uint64
	now      Clock
	newID    func() string
}

// TaskServiceOption customizes a TaskService
type TaskServiceOption func(*TaskService)

// WithClock replaces the wall clock used for createdAt and completion timestamps
func WithClock(clock Clock) TaskServiceOption {
	return func(s *TaskService) {
		s.now = clock
	}
}

// WithIDGenerator replaces the UUID generator used for new tasks
func WithIDGenerator(fn func() string) TaskServiceOption {
	return func(s *TaskService) {
		s.newID = fn
	}
}

// NewTaskService creates a new TaskService with an empty collection
func NewTaskService(repo repository.SnapshotRepository, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		repo:  repo,
		tasks: []models.Task{},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTaskInput represents the caller-supplied fields of a new task
type CreateTaskInput struct {
	Title     string
	EditorID  string
	Deadline  time.Time
	FileLink  string
	Notes     string
	VideoType models.VideoType
	Priority  models.Priority
}

// UpdateTaskInput represents a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title     *string
	EditorID  *string
	Deadline  *time.Time
	FileLink  *string
	Notes     *string
	VideoType *models.VideoType
	Priority  *models.Priority
	IsUrgent  *bool
	Progress  *int
}

// Load replaces the in-memory collection with the persisted snapshot.
// A missing or unreadable snapshot leaves an empty collection.
func (s *TaskService) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.Load()
	switch {
	case err == nil:
		s.tasks = tasks
	case errors.Is(err, repository.ErrSnapshotNotFound):
		s.tasks = []models.Task{}
	case errors.Is(err, repository.ErrSnapshotCorrupt):
		log.Printf("[store] discarding malformed snapshot: %v", err)
		s.tasks = []models.Task{}
	default:
		log.Printf("[store] failed to load snapshot, starting empty: %v", err)
		s.tasks = []models.Task{}
	}
	s.revision++
}

// Add appends a new pending task. The store performs no validation.
func (s *TaskService) Add(input CreateTaskInput) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:             s.newID(),
		Title:          input.Title,
		EditorID:       input.EditorID,
		Deadline:       input.Deadline,
		FileLink:       input.FileLink,
		Notes:          input.Notes,
		VideoType:      input.VideoType,
		Priority:       input.Priority,
		Status:         models.TaskStatusPending,
		IsUrgent:       false,
		Progress:       0,
		ApprovalStatus: models.ApprovalStatusPending,
		CreatedAt:      s.now(),
	}

	s.tasks = append(s.tasks, task)
	s.commit()

	return task
}

// Update merges the given fields into the task. It reports false when no
// task has the ID.
func (s *TaskService) Update(id string, input UpdateTaskInput) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	task := &s.tasks[i]

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.EditorID != nil {
		task.EditorID = *input.EditorID
	}
	if input.Deadline != nil {
		task.Deadline = *input.Deadline
	}
	if input.FileLink != nil {
		task.FileLink = *input.FileLink
	}
	if input.Notes != nil {
		task.Notes = *input.Notes
	}
	if input.VideoType != nil {
		task.VideoType = *input.VideoType
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	// Done tasks keep their urgent flag and progress at 100
	if input.IsUrgent != nil && task.IsPending() {
		task.IsUrgent = *input.IsUrgent
	}
	if input.Progress != nil && task.IsPending() {
		task.Progress = clampProgress(*input.Progress)
	}

	updated := *task
	s.commit()

	return updated, true
}

// MarkDone completes a pending task. Completing an already done task keeps
// its original completion timestamp.
func (s *TaskService) MarkDone(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	task := &s.tasks[i]
	if task.IsDone() {
		return *task, true
	}

	completedAt := s.now()
	task.Status = models.TaskStatusDone
	task.CompletionTimestamp = &completedAt
	task.Progress = 100

	updated := *task
	s.commit()

	return updated, true
}

// ToggleUrgent flips the urgent flag of a pending task.
func (s *TaskService) ToggleUrgent(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	task := &s.tasks[i]
	if task.IsDone() {
		return *task, true
	}

	task.IsUrgent = !task.IsUrgent

	updated := *task
	s.commit()

	return updated, true
}

// Get returns a copy of the task with the given ID
func (s *TaskService) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns a copy of the collection in insertion order
func (s *TaskService) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Revision increases every time the collection changes
func (s *TaskService) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.revision
}

// TasksWithRevision returns the collection together with its revision
func (s *TaskService) TasksWithRevision() ([]models.Task, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(), s.revision
}

// commit bumps the revision and writes the collection through to the
// repository. Must be called with mu held.
func (s *TaskService) commit() {
	s.revision++
	if err := s.repo.Save(s.tasks); err != nil {
		log.Printf("[store] failed to persist %d tasks: %v", len(s.tasks), err)
	}
}

func (s *TaskService) snapshot() []models.Task {
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

func (s *TaskService) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
