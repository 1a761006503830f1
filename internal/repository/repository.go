package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yukikurage/video-task-dashboard/internal/models"
)

var (
	// ErrSnapshotNotFound is returned by Load when nothing has been saved under the key yet.
	ErrSnapshotNotFound = errors.New("snapshot repository: snapshot not found")
	// ErrSnapshotCorrupt is returned by Load when the stored document cannot be decoded.
	ErrSnapshotCorrupt = errors.New("snapshot repository: snapshot is malformed")
)

// SnapshotRepository defines the interface for the durable task snapshot.
// The whole collection lives in one keyed slot and is overwritten on every save.
type SnapshotRepository interface {
	// Load reads the persisted task collection
	Load() ([]models.Task, error)

	// Save overwrites the persisted task collection
	Save(tasks []models.Task) error
}

// EncodeSnapshot serializes tasks into the stored document format.
func EncodeSnapshot(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored document. Anything that is not a JSON array
// of tasks with unique ids, a known status and progress in 0-100 yields
// ErrSnapshotCorrupt.
func DecodeSnapshot(data []byte) ([]models.Task, error) {
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if tasks == nil {
		// "null" decodes without error but is not a collection
		return nil, fmt.Errorf("%w: document is not an array", ErrSnapshotCorrupt)
	}
	if err := validateTasks(tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return tasks, nil
}

func validateTasks(tasks []models.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, task := range tasks {
		if task.ID == "" {
			return fmt.Errorf("task %d has no id", i)
		}
		if _, dup := seen[task.ID]; dup {
			return fmt.Errorf("duplicate task id %q", task.ID)
		}
		seen[task.ID] = struct{}{}

		if !task.IsPending() && !task.IsDone() {
			return fmt.Errorf("task %q has unknown status %q", task.ID, task.Status)
		}
		if task.Progress < 0 || task.Progress > 100 {
			return fmt.Errorf("task %q has progress %d outside 0-100", task.ID, task.Progress)
		}
	}
	return nil
}
