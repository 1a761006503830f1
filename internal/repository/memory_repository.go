package repository

import (
	"sync"

	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// MemorySnapshotRepository keeps the encoded snapshot in process memory.
type MemorySnapshotRepository struct {
	mu       sync.Mutex
	document []byte
	saves    int
	saveErr  error
}

// NewMemorySnapshotRepository creates an empty in-memory repository
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{}
}

// NewMemorySnapshotRepositoryWithDocument creates a repository pre-seeded with a raw document
func NewMemorySnapshotRepositoryWithDocument(document []byte) *MemorySnapshotRepository {
	return &MemorySnapshotRepository{document: append([]byte(nil), document...)}
}

// Load decodes the stored document
func (r *MemorySnapshotRepository) Load() ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.document == nil {
		return nil, ErrSnapshotNotFound
	}
	return DecodeSnapshot(r.document)
}

// Save encodes and stores tasks
func (r *MemorySnapshotRepository) Save(tasks []models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}
	r.document = data
	r.saves++
	return nil
}

// Document returns a copy of the raw stored document
func (r *MemorySnapshotRepository) Document() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.document...)
}

// Saves returns how many successful saves have happened
func (r *MemorySnapshotRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// FailSaves makes every following Save return err. Pass nil to recover.
func (r *MemorySnapshotRepository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}
