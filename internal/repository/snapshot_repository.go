package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/video-task-dashboard/internal/database"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSnapshotRepository is a GORM implementation of SnapshotRepository
type GormSnapshotRepository struct {
	db  *gorm.DB
	key string
}

// NewSnapshotRepository creates a new SnapshotRepository backed by the snapshots table
func NewSnapshotRepository(db *gorm.DB, key string) SnapshotRepository {
	return &GormSnapshotRepository{db: db, key: key}
}

// Load reads the snapshot row for the configured key
func (r *GormSnapshotRepository) Load() ([]models.Task, error) {
	var snapshot models.Snapshot
	if err := r.db.Scopes(database.SnapshotKey(r.key)).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return DecodeSnapshot([]byte(snapshot.Document))
}

// Save upserts the snapshot row for the configured key
func (r *GormSnapshotRepository) Save(tasks []models.Task) error {
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}

	snapshot := models.Snapshot{
		Key:      r.key,
		Document: string(data),
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(&snapshot).Error
}
