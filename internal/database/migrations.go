package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/video-task-dashboard/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the snapshots table
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(&models.Snapshot{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}
