package database

import (
	"gorm.io/gorm"
)

// SnapshotKey restricts a query to one snapshot slot
func SnapshotKey(key string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("slot_key = ?", key)
	}
}
