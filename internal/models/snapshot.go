package models

import "time"

// Snapshot is a single keyed slot holding a serialized task collection.
type Snapshot struct {
	Key       string    `gorm:"column:slot_key;primarykey;type:varchar(191)" json:"key"`
	Document  string    `gorm:"type:text;not null" json:"document"`
	UpdatedAt time.Time `json:"updated_at"`
}
