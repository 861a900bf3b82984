package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchHistory is one entry in a user's watch history. Re-watching a video
// moves the entry forward instead of adding a new row.
type WatchHistory struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user"`
	VideoID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"video"`
	WatchedAt time.Time `gorm:"not null;index" json:"watchedAt"`
}

// TableName keeps the plural snake-case name stable.
func (WatchHistory) TableName() string {
	return "watch_histories"
}
