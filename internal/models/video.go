package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video is an uploaded video with its media URLs and view counter.
type Video struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	VideoFile   string       `gorm:"not null" json:"videoFile"`
	Thumbnail   string       `gorm:"not null" json:"thumbnail"`
	Duration    float64      `gorm:"not null;default:0" json:"duration"`
	Views       int64        `gorm:"not null;default:0" json:"views"`
	IsPublished bool         `gorm:"not null;index" json:"isPublished"`
	OwnerID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Owner       *UserSummary `gorm:"foreignKey:OwnerID" json:"owner"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (v *Video) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy reports whether userID owns the video.
func (v *Video) IsOwnedBy(userID uuid.UUID) bool {
	return v.OwnerID == userID
}

// VisibleTo reports whether userID may read the video. Unpublished videos are
// only visible to their owner.
func (v *Video) VisibleTo(userID uuid.UUID) bool {
	return v.IsPublished || (userID != uuid.Nil && v.IsOwnedBy(userID))
}
