package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a comment on a video. Only existence and ownership are read here.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index" json:"video"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
