package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TweetMaxLength is the maximum tweet length in runes after trimming.
const TweetMaxLength = 280

// Tweet is a short text post.
type Tweet struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"_id"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	OwnerID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Owner     *UserSummary `gorm:"foreignKey:OwnerID" json:"owner"`
	CreatedAt time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (t *Tweet) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy reports whether userID owns the tweet.
func (t *Tweet) IsOwnedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}
