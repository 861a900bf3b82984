// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account entity. Media and social code only reference it.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName   string    `gorm:"not null" json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	Password   string    `gorm:"not null" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Summary projects the public owner fields.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

// UserSummary is the public projection of a User attached to videos and tweets.
type UserSummary struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

// TableName maps the projection onto the users table.
func (UserSummary) TableName() string {
	return "users"
}

// SummaryColumns are the columns selected when preloading an owner.
var SummaryColumns = []string{"id", "username", "full_name", "avatar"}
