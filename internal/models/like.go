package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectType discriminates what a Like points at.
type SubjectType string

const (
	SubjectVideo   SubjectType = "video"
	SubjectComment SubjectType = "comment"
	SubjectTweet   SubjectType = "tweet"
)

// Valid reports whether s is a known subject type.
func (s SubjectType) Valid() bool {
	switch s {
	case SubjectVideo, SubjectComment, SubjectTweet:
		return true
	}
	return false
}

// Label is the capitalised name used in client messages ("Video", "Comment", "Tweet").
func (s SubjectType) Label() string {
	switch s {
	case SubjectVideo:
		return "Video"
	case SubjectComment:
		return "Comment"
	case SubjectTweet:
		return "Tweet"
	}
	return string(s)
}

// Like records that a user liked one subject.
// The combination of LikedByID, SubjectType and SubjectID must be unique.
type Like struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"_id"`
	LikedByID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_like_subject,priority:1" json:"likedBy"`
	SubjectType SubjectType `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_subject,priority:2;index:idx_like_target,priority:1" json:"subjectType"`
	SubjectID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_like_subject,priority:3;index:idx_like_target,priority:2" json:"subjectId"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
