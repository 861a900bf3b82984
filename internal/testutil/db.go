// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"testing"
	"time"

	"vidtube/internal/database"
	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a migrated in-memory SQLite database private to t.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// Every new connection would see an empty :memory: database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user named name.
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{
		Username: name,
		Email:    name + "@example.com",
		FullName: "User " + name,
		Avatar:   "https://cdn.example.com/avatars/" + name + ".png",
		Password: "hash",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// VideoOption customises CreateVideo.
type VideoOption func(v *models.Video)

// Unpublished marks the fixture video as unpublished.
func Unpublished() VideoOption {
	return func(v *models.Video) { v.IsPublished = false }
}

// WithViews sets the starting view count.
func WithViews(n int64) VideoOption {
	return func(v *models.Video) { v.Views = n }
}

// WithDescription overrides the description.
func WithDescription(d string) VideoOption {
	return func(v *models.Video) { v.Description = d }
}

// WithCreatedAt pins the creation time, for ordering tests.
func WithCreatedAt(ts time.Time) VideoOption {
	return func(v *models.Video) { v.CreatedAt = ts }
}

// CreateVideo inserts a published video owned by ownerID.
func CreateVideo(t testing.TB, db *gorm.DB, ownerID uuid.UUID, title string, opts ...VideoOption) *models.Video {
	t.Helper()
	v := &models.Video{
		Title:       title,
		Description: "About " + title,
		VideoFile:   "https://cdn.example.com/videos/" + title + ".mp4",
		Thumbnail:   "https://cdn.example.com/thumbs/" + title + ".webp",
		Duration:    12.5,
		IsPublished: true,
		OwnerID:     ownerID,
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := db.Omit("Owner").Create(v).Error; err != nil {
		t.Fatalf("create video: %v", err)
	}
	return v
}

// CreateTweet inserts a tweet owned by ownerID.
func CreateTweet(t testing.TB, db *gorm.DB, ownerID uuid.UUID, content string) *models.Tweet {
	t.Helper()
	tw := &models.Tweet{Content: content, OwnerID: ownerID}
	if err := db.Omit("Owner").Create(tw).Error; err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	return tw
}

// CreateComment inserts a comment on videoID.
func CreateComment(t testing.TB, db *gorm.DB, ownerID, videoID uuid.UUID, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: content, OwnerID: ownerID, VideoID: videoID}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

// CountRows counts rows of model matching the optional where clause.
func CountRows(t testing.TB, db *gorm.DB, model any, where ...any) int64 {
	t.Helper()
	q := db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}
