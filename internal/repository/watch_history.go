package repository

import (
	"context"
	"time"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchHistoryRepository records which videos a user watched.
type WatchHistoryRepository interface {
	Record(ctx context.Context, userID, videoID uuid.UUID, at time.Time) error
	ListVideoIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)
}

type watchHistoryRepository struct {
	db *gorm.DB
}

// NewWatchHistoryRepository creates a new watch history repository
func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

// Record upserts the (user, video) entry, moving watched_at forward.
func (r *watchHistoryRepository) Record(ctx context.Context, userID, videoID uuid.UUID, at time.Time) error {
	entry := &models.WatchHistory{UserID: userID, VideoID: videoID, WatchedAt: at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(entry).Error
}

// ListVideoIDs returns watched video ids, most recent first.
func (r *watchHistoryRepository) ListVideoIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.WatchHistory{}).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Pluck("video_id", &ids).Error
	return ids, err
}
