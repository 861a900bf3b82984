package repository

import (
	"context"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, req models.PageRequest) (*models.Page[models.Tweet], error)
	UpdateContentOwned(ctx context.Context, id, ownerID uuid.UUID, content string) error
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(tweet).Error
}

func (r *tweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := withOwnerSummary(r.db.WithContext(ctx)).First(&tweet, "tweets.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, req models.PageRequest) (*models.Page[models.Tweet], error) {
	base := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("tweets.owner_id = ?", ownerID).
		Session(&gorm.Session{})

	return findPage[models.Tweet](base, req, func(db *gorm.DB) *gorm.DB {
		return withOwnerSummary(db).
			Order(orderBy("tweets", "created_at", true)).
			Order(orderBy("tweets", "id", true))
	})
}

func (r *tweetRepository) UpdateContentOwned(ctx context.Context, id, ownerID uuid.UUID, content string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotOwned
	}
	return nil
}

func (r *tweetRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Tweet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotOwned
	}
	return nil
}
