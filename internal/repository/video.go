package repository

import (
	"context"
	"strings"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoFilter describes a video listing request.
type VideoFilter struct {
	Query    string
	OwnerID  *uuid.UUID
	SortBy   string
	SortType string
	Page     models.PageRequest
}

// VideoRepository defines persistence operations for videos.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	List(ctx context.Context, filter VideoFilter) (*models.Page[models.Video], error)
	ListLikedBy(ctx context.Context, userID uuid.UUID, req models.PageRequest) (*models.Page[models.Video], error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, fields map[string]any) error
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	err := withOwnerSummary(r.db.WithContext(ctx)).
		First(&video, "videos.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// List returns published videos matching filter, newest first unless a
// whitelisted sort is requested. Ties are broken by id.
func (r *videoRepository) List(ctx context.Context, filter VideoFilter) (*models.Page[models.Video], error) {
	q := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("videos.is_published = ?", true)

	if query := strings.TrimSpace(filter.Query); query != "" {
		pattern := containsPattern(query)
		q = q.Where(`LOWER(videos.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(videos.description) LIKE LOWER(?) ESCAPE '\'`, pattern, pattern)
	}
	if filter.OwnerID != nil {
		q = q.Where("videos.owner_id = ?", *filter.OwnerID)
	}

	column, desc := NormalizeVideoSort(filter.SortBy, filter.SortType)
	base := q.Session(&gorm.Session{})

	return findPage[models.Video](base, filter.Page, func(db *gorm.DB) *gorm.DB {
		return withOwnerSummary(db).
			Order(orderBy("videos", column, desc)).
			Order(orderBy("videos", "id", desc))
	})
}

// ListLikedBy returns the videos userID liked, most recent like first. Likes
// whose video no longer exists are dropped by the join; unpublished videos
// are only included for their owner.
func (r *videoRepository) ListLikedBy(ctx context.Context, userID uuid.UUID, req models.PageRequest) (*models.Page[models.Video], error) {
	base := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Joins("JOIN likes ON likes.subject_id = videos.id AND likes.subject_type = ?", models.SubjectVideo).
		Where("likes.liked_by_id = ?", userID).
		Where("videos.is_published = ? OR videos.owner_id = ?", true, userID).
		Session(&gorm.Session{})

	return findPage[models.Video](base, req, func(db *gorm.DB) *gorm.DB {
		return withOwnerSummary(db).
			Select("videos.*").
			Order("likes.created_at DESC").
			Order("videos.id DESC")
	})
}

// UpdateOwned applies fields to the video only while ownerID still owns it.
func (r *videoRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotOwned
	}
	return nil
}

func (r *videoRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Video{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotOwned
	}
	return nil
}

// IncrementViews bumps the counter in place, bypassing hooks and updated_at.
func (r *videoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
