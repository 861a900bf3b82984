package repository

import (
	"context"
	"fmt"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Toggle(ctx context.Context, userID uuid.UUID, subjectType models.SubjectType, subjectID uuid.UUID) (bool, error)
	SubjectOwner(ctx context.Context, subjectType models.SubjectType, subjectID uuid.UUID) (uuid.UUID, error)
	Count(ctx context.Context, subjectType models.SubjectType, subjectID uuid.UUID) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

var subjectTables = map[models.SubjectType]string{
	models.SubjectVideo:   "videos",
	models.SubjectComment: "comments",
	models.SubjectTweet:   "tweets",
}

// Toggle flips the like state of (userID, subject) and reports the new state.
// It deletes first; only when nothing was deleted does it insert, and the
// insert is a no-op on conflict with the unique index.
func (r *likeRepository) Toggle(ctx context.Context, userID uuid.UUID, subjectType models.SubjectType, subjectID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("liked_by_id = ? AND subject_type = ? AND subject_id = ?", userID, subjectType, subjectID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := &models.Like{
		LikedByID:   userID,
		SubjectType: subjectType,
		SubjectID:   subjectID,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return false, err
	}
	return true, nil
}

type subjectOwnerRow struct {
	OwnerID uuid.UUID
}

// SubjectOwner returns the owner of a likeable subject, or
// gorm.ErrRecordNotFound when the subject does not exist.
func (r *likeRepository) SubjectOwner(ctx context.Context, subjectType models.SubjectType, subjectID uuid.UUID) (uuid.UUID, error) {
	table, ok := subjectTables[subjectType]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown like subject %q", subjectType)
	}

	var row subjectOwnerRow
	err := r.db.WithContext(ctx).
		Table(table).
		Select("owner_id").
		Where("id = ?", subjectID).
		Take(&row).Error
	if err != nil {
		return uuid.Nil, err
	}
	return row.OwnerID, nil
}

func (r *likeRepository) Count(ctx context.Context, subjectType models.SubjectType, subjectID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Count(&n).Error
	return n, err
}
