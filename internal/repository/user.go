package repository

import (
	"context"
	"strings"

	"vidtube/internal/cache"
	"vidtube/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*models.UserSummary, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit int) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewUserRepository returns a new UserRepository implementation. rdb may be nil.
func NewUserRepository(db *gorm.DB, rdb *redis.Client) UserRepository {
	return &userRepository{db: db, rdb: rdb}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetSummary returns the public projection, cached in Redis.
func (r *userRepository) GetSummary(ctx context.Context, id uuid.UUID) (*models.UserSummary, error) {
	var summary models.UserSummary
	err := cache.Aside(ctx, r.rdb, cache.UserSummaryKey(id), &summary, cache.UserSummaryTTL, func() error {
		return r.db.WithContext(ctx).
			Select(models.SummaryColumns).
			Take(&summary, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return err
	}
	return cache.Invalidate(ctx, r.rdb, cache.UserSummaryKey(user.ID))
}

func (r *userRepository) List(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505, SQLite "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
