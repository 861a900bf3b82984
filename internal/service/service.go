// Package service holds the business rules behind each HTTP operation.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/storage"
)

// EventPublisher delivers best-effort events to a user's notification channel.
type EventPublisher interface {
	PublishUser(ctx context.Context, userID uuid.UUID, eventType string, payload any) error
}

// MediaUploader stores media files and returns their public URLs.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string, kind storage.Kind) (*storage.UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// ViewRecorder receives view events for asynchronous persistence.
type ViewRecorder interface {
	Enqueue(videoID, viewerID uuid.UUID) bool
}

// storeError maps repository errors for resource onto AppErrors.
// forbidden is used when a conditional write matched no owned row.
func storeError(err error, resource, forbidden string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource)
	case errors.Is(err, repository.ErrNotOwned):
		return models.NewForbiddenError(forbidden)
	default:
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError("", err)
	}
}

func publish(ctx context.Context, p EventPublisher, userID uuid.UUID, eventType string, payload any) {
	if p == nil || userID == uuid.Nil {
		return
	}
	if err := p.PublishUser(ctx, userID, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.String("event", eventType),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}
}
