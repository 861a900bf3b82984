package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/repository"
	"vidtube/internal/storage"
	"vidtube/internal/validation"
)

type VideoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	media     MediaUploader
	views     ViewRecorder
	events    EventPublisher
}

type ListVideosInput struct {
	Query    string
	UserID   string
	SortBy   string
	SortType string
	Page     models.PageRequest
}

type PublishVideoInput struct {
	UserID        uuid.UUID
	Title         string `json:"title" validate:"required,max=1000"`
	Description   string `json:"description" validate:"required,max=50000"`
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoInput carries a partial update. Nil fields are left untouched.
type UpdateVideoInput struct {
	UserID        uuid.UUID
	VideoID       string
	Title         *string `json:"title" validate:"omitnil,max=1000"`
	Description   *string `json:"description" validate:"omitnil,max=50000"`
	ThumbnailPath string
}

type VideoOwnerInput struct {
	UserID  uuid.UUID
	VideoID string
}

func NewVideoService(
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	media MediaUploader,
	views ViewRecorder,
	events EventPublisher,
) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		media:     media,
		views:     views,
		events:    events,
	}
}

// ListVideos searches published videos. A userId filter must name an
// existing user.
func (s *VideoService) ListVideos(ctx context.Context, in ListVideosInput) (*models.Page[models.Video], error) {
	filter := repository.VideoFilter{
		Query:    strings.TrimSpace(in.Query),
		SortBy:   in.SortBy,
		SortType: in.SortType,
		Page:     in.Page,
	}

	if raw := strings.TrimSpace(in.UserID); raw != "" {
		ownerID, err := validation.ParseID(raw, "user")
		if err != nil {
			return nil, err
		}
		if _, err := s.userRepo.GetSummary(ctx, ownerID); err != nil {
			return nil, storeError(err, "User", "")
		}
		filter.OwnerID = &ownerID
	}

	videos, err := s.videoRepo.List(ctx, filter)
	if err != nil {
		return nil, models.NewInternalError("", err)
	}
	return videos, nil
}

// PublishVideo uploads both media files and stores the video as published.
// When the thumbnail upload fails the already uploaded video object is left
// in place and its key is logged.
func (s *VideoService) PublishVideo(ctx context.Context, in PublishVideoInput) (*models.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, models.NewValidationError("Title and description are required")
	}
	if err := validation.Struct(in, ""); err != nil {
		return nil, err
	}
	if in.VideoPath == "" {
		return nil, models.NewValidationError("Video file is required")
	}
	if in.ThumbnailPath == "" {
		return nil, models.NewValidationError("Thumbnail file is required")
	}

	uploadedVideo, err := s.media.Upload(ctx, in.VideoPath, storage.KindVideo)
	if err != nil {
		return nil, uploadError(err, storage.KindVideo)
	}

	uploadedThumb, err := s.media.Upload(ctx, in.ThumbnailPath, storage.KindThumbnail)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "thumbnail upload failed after video upload",
			slog.String("orphaned_key", uploadedVideo.Key),
			slog.String("error", err.Error()),
		)
		return nil, uploadError(err, storage.KindThumbnail)
	}

	video := &models.Video{
		Title:       in.Title,
		Description: in.Description,
		VideoFile:   uploadedVideo.URL,
		Thumbnail:   uploadedThumb.URL,
		Duration:    uploadedVideo.Duration,
		IsPublished: true,
		OwnerID:     in.UserID,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, models.NewInternalError("", err)
	}

	created, err := s.videoRepo.GetByID(ctx, video.ID)
	if err != nil {
		return nil, storeError(err, "Video", "")
	}
	publish(ctx, s.events, in.UserID, notifications.EventVideoPublished, created)
	return created, nil
}

// GetVideo returns a video visible to viewerID (uuid.Nil for anonymous
// callers). The returned view count already includes this view; the
// persisted increment happens asynchronously.
func (s *VideoService) GetVideo(ctx context.Context, rawID string, viewerID uuid.UUID) (*models.Video, error) {
	videoID, err := validation.ParseID(rawID, "video")
	if err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeError(err, "Video", "")
	}
	if !video.VisibleTo(viewerID) {
		return nil, models.NewForbiddenError("You don't have access to this video")
	}

	video.Views++
	if s.views != nil {
		s.views.Enqueue(video.ID, viewerID)
	}
	return video, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, in UpdateVideoInput) (*models.Video, error) {
	const forbidden = "You don't have permission to update this video"

	videoID, err := validation.ParseID(in.VideoID, "video")
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		in.Title = &title
		fields["title"] = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, models.NewValidationError("Description cannot be empty")
		}
		in.Description = &description
		fields["description"] = description
	}
	if len(fields) == 0 && in.ThumbnailPath == "" {
		return nil, models.NewValidationError("At least one of title, description or thumbnail is required")
	}
	if err := validation.Struct(in, ""); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeError(err, "Video", forbidden)
	}
	if !video.IsOwnedBy(in.UserID) {
		return nil, models.NewForbiddenError(forbidden)
	}

	var newThumb *storage.UploadResult
	if in.ThumbnailPath != "" {
		newThumb, err = s.media.Upload(ctx, in.ThumbnailPath, storage.KindThumbnail)
		if err != nil {
			return nil, uploadError(err, storage.KindThumbnail)
		}
		fields["thumbnail"] = newThumb.URL
	}

	if err := s.videoRepo.UpdateOwned(ctx, videoID, in.UserID, fields); err != nil {
		if newThumb != nil {
			s.discard(ctx, newThumb.Key)
		}
		return nil, storeError(err, "Video", forbidden)
	}

	updated, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeError(err, "Video", forbidden)
	}
	return updated, nil
}

func (s *VideoService) DeleteVideo(ctx context.Context, in VideoOwnerInput) error {
	const forbidden = "You don't have permission to delete this video"

	videoID, err := validation.ParseID(in.VideoID, "video")
	if err != nil {
		return err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return storeError(err, "Video", forbidden)
	}
	if !video.IsOwnedBy(in.UserID) {
		return models.NewForbiddenError(forbidden)
	}
	return storeError(s.videoRepo.DeleteOwned(ctx, videoID, in.UserID), "Video", forbidden)
}

// TogglePublishStatus flips isPublished on a video the caller owns.
func (s *VideoService) TogglePublishStatus(ctx context.Context, in VideoOwnerInput) (*models.Video, error) {
	const forbidden = "You don't have permission to update this video"

	videoID, err := validation.ParseID(in.VideoID, "video")
	if err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeError(err, "Video", forbidden)
	}
	if !video.IsOwnedBy(in.UserID) {
		return nil, models.NewForbiddenError(forbidden)
	}

	published := !video.IsPublished
	if err := s.videoRepo.UpdateOwned(ctx, videoID, in.UserID, map[string]any{"is_published": published}); err != nil {
		return nil, storeError(err, "Video", forbidden)
	}

	updated, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeError(err, "Video", forbidden)
	}
	if published {
		publish(ctx, s.events, in.UserID, notifications.EventVideoPublished, updated)
	}
	return updated, nil
}

func (s *VideoService) discard(ctx context.Context, key string) {
	if err := s.media.Delete(ctx, key); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to remove unused media object",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

func uploadError(err error, kind storage.Kind) error {
	switch {
	case errors.Is(err, storage.ErrUnsupportedMedia):
		return models.NewValidationError("Thumbnail must be a JPEG, PNG or WebP image")
	case errors.Is(err, storage.ErrEmptyFile):
		if kind == storage.KindVideo {
			return models.NewValidationError("Video file is required")
		}
		return models.NewValidationError("Thumbnail file is required")
	case kind == storage.KindVideo:
		return models.NewInternalError("Failed to upload video", err)
	default:
		return models.NewInternalError("Failed to upload thumbnail", err)
	}
}
