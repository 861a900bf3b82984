package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/observability"
	"vidtube/internal/repository"
	"vidtube/internal/validation"
)

type LikeService struct {
	likeRepo  repository.LikeRepository
	videoRepo repository.VideoRepository
	events    EventPublisher
}

// ToggleLikeInput identifies the subject being liked by UserID.
type ToggleLikeInput struct {
	UserID      uuid.UUID
	SubjectType models.SubjectType
	SubjectID   string
}

// ToggleLikeResult is the state after a toggle.
type ToggleLikeResult struct {
	Liked bool `json:"liked"`
}

func NewLikeService(likeRepo repository.LikeRepository, videoRepo repository.VideoRepository, events EventPublisher) *LikeService {
	return &LikeService{
		likeRepo:  likeRepo,
		videoRepo: videoRepo,
		events:    events,
	}
}

// ToggleLike flips the caller's like on a subject. Exactly one store write
// happens: a delete when a like existed, an insert otherwise.
func (s *LikeService) ToggleLike(ctx context.Context, in ToggleLikeInput) (*ToggleLikeResult, error) {
	if !in.SubjectType.Valid() {
		return nil, models.NewValidationError("Invalid like subject")
	}
	label := in.SubjectType.Label()

	subjectID, err := validation.ParseID(in.SubjectID, strings.ToLower(label))
	if err != nil {
		return nil, err
	}

	ownerID, err := s.likeRepo.SubjectOwner(ctx, in.SubjectType, subjectID)
	if err != nil {
		return nil, storeError(err, label, "")
	}

	liked, err := s.likeRepo.Toggle(ctx, in.UserID, in.SubjectType, subjectID)
	if err != nil {
		return nil, models.NewInternalError("", err)
	}
	observability.LikeToggles.WithLabelValues(string(in.SubjectType), strconv.FormatBool(liked)).Inc()

	if ownerID != in.UserID {
		publish(ctx, s.events, ownerID, notifications.EventLikeToggled, notifications.LikePayload{
			SubjectType: string(in.SubjectType),
			SubjectID:   subjectID,
			LikedBy:     in.UserID,
			Liked:       liked,
		})
	}
	return &ToggleLikeResult{Liked: liked}, nil
}

// ToggleMessage is the response message for a toggle on subjectType.
func ToggleMessage(subjectType models.SubjectType, liked bool) string {
	if liked {
		return subjectType.Label() + " liked successfully"
	}
	return subjectType.Label() + " like removed"
}

// GetLikedVideos pages through the videos userID liked, newest like first.
func (s *LikeService) GetLikedVideos(ctx context.Context, userID uuid.UUID, page models.PageRequest) (*models.Page[models.Video], error) {
	videos, err := s.videoRepo.ListLikedBy(ctx, userID, page)
	if err != nil {
		return nil, models.NewInternalError("", err)
	}
	return videos, nil
}
