package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/repository"
	"vidtube/internal/validation"
)

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	events    EventPublisher
}

type CreateTweetInput struct {
	UserID  uuid.UUID
	Content string
}

type UpdateTweetInput struct {
	UserID  uuid.UUID
	TweetID string
	Content string
}

type DeleteTweetInput struct {
	UserID  uuid.UUID
	TweetID string
}

type tweetContent struct {
	Content string `json:"content" label:"Tweet content" validate:"required,max=5000"`
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository, events EventPublisher) *TweetService {
	return &TweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
		events:    events,
	}
}

// normalizeContent trims raw and validates the result.
func normalizeContent(raw string) (string, error) {
	in := tweetContent{Content: strings.TrimSpace(raw)}
	if err := validation.Struct(in, ""); err != nil {
		return "", err
	}
	return in.Content, nil
}

func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	tweet := &models.Tweet{Content: content, OwnerID: in.UserID}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, models.NewInternalError("", err)
	}

	created, err := s.tweetRepo.GetByID(ctx, tweet.ID)
	if err != nil {
		return nil, storeError(err, "Tweet", "")
	}
	publish(ctx, s.events, in.UserID, notifications.EventTweetCreated, created)
	return created, nil
}

// GetUserTweets pages through a user's tweets, newest first.
func (s *TweetService) GetUserTweets(ctx context.Context, rawUserID string, page models.PageRequest) (*models.Page[models.Tweet], error) {
	userID, err := validation.ParseID(rawUserID, "user")
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetSummary(ctx, userID); err != nil {
		return nil, storeError(err, "User", "")
	}

	tweets, err := s.tweetRepo.ListByOwner(ctx, userID, page)
	if err != nil {
		return nil, models.NewInternalError("", err)
	}
	return tweets, nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	const forbidden = "You don't have permission to update this tweet"

	tweetID, err := validation.ParseID(in.TweetID, "tweet")
	if err != nil {
		return nil, err
	}
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, storeError(err, "Tweet", forbidden)
	}
	if !tweet.IsOwnedBy(in.UserID) {
		return nil, models.NewForbiddenError(forbidden)
	}

	if err := s.tweetRepo.UpdateContentOwned(ctx, tweetID, in.UserID, content); err != nil {
		return nil, storeError(err, "Tweet", forbidden)
	}

	updated, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, storeError(err, "Tweet", forbidden)
	}
	return updated, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, in DeleteTweetInput) error {
	const forbidden = "You don't have permission to delete this tweet"

	tweetID, err := validation.ParseID(in.TweetID, "tweet")
	if err != nil {
		return err
	}

	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return storeError(err, "Tweet", forbidden)
	}
	if !tweet.IsOwnedBy(in.UserID) {
		return models.NewForbiddenError(forbidden)
	}
	return storeError(s.tweetRepo.DeleteOwned(ctx, tweetID, in.UserID), "Tweet", forbidden)
}
