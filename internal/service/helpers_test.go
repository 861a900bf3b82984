package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/storage"
	"vidtube/internal/testutil"
)

type publishedEvent struct {
	UserID  uuid.UUID
	Type    string
	Payload any
}

// eventRecorder is a stub for EventPublisher.
type eventRecorder struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (r *eventRecorder) PublishUser(_ context.Context, userID uuid.UUID, eventType string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{UserID: userID, Type: eventType, Payload: payload})
	return r.err
}

func (r *eventRecorder) all() []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]publishedEvent(nil), r.events...)
}

// mediaStub is a stub for MediaUploader.
type mediaStub struct {
	uploadFn func(context.Context, string, storage.Kind) (*storage.UploadResult, error)
	deleteFn func(context.Context, string) error
	deleted  []string
}

func (m *mediaStub) Upload(ctx context.Context, path string, kind storage.Kind) (*storage.UploadResult, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, path, kind)
	}
	key := string(kind) + "s/" + uuid.NewString()
	return &storage.UploadResult{URL: "https://cdn.test/" + key, Key: key, Duration: 42}, nil
}

func (m *mediaStub) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

// viewRecorderStub is a stub for ViewRecorder.
type viewRecorderStub struct {
	videoIDs  []uuid.UUID
	viewerIDs []uuid.UUID
}

func (v *viewRecorderStub) Enqueue(videoID, viewerID uuid.UUID) bool {
	v.videoIDs = append(v.videoIDs, videoID)
	v.viewerIDs = append(v.viewerIDs, viewerID)
	return true
}

type fixture struct {
	db     *gorm.DB
	events *eventRecorder
	media  *mediaStub
	views  *viewRecorderStub
	likes  *LikeService
	tweets *TweetService
	videos *VideoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	events := &eventRecorder{}
	media := &mediaStub{}
	views := &viewRecorderStub{}

	videoRepo := repository.NewVideoRepository(db)
	userRepo := repository.NewUserRepository(db, nil)

	return &fixture{
		db:     db,
		events: events,
		media:  media,
		views:  views,
		likes:  NewLikeService(repository.NewLikeRepository(db), videoRepo, events),
		tweets: NewTweetService(repository.NewTweetRepository(db), userRepo, events),
		videos: NewVideoService(videoRepo, userRepo, media, views, events),
	}
}

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}
