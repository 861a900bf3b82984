package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/testutil"
)

func TestLikeService_ToggleTwice(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	fan := testutil.CreateUser(t, f.db, "fan")
	video := testutil.CreateVideo(t, f.db, owner.ID, "clip")

	in := ToggleLikeInput{UserID: fan.ID, SubjectType: models.SubjectVideo, SubjectID: video.ID.String()}

	res, err := f.likes.ToggleLike(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), testutil.CountRows(t, f.db, &models.Like{}))

	res, err = f.likes.ToggleLike(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Zero(t, testutil.CountRows(t, f.db, &models.Like{}))

	events := f.events.all()
	require.Len(t, events, 2)
	assert.Equal(t, owner.ID, events[0].UserID)
	assert.Equal(t, notifications.EventLikeToggled, events[0].Type)
	payload, ok := events[1].Payload.(notifications.LikePayload)
	require.True(t, ok)
	assert.False(t, payload.Liked)
	assert.Equal(t, fan.ID, payload.LikedBy)
}

func TestLikeService_ToggleOwnSubjectDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	tweet := testutil.CreateTweet(t, f.db, owner.ID, "hello")

	res, err := f.likes.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: owner.ID, SubjectType: models.SubjectTweet, SubjectID: tweet.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Empty(t, f.events.all())
}

func TestLikeService_ToggleComment(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	fan := testutil.CreateUser(t, f.db, "fan")
	video := testutil.CreateVideo(t, f.db, owner.ID, "clip")
	comment := testutil.CreateComment(t, f.db, owner.ID, video.ID, "first")

	res, err := f.likes.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: fan.ID, SubjectType: models.SubjectComment, SubjectID: comment.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), testutil.CountRows(t, f.db, &models.Like{}, "subject_type = ?", models.SubjectComment))
}

func TestLikeService_ToggleErrors(t *testing.T) {
	f := newFixture(t)
	fan := testutil.CreateUser(t, f.db, "fan")

	_, err := f.likes.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: fan.ID, SubjectType: models.SubjectVideo, SubjectID: "not-an-id",
	})
	assertAppError(t, err, models.CodeInvalidArgument, "Invalid video ID")

	_, err = f.likes.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: fan.ID, SubjectType: models.SubjectTweet, SubjectID: "",
	})
	assertAppError(t, err, models.CodeInvalidArgument, "Invalid tweet ID")

	_, err = f.likes.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: fan.ID, SubjectType: models.SubjectVideo, SubjectID: uuid.NewString(),
	})
	assertAppError(t, err, models.CodeNotFound, "Video not found")

	_, err = f.likes.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: fan.ID, SubjectType: models.SubjectComment, SubjectID: uuid.NewString(),
	})
	assertAppError(t, err, models.CodeNotFound, "Comment not found")

	_, err = f.likes.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: fan.ID, SubjectType: "playlist", SubjectID: uuid.NewString(),
	})
	assertAppError(t, err, models.CodeInvalidArgument, "")

	assert.Zero(t, testutil.CountRows(t, f.db, &models.Like{}))
}

func TestToggleMessage(t *testing.T) {
	assert.Equal(t, "Video liked successfully", ToggleMessage(models.SubjectVideo, true))
	assert.Equal(t, "Video like removed", ToggleMessage(models.SubjectVideo, false))
	assert.Equal(t, "Tweet liked successfully", ToggleMessage(models.SubjectTweet, true))
	assert.Equal(t, "Comment like removed", ToggleMessage(models.SubjectComment, false))
}

func TestLikeService_GetLikedVideos(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	fan := testutil.CreateUser(t, f.db, "fan")
	first := testutil.CreateVideo(t, f.db, owner.ID, "first")
	second := testutil.CreateVideo(t, f.db, owner.ID, "second")
	testutil.CreateVideo(t, f.db, owner.ID, "not liked")

	for _, v := range []*models.Video{first, second} {
		_, err := f.likes.ToggleLike(context.Background(), ToggleLikeInput{
			UserID: fan.ID, SubjectType: models.SubjectVideo, SubjectID: v.ID.String(),
		})
		require.NoError(t, err)
	}

	page, err := f.likes.GetLikedVideos(context.Background(), fan.ID, models.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalDocs)
	require.Len(t, page.Docs, 2)
	for _, v := range page.Docs {
		require.NotNil(t, v.Owner)
		assert.Equal(t, "owner", v.Owner.Username)
	}
}
