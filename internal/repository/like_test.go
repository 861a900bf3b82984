package repository

import (
	"context"
	"testing"

	"vidtube/internal/models"
	"vidtube/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLikeRepository_ToggleRoundTrip(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "fan")
	owner := testutil.CreateUser(t, db, "owner")
	video := testutil.CreateVideo(t, db, owner.ID, "clip")

	liked, err := repo.Toggle(ctx, user.ID, models.SubjectVideo, video.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := repo.Count(ctx, models.SubjectVideo, video.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	liked, err = repo.Toggle(ctx, user.ID, models.SubjectVideo, video.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	assert.EqualValues(t, 0, testutil.CountRows(t, db, &models.Like{}))
}

func TestLikeRepository_SubjectsAreIndependent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "fan")
	id := uuid.New()

	for _, st := range []models.SubjectType{models.SubjectVideo, models.SubjectComment, models.SubjectTweet} {
		liked, err := repo.Toggle(ctx, user.ID, st, id)
		require.NoError(t, err)
		assert.True(t, liked, st)
	}
	assert.EqualValues(t, 3, testutil.CountRows(t, db, &models.Like{}))
}

func TestLikeRepository_SubjectOwner(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	video := testutil.CreateVideo(t, db, owner.ID, "clip")
	tweet := testutil.CreateTweet(t, db, owner.ID, "hello")
	comment := testutil.CreateComment(t, db, owner.ID, video.ID, "nice")

	for st, id := range map[models.SubjectType]uuid.UUID{
		models.SubjectVideo:   video.ID,
		models.SubjectTweet:   tweet.ID,
		models.SubjectComment: comment.ID,
	} {
		got, err := repo.SubjectOwner(ctx, st, id)
		require.NoError(t, err, st)
		assert.Equal(t, owner.ID, got, st)
	}

	_, err := repo.SubjectOwner(ctx, models.SubjectVideo, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.SubjectOwner(ctx, models.SubjectType("playlist"), uuid.New())
	assert.Error(t, err)
}
