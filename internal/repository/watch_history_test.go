package repository

import (
	"context"
	"testing"
	"time"

	"vidtube/internal/models"
	"vidtube/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchHistoryRepository_RecordUpserts(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewWatchHistoryRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	first, second := uuid.New(), uuid.New()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, userID, first, t0))
	require.NoError(t, repo.Record(ctx, userID, second, t0.Add(time.Minute)))
	require.NoError(t, repo.Record(ctx, userID, first, t0.Add(2*time.Minute)))

	assert.EqualValues(t, 2, testutil.CountRows(t, db, &models.WatchHistory{}))

	ids, err := repo.ListVideoIDs(ctx, userID, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
}
