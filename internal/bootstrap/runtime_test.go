package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"vidtube/internal/config"
	"vidtube/internal/models"
	"vidtube/internal/seed"
	"vidtube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinySeed() seed.Options {
	return seed.Options{Users: 2, VideosPerUser: 1, TweetsPerUser: 1, LikesPerUser: 1, FastHash: true, Seed: 7}
}

func TestEnsureDemoData(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		existing  bool
		wantUsers int64
	}{
		{name: "Seeds empty development database", env: "development", wantUsers: 2},
		{name: "Skips populated database", env: "development", existing: true, wantUsers: 1},
		{name: "Skips production", env: "production", wantUsers: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewSQLiteDB(t)
			if tt.existing {
				testutil.CreateUser(t, db, "already-here")
			}

			err := ensureDemoData(context.Background(), &config.Config{Env: tt.env}, db, tinySeed())
			require.NoError(t, err)
			assert.Equal(t, tt.wantUsers, testutil.CountRows(t, db, &models.User{}))
		})
	}
}

func TestInitRuntime_SQLiteWithoutRedis(t *testing.T) {
	cfg := &config.Config{
		Env:        "test",
		DBDriver:   config.DBDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "runtime.db"),
		RedisURL:   "redis://:bad@127.0.0.1:1/0",
	}

	db, rdb, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Nil(t, rdb)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.True(t, db.Migrator().HasTable(&models.Video{}))
}
