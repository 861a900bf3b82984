package database

import (
	"context"
	"testing"

	"vidtube/internal/config"
	"vidtube/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		Env:        "test",
		DBDriver:   config.DBDriverSQLite,
		SQLitePath: "file::memory:?cache=shared",
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, Ping(context.Background(), db))

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Like{}, "idx_like_subject"))
}

func TestLikeUniqueIndexRejectsDuplicates(t *testing.T) {
	db, err := gorm.Open(Dialector(&config.Config{DBDriver: config.DBDriverSQLite, SQLitePath: ":memory:"}), GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))

	userID, videoID := uuid.New(), uuid.New()
	first := models.Like{LikedByID: userID, SubjectType: models.SubjectVideo, SubjectID: videoID}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Like{LikedByID: userID, SubjectType: models.SubjectVideo, SubjectID: videoID}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dup)
	require.NoError(t, res.Error)
	assert.EqualValues(t, 0, res.RowsAffected)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPing_NilDB(t *testing.T) {
	assert.Error(t, Ping(context.Background(), nil))
}

func TestDialector_Postgres(t *testing.T) {
	d := Dialector(&config.Config{DBDriver: config.DBDriverPostgres, DBHost: "db", DBPort: "5432"})
	assert.Equal(t, "postgres", d.Name())
}
