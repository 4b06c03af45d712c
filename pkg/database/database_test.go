package database

import (
	"path/filepath"
	"testing"

	"quiz_backend/internal/config"
	"quiz_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.db")
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: path}, "test")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	// migrating twice is harmless
	require.NoError(t, Migrate(db))

	for _, m := range Models {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&model.UserProgress{}, "idx_progress_user_question"))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestUnknownDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"}, "test")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestSubjectDescriptionLimit(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "q.db")}, "test")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	long := make([]rune, model.SubjectDescriptionMaxLen+1)
	for i := range long {
		long[i] = 'x'
	}
	err = db.Create(&model.Subject{Name: "Long", Description: string(long)}).Error
	assert.Error(t, err)

	err = db.Create(&model.Question{SubjectID: 1, QuestionType: "audio"}).Error
	assert.ErrorContains(t, err, "unknown question type")
}
