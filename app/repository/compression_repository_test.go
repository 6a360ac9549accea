package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Compression{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestCompressionRepository_CreateAndTotals(t *testing.T) {
	repo := NewCompressionRepository(newTestDB(t))

	require.NoError(t, repo.Create(&models.Compression{FileName: "a.jpg", MimeType: "image/jpeg", OriginalSize: 1000, CompressedSize: 400, TargetSizeKB: 1, Succeeded: true}))
	require.NoError(t, repo.Create(&models.Compression{FileName: "b.png", MimeType: "image/png", OriginalSize: 500, CompressedSize: 100, TargetSizeKB: 1, Succeeded: true}))
	require.NoError(t, repo.Create(&models.Compression{FileName: "c.jpg", MimeType: "image/jpeg", OriginalSize: 800, TargetSizeKB: 1, Succeeded: false, Error: "decode failed"}))

	totals, err := repo.Totals()
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.Attempts)
	assert.Equal(t, int64(2), totals.Successes)
	assert.Equal(t, int64(1000), totals.BytesSaved)

	failures, err := repo.GetRecentFailures(10)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "decode failed", failures[0].Error)

	recent, err := repo.GetRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c.jpg", recent[0].FileName)
}

func TestCompressionRepository_EmptyTotals(t *testing.T) {
	repo := NewCompressionRepository(newTestDB(t))

	totals, err := repo.Totals()
	require.NoError(t, err)
	assert.Equal(t, models.CompressionTotals{}, *totals)
}

func TestCompressionRepository_DailyStatsAndPruning(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompressionRepository(db)

	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 11, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{day1, day1.Add(time.Hour), day2} {
		require.NoError(t, repo.Create(&models.Compression{FileName: "x.jpg", MimeType: "image/jpeg", TargetSizeKB: 1, CreatedAt: at}))
	}

	stats, err := repo.GetDailyStats(day1.Add(-time.Hour), day2.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, models.DailyStats{Date: "2024-03-01", Count: 2}, stats[0])
	assert.Equal(t, models.DailyStats{Date: "2024-03-02", Count: 1}, stats[1])

	n, err := repo.CountSince(day2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	deleted, err := repo.DeleteOlderThan(day2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestFactory(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db)
	assert.Same(t, db, f.DB())
	assert.Same(t, f.GetCompressionRepository(), f.GetCompressionRepository())

	InitializeFactory(db)
	require.NotNil(t, GetGlobalFactory())
	InitializeFactory(nil)
	assert.Nil(t, GetGlobalFactory())
}
