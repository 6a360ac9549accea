package repository

import (
	"fmt"
	"time"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"gorm.io/gorm"
)

// compressionRepository implements the CompressionRepository interface
type compressionRepository struct {
	db *gorm.DB
}

// NewCompressionRepository creates a new compression repository instance
func NewCompressionRepository(db *gorm.DB) CompressionRepository {
	return &compressionRepository{db: db}
}

// Create stores a finished attempt
func (r *compressionRepository) Create(c *models.Compression) error {
	return r.db.Create(c).Error
}

// GetRecent returns the newest attempts first
func (r *compressionRepository) GetRecent(limit int) ([]models.Compression, error) {
	var out []models.Compression
	err := r.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// GetRecentFailures returns the newest failed attempts first
func (r *compressionRepository) GetRecentFailures(limit int) ([]models.Compression, error) {
	var out []models.Compression
	err := r.db.Where("succeeded = ?", false).
		Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// Totals aggregates every recorded attempt
func (r *compressionRepository) Totals() (*models.CompressionTotals, error) {
	var totals models.CompressionTotals

	if err := r.db.Model(&models.Compression{}).Count(&totals.Attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if err := r.db.Model(&models.Compression{}).Where("succeeded = ?", true).Count(&totals.Successes).Error; err != nil {
		return nil, fmt.Errorf("failed to count successes: %w", err)
	}

	var saved struct{ Total int64 }
	err := r.db.Model(&models.Compression{}).
		Select("COALESCE(SUM(original_size - compressed_size), 0) as total").
		Where("succeeded = ? AND compressed_size < original_size", true).
		Scan(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum saved bytes: %w", err)
	}
	totals.BytesSaved = saved.Total

	return &totals, nil
}

// CountSince counts attempts created at or after since
func (r *compressionRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Compression{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// GetDailyStats returns attempts per day for a date range
func (r *compressionRepository) GetDailyStats(startDate, endDate time.Time) ([]models.DailyStats, error) {
	var results []struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}

	day := "DATE_FORMAT(created_at, '%Y-%m-%d')"
	if r.db.Dialector.Name() == "sqlite" {
		day = "strftime('%Y-%m-%d', created_at)"
	}

	err := r.db.Model(&models.Compression{}).
		Select(day+" as date, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group(day).
		Order("date").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily compression stats: %w", err)
	}

	dailyStats := make([]models.DailyStats, len(results))
	for i, result := range results {
		dailyStats[i] = models.DailyStats{
			Date:  result.Date,
			Count: int(result.Count),
		}
	}
	return dailyStats, nil
}

// DeleteOlderThan prunes attempts created before cutoff
func (r *compressionRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&models.Compression{})
	return res.RowsAffected, res.Error
}
