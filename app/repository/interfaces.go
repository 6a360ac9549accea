package repository

import (
	"time"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

// CompressionRepository defines the database operations on recorded attempts
type CompressionRepository interface {
	Create(c *models.Compression) error
	GetRecent(limit int) ([]models.Compression, error)
	GetRecentFailures(limit int) ([]models.Compression, error)
	Totals() (*models.CompressionTotals, error)
	CountSince(since time.Time) (int64, error)
	GetDailyStats(startDate, endDate time.Time) ([]models.DailyStats, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
