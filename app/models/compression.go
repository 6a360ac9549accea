package models

import (
	"time"
)

// Compression records one finished compression attempt
type Compression struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	SessionID      string    `gorm:"type:varchar(64);index" json:"-"`
	FileName       string    `gorm:"type:varchar(255)" json:"file_name" validate:"required,max=255"`
	MimeType       string    `gorm:"type:varchar(32)" json:"mime_type" validate:"required,oneof=image/jpeg image/png"`
	OriginalSize   int64     `json:"original_size" validate:"gte=0"`
	CompressedSize int64     `json:"compressed_size" validate:"gte=0"`
	TargetSizeKB   int       `json:"target_size_kb" validate:"gt=0"`
	Succeeded      bool      `gorm:"index" json:"succeeded"`
	Error          string    `gorm:"type:text" json:"error,omitempty"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName specifies the table name for the Compression model
func (Compression) TableName() string {
	return "compressions"
}

// BytesSaved is the reduction achieved, zero for failed or growing attempts
func (c *Compression) BytesSaved() int64 {
	if !c.Succeeded || c.CompressedSize >= c.OriginalSize {
		return 0
	}
	return c.OriginalSize - c.CompressedSize
}
