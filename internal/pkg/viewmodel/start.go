package viewmodel

import (
	"html/template"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
)

// Start is everything the start page renders
type Start struct {
	Layout

	View   shrink.View
	Result template.HTML
	Image  *Image
	Stats  statistics.StatisticsData

	MaxUploadMB int
	TargetSize  string
}

// Image is the displayable metadata of the selected file
type Image struct {
	Width       int
	Height      int
	Format      string
	CameraModel string
	TakenAt     string
	HasPreview  bool
}
