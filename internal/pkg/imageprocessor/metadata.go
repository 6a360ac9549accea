package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// Metadata is what the page shows next to the selected file's name and size
type Metadata struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Format      string     `json:"format"`
	CameraMake  string     `json:"camera_make,omitempty"`
	CameraModel string     `json:"camera_model,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
	Orientation int        `json:"orientation,omitempty"`
}

// Inspect reads dimensions and, when present, EXIF camera data
func Inspect(data []byte) (*Metadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error reading image header: %w", err)
	}

	meta := &Metadata{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// Most PNGs and many JPEGs carry no EXIF block
		log.Debugf("[ImageProcessor] No EXIF data found: %v", err)
		return meta, nil
	}

	if m, err := x.Get(exif.Make); err == nil {
		meta.CameraMake = cleanTag(m.String())
	}
	if m, err := x.Get(exif.Model); err == nil {
		meta.CameraModel = cleanTag(m.String())
	}
	if dt, err := x.DateTime(); err == nil {
		meta.TakenAt = &dt
	}
	if o, err := x.Get(exif.Orientation); err == nil {
		if v, err := o.Int(0); err == nil {
			meta.Orientation = v
		}
	}

	// Orientations 5-8 swap width and height once applied
	if meta.Orientation >= 5 && meta.Orientation <= 8 {
		meta.Width, meta.Height = meta.Height, meta.Width
	}

	return meta, nil
}

func cleanTag(raw string) string {
	return strings.TrimSpace(strings.Trim(raw, `"`))
}
