package imageprocessor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

const (
	MaxWorkers     = 3
	MaxIterations  = 10
	MinJPEGQuality = 10
	// StepFactor scales quality and dimensions on every retry
	StepFactor = 0.95
)

var ErrUnknownFormat = errors.New("unknown image format")

// Compressor re-encodes JPEG and PNG images until they fit a byte budget.
// At most MaxWorkers compressions run at the same time.
type Compressor struct {
	throttle        chan struct{}
	activeProcesses int32
	maxIterations   int
}

var (
	compressor *Compressor
	once       sync.Once
)

// GetCompressor returns the shared compressor instance
func GetCompressor() *Compressor {
	once.Do(func() {
		compressor = NewCompressor(MaxWorkers)
	})
	return compressor
}

// NewCompressor creates a compressor allowing workers concurrent jobs
func NewCompressor(workers int) *Compressor {
	if workers < 1 {
		workers = 1
	}
	return &Compressor{
		throttle:      make(chan struct{}, workers),
		maxIterations: MaxIterations,
	}
}

// ActiveProcesses returns the number of running compressions
func (p *Compressor) ActiveProcesses() int32 {
	return atomic.LoadInt32(&p.activeProcesses)
}

// Compress implements shrink.Compressor
func (p *Compressor) Compress(ctx context.Context, file shrink.File, opts shrink.Options) (*shrink.Compressed, error) {
	select {
	case p.throttle <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.throttle }()

	atomic.AddInt32(&p.activeProcesses, 1)
	defer atomic.AddInt32(&p.activeProcesses, -1)

	format, err := formatForMime(file.MimeType)
	if err != nil {
		return nil, err
	}

	src, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized := false
	if !fitsWithin(src, opts.MaxDimension) {
		src = imaging.Fit(src, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
		resized = true
	}

	quality := initialQuality(opts.Quality)
	current := src
	out, err := encode(current, format, quality)
	if err != nil {
		return nil, err
	}

	maxBytes := opts.MaxBytes()
	scale := 1.0
	for i := 0; i < p.maxIterations && maxBytes > 0 && int64(len(out)) > maxBytes; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false
		if format == imaging.JPEG && quality > MinJPEGQuality {
			quality = max(MinJPEGQuality, int(float64(quality)*StepFactor))
			changed = true
		}
		if !opts.PreserveResolution {
			scale *= StepFactor
			w := int(float64(src.Bounds().Dx()) * scale)
			h := int(float64(src.Bounds().Dy()) * scale)
			if w >= 1 && h >= 1 {
				current = imaging.Resize(src, w, h, imaging.Lanczos)
				resized = true
				changed = true
			}
		}
		if !changed {
			break
		}

		out, err = encode(current, format, quality)
		if err != nil {
			return nil, err
		}
		log.Debugf("[ImageProcessor] Pass %d for %s: %d bytes (quality %d, scale %.2f)", i+1, file.Name, len(out), quality, scale)
	}

	if !resized && len(out) >= len(file.Data) {
		out = file.Data
	}
	if maxBytes > 0 && int64(len(out)) > maxBytes {
		log.Infof("[ImageProcessor] %s stays above target: %d > %d bytes", file.Name, len(out), maxBytes)
	}

	return &shrink.Compressed{Data: out, MimeType: file.MimeType}, nil
}

func formatForMime(mimeType string) (imaging.Format, error) {
	switch mimeType {
	case shrink.MimeJPEG:
		return imaging.JPEG, nil
	case shrink.MimePNG:
		return imaging.PNG, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, mimeType)
	}
}

func fitsWithin(img image.Image, maxDimension int) bool {
	if maxDimension <= 0 {
		return true
	}
	b := img.Bounds()
	return b.Dx() <= maxDimension && b.Dy() <= maxDimension
}

func initialQuality(hint float64) int {
	q := int(math.Round(hint * 100))
	if q < MinJPEGQuality {
		return MinJPEGQuality
	}
	if q > 100 {
		return 100
	}
	return q
}

func encode(img image.Image, format imaging.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case imaging.JPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case imaging.PNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("error encoding image: %w", err)
	}
	return buf.Bytes(), nil
}
