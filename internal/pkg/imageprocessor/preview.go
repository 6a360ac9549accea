package imageprocessor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
)

const (
	PreviewSize = 320
	// Format: preview:<sha256>:<format>
	PreviewKeyFormat = "preview:%s:%s"
	PreviewTTL       = 30 * time.Minute
)

// Cache hooks, replaceable in tests
var (
	GetCacheImplementation = cache.Get
	SetCacheImplementation = cache.Set
)

// Thumbnail renders data into a box of size x size in the given preview format
func Thumbnail(data []byte, size int, format string) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("error decoding image: %w", err)
	}
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	switch format {
	case PreviewWebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, 85)
		if err != nil {
			return nil, "", fmt.Errorf("error creating encoder options: %w", err)
		}
		if err := webp.Encode(&buf, thumb, options); err != nil {
			return nil, "", fmt.Errorf("error encoding WebP image: %w", err)
		}
	default:
		format = PreviewJPEG
		if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
			return nil, "", fmt.Errorf("error encoding JPEG preview: %w", err)
		}
	}

	return buf.Bytes(), previewMimeType(format), nil
}

// CachedThumbnail is Thumbnail at PreviewSize, memoized in the cache by content hash
func CachedThumbnail(data []byte, format string) ([]byte, string, error) {
	if format != PreviewWebP {
		format = PreviewJPEG
	}
	sum := sha256.Sum256(data)
	key := fmt.Sprintf(PreviewKeyFormat, hex.EncodeToString(sum[:]), format)

	if cached, err := GetCacheImplementation(key); err == nil && cached != "" {
		return []byte(cached), previewMimeType(format), nil
	}

	out, mimeType, err := Thumbnail(data, PreviewSize, format)
	if err != nil {
		return nil, "", err
	}
	if err := SetCacheImplementation(key, out, PreviewTTL); err != nil {
		log.Debugf("[ImageProcessor] Preview not cached: %v", err)
	}
	return out, mimeType, nil
}
