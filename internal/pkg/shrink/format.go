package shrink

import (
	"math"
	"strconv"
	"strings"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with binary prefixes and at most two
// decimals, e.g. 1536 -> "1.5 KB".
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}

// ParseTargetSize parses the user's target size in kilobytes
func ParseTargetSize(input string) (int, error) {
	kb, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || kb <= 0 {
		return 0, ErrInvalidTargetSize
	}
	return kb, nil
}

// OptionsForTarget derives the compressor options for a target in kilobytes
func OptionsForTarget(targetKB int) Options {
	return Options{
		MaxSizeMB:          float64(targetKB) / 1024,
		MaxDimension:       MaxDimensionPixels,
		Quality:            QualityHint,
		PreserveResolution: false,
	}
}

// IsSupportedType reports whether the declared MIME type is accepted
func IsSupportedType(mimeType string) bool {
	return mimeType == MimeJPEG || mimeType == MimePNG
}

// DownloadName is the file name offered for a compressed result
func DownloadName(original string) string {
	return DownloadPrefix + original
}
