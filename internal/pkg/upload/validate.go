package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

// SniffLen is how many leading bytes http.DetectContentType looks at
const SniffLen = 512

var ErrUnsupportedType = errors.New("only JPEG and PNG images are supported")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidateImageBySniff checks the filename extension and the first bytes
// (head) of a local file. Returns the detected mime type or an error.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}

	detected := http.DetectContentType(head)
	if allowedMime[detected] {
		return detected, nil
	}
	return "", ErrUnsupportedType
}

// EffectiveType decides which MIME type the controller sees for an upload.
// A declared type outside the whitelist is passed through unchanged so the
// controller rejects it. A whitelisted declaration is replaced by the sniffed
// type, which makes a body that is not the image it claims to be fail the
// same check.
func EffectiveType(declared string, head []byte) string {
	if declared != "" && !allowedMime[declared] {
		return declared
	}
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	return http.DetectContentType(head)
}

// ReadFormFile loads an uploaded file into memory. The MIME type is the
// EffectiveType of the declared Content-Type and the content.
func ReadFormFile(fh *multipart.FileHeader) (shrink.File, error) {
	src, err := fh.Open()
	if err != nil {
		return shrink.File{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return shrink.File{}, fmt.Errorf("read upload: %w", err)
	}

	return shrink.File{
		Name:     filepath.Base(fh.Filename),
		Size:     int64(len(data)),
		MimeType: EffectiveType(fh.Header.Get("Content-Type"), data),
		Data:     data,
	}, nil
}
