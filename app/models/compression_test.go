package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestCompressionBytesSaved(t *testing.T) {
	assert.Equal(t, int64(700), (&Compression{Succeeded: true, OriginalSize: 1000, CompressedSize: 300}).BytesSaved())
	assert.Zero(t, (&Compression{Succeeded: true, OriginalSize: 100, CompressedSize: 300}).BytesSaved())
	assert.Zero(t, (&Compression{Succeeded: false, OriginalSize: 1000, CompressedSize: 0}).BytesSaved())
}

func TestCompressionValidation(t *testing.T) {
	v := validator.New()

	ok := Compression{FileName: "a.jpg", MimeType: "image/jpeg", TargetSizeKB: 100}
	assert.NoError(t, v.Struct(ok))

	bad := Compression{FileName: "", MimeType: "image/gif", TargetSizeKB: 0}
	assert.Error(t, v.Struct(bad))
}
