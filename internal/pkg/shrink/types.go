package shrink

import (
	"context"
	"time"
)

// Accepted MIME types. Matching is exact.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// Fixed compression parameters
const (
	MaxDimensionPixels = 1920
	QualityHint        = 0.9
	DownloadPrefix     = "compressed_"
)

// File is an image picked by the user
type File struct {
	Name     string
	Size     int64
	MimeType string
	Data     []byte
}

// Options is handed to the Compressor for every attempt
type Options struct {
	MaxSizeMB          float64 `json:"max_size_mb"`
	MaxDimension       int     `json:"max_dimension"`
	Quality            float64 `json:"quality"`
	PreserveResolution bool    `json:"preserve_resolution"`
}

// MaxBytes returns the size bound in bytes
func (o Options) MaxBytes() int64 {
	return int64(o.MaxSizeMB * 1024 * 1024)
}

// Compressed is the output of a successful compression
type Compressed struct {
	Data     []byte
	MimeType string
}

// Size returns the compressed length in bytes
func (c *Compressed) Size() int64 {
	return int64(len(c.Data))
}

// Compressor is the external compression capability
type Compressor interface {
	Compress(ctx context.Context, file File, opts Options) (*Compressed, error)
}

// Blob is what the controller asks a DownloadStore to keep
type Blob struct {
	Owner    string
	Name     string
	MimeType string
	Data     []byte
}

// Download is a revocable, time-limited reference to a stored Blob
type Download struct {
	Token     string    `json:"token"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	SizeText  string    `json:"size_text"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadStore keeps compressed results until they are revoked or expire
type DownloadStore interface {
	Save(ctx context.Context, blob Blob) (*Download, error)
	Revoke(ctx context.Context, token string) error
}

// Kind is the visual class of a status message
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Code identifies a status independent of language
type Code string

const (
	CodeFileReady         Code = "file_ready"
	CodeCompressing       Code = "compressing"
	CodeCompressed        Code = "compressed"
	CodeUnsupportedFormat Code = "unsupported_format"
	CodeNoFileSelected    Code = "no_file_selected"
	CodeInvalidTargetSize Code = "invalid_target_size"
	CodeCompressionFailed Code = "compression_failed"
)

// Status is the latest pipeline message. The zero value means "nothing to show".
type Status struct {
	Kind   Kind   `json:"kind,omitempty"`
	Code   Code   `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// IsZero reports whether no status is set
func (s Status) IsZero() bool {
	return s.Code == ""
}

// State of the controller pipeline
type State int

const (
	StateIdle State = iota
	StateFileSelected
	StateCompressing
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFileSelected:
		return "file_selected"
	case StateCompressing:
		return "compressing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets State render as its name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FileInfo is the displayable part of the selected file
type FileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	SizeText string `json:"size_text"`
	MimeType string `json:"mime_type"`
}

// View is a point-in-time copy of the controller for rendering
type View struct {
	State        State     `json:"state"`
	File         *FileInfo `json:"file,omitempty"`
	Status       Status    `json:"status"`
	Download     *Download `json:"download,omitempty"`
	CanCompress  bool      `json:"can_compress"`
	ShowControls bool      `json:"show_controls"`
}

// Attempt describes a finished compression for observers
type Attempt struct {
	Owner          string
	FileName       string
	MimeType       string
	OriginalSize   int64
	TargetSizeKB   int
	CompressedSize int64
	Download       *Download
	Data           []byte
	Duration       time.Duration
	Err            error
}

// Succeeded reports whether the attempt produced a download
func (a Attempt) Succeeded() bool {
	return a.Err == nil && a.Download != nil
}

// AttemptObserver is notified after every finished attempt
type AttemptObserver interface {
	ObserveAttempt(ctx context.Context, attempt Attempt)
}

// ObserverFunc adapts a function to AttemptObserver
type ObserverFunc func(ctx context.Context, attempt Attempt)

func (f ObserverFunc) ObserveAttempt(ctx context.Context, attempt Attempt) {
	f(ctx, attempt)
}
