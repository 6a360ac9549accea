package shrink

import "errors"

var (
	ErrUnsupportedFormat     = errors.New("only JPEG and PNG images are supported")
	ErrNoFileSelected        = errors.New("no image selected")
	ErrInvalidTargetSize     = errors.New("target size must be a positive whole number of kilobytes")
	ErrCompressionInProgress = errors.New("a compression is already running")
	ErrCompressionFailed     = errors.New("compression failed")
	ErrSuperseded            = errors.New("compression superseded by a newer selection")
)

// CompressionError wraps whatever made an attempt fail. Its message is the
// cause's message so it can be shown to the user verbatim.
type CompressionError struct {
	FileName string
	Err      error
}

func (e *CompressionError) Error() string {
	if e.Err == nil {
		return ErrCompressionFailed.Error()
	}
	return e.Err.Error()
}

func (e *CompressionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCompressionFailed) hold for every CompressionError
func (e *CompressionError) Is(target error) bool {
	return target == ErrCompressionFailed
}
