package converter

import "errors"

var (
	// ErrInputTooLarge indicates the source document exceeds the input cap.
	ErrInputTooLarge = errors.New("source document too large")

	// Cover validation errors. These are fatal: a rejected cover aborts the
	// conversion rather than being silently skipped.
	ErrCoverFormat     = errors.New("cover image format not allowed")
	ErrCoverTooLarge   = errors.New("cover image too large")
	ErrCoverDimensions = errors.New("cover image dimensions out of bounds")
)
