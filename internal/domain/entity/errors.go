package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrExtraction indicates that a source document could not be read or parsed.
	ErrExtraction = errors.New("document extraction failed")

	// ErrUnsupportedFormat indicates that no extractor handles the document's format.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ExtractionError reports a fatal failure to turn a document into lines.
// It matches ErrExtraction with errors.Is and unwraps to the underlying cause.
type ExtractionError struct {
	Path string
	Err  error
}

// Error returns a formatted error message naming the document.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrExtraction) match any ExtractionError.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// NewExtractionError wraps err as an ExtractionError for path.
func NewExtractionError(path string, err error) error {
	return &ExtractionError{Path: path, Err: err}
}
