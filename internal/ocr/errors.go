package ocr

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrFileTooLarge is returned when the attachment exceeds the maximum
	// size. Google Cloud Vision has a 20MB limit for synchronous processing.
	ErrFileTooLarge = errors.New("attachment exceeds the maximum size limit (20MB)")

	// ErrInvalidPDF is returned when a PDF attachment is not a valid PDF.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrUnsupportedType is returned for content types that are neither
	// image/* nor application/pdf.
	ErrUnsupportedType = errors.New("unsupported attachment content type")

	// ErrExtractionFailed is returned when the Vision API call fails.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrTooManyPages is returned when a PDF has too many pages for
	// synchronous processing (maximum 5).
	ErrTooManyPages = errors.New("PDF has too many pages (maximum 5 pages for synchronous processing)")

	// ErrNoText is returned when the attachment contains no readable text.
	ErrNoText = errors.New("attachment contains no readable text")
)

// ExtractError wraps errors with context about the extraction failure.
type ExtractError struct {
	// Op is the operation that failed (e.g. "Extract", "extractPDF").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapExtractError wraps an error as an ExtractError if it isn't already one.
func wrapExtractError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extractErr *ExtractError
	if errors.As(err, &extractErr) {
		return err
	}

	return &ExtractError{Op: op, Err: err, Details: details}
}
