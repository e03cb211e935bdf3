// Package ocr extracts text from order attachments using the Google Cloud
// Vision API. Screenshots (image attachments) go through document text
// detection on inline image content; PDF attachments go through file
// annotation.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Cloud Vision API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Maximum pages: 5 pages for synchronous PDF processing
package ocr

import (
	"context"
	"time"
)

// Extractor defines the interface for attachment text extraction.
type Extractor interface {
	// Extract pulls text out of an attachment. contentType decides the
	// processing path: image/* attachments are annotated as images,
	// application/pdf as multi-page files.
	Extract(ctx context.Context, contentType string, data []byte) (*Result, error)

	// Close releases the underlying API client.
	Close() error
}

// Result contains extracted text with processing metadata.
type Result struct {
	// Text is the extracted text, pages concatenated in reading order.
	Text string `json:"text"`

	// PageCount is the number of pages processed (1 for images).
	PageCount int `json:"page_count"`

	// Confidence is the average confidence across detected text (0.0 to 1.0).
	Confidence float32 `json:"confidence"`

	// LanguageCodes contains the detected languages.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is when extraction completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long extraction took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}
