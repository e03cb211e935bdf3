package ocr_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"piksel-orders/internal/ocr"
)

// Example demonstrates extracting text from a screenshot attachment.
func Example() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Credentials are resolved from the environment.
	extractor, err := ocr.NewGoogleVisionExtractor(ctx)
	if err != nil {
		log.Fatalf("Failed to create extractor: %v", err)
	}
	defer extractor.Close()

	data, err := os.ReadFile("printscreen.png")
	if err != nil {
		log.Fatalf("Failed to read screenshot: %v", err)
	}

	result, err := extractor.Extract(ctx, "image/png", data)
	if err != nil {
		log.Fatalf("Failed to extract text: %v", err)
	}

	fmt.Printf("Extracted text (%d characters):\n%s\n", len(result.Text), result.Text)
}

// Example_errorHandling demonstrates matching the extraction sentinels.
func Example_errorHandling() {
	ctx := context.Background()

	extractor, err := ocr.NewGoogleVisionExtractor(ctx)
	if err != nil {
		if errors.Is(err, ocr.ErrMissingCredentials) {
			log.Fatal("Set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS")
		}
		log.Fatalf("Failed to create extractor: %v", err)
	}
	defer extractor.Close()

	data, err := os.ReadFile("attachment.pdf")
	if err != nil {
		log.Fatalf("Failed to read attachment: %v", err)
	}

	result, err := extractor.Extract(ctx, "application/pdf", data)
	if err != nil {
		switch {
		case errors.Is(err, ocr.ErrFileTooLarge):
			log.Print("Attachment is too large; the limit is 20MB.")
		case errors.Is(err, ocr.ErrTooManyPages):
			log.Print("PDF has too many pages; the limit is 5.")
		case errors.Is(err, ocr.ErrInvalidPDF):
			log.Print("The attachment is not a valid PDF.")
		case errors.Is(err, ocr.ErrNoText):
			log.Print("No readable text in the attachment.")
		default:
			log.Fatalf("Extraction failed: %v", err)
		}
		return
	}

	fmt.Printf("Processed %d pages\n", result.PageCount)
}
