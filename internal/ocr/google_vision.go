package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

const (
	// MaxFileSizeBytes is the maximum attachment size for synchronous processing (20MB)
	MaxFileSizeBytes = 20 * 1024 * 1024

	// MaxPagesSync is the maximum number of PDF pages for synchronous processing
	MaxPagesSync = 5
)

// GoogleVisionExtractor implements Extractor using the Google Cloud Vision API.
type GoogleVisionExtractor struct {
	client *vision.ImageAnnotatorClient
}

// NewGoogleVisionExtractor creates an extractor with credentials from the
// environment: GOOGLE_CREDENTIALS JSON first, GOOGLE_APPLICATION_CREDENTIALS
// path second, application default credentials last.
func NewGoogleVisionExtractor(ctx context.Context) (Extractor, error) {
	const op = "NewGoogleVisionExtractor"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, wrapExtractError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, wrapExtractError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, wrapExtractError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionExtractor{
		client: client,
	}, nil
}

// NewGoogleVisionExtractorWithClient creates an extractor with an explicit client (for testing).
func NewGoogleVisionExtractorWithClient(client *vision.ImageAnnotatorClient) Extractor {
	return &GoogleVisionExtractor{
		client: client,
	}
}

// Extract routes the attachment to the image or PDF processing path by its
// content type.
func (g *GoogleVisionExtractor) Extract(ctx context.Context, contentType string, data []byte) (*Result, error) {
	const op = "Extract"

	if len(data) > MaxFileSizeBytes {
		return nil, wrapExtractError(op, ErrFileTooLarge, fmt.Sprintf("attachment size: %d bytes", len(data)))
	}

	switch {
	case strings.HasPrefix(contentType, "image/"):
		return g.extractImage(ctx, data)
	case contentType == "application/pdf":
		return g.extractPDF(ctx, data)
	default:
		return nil, wrapExtractError(op, ErrUnsupportedType, contentType)
	}
}

// extractImage runs document text detection on inline image bytes.
func (g *GoogleVisionExtractor) extractImage(ctx context.Context, data []byte) (*Result, error) {
	const op = "extractImage"
	startTime := time.Now()

	resp, err := g.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	})
	if err != nil {
		return nil, wrapExtractError(op, ErrExtractionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, wrapExtractError(op, ErrExtractionFailed, "no response from Vision API")
	}

	annotated := resp.Responses[0]
	if annotated.Error != nil {
		return nil, wrapExtractError(op, ErrExtractionFailed, fmt.Sprintf("Vision API error: %s", annotated.Error.Message))
	}
	if annotated.FullTextAnnotation == nil || strings.TrimSpace(annotated.FullTextAnnotation.Text) == "" {
		return nil, wrapExtractError(op, ErrNoText, "")
	}

	var confidenceSum float32
	var confidenceCount int
	for _, textAnnotation := range annotated.TextAnnotations {
		if textAnnotation.Confidence > 0 {
			confidenceSum += textAnnotation.Confidence
			confidenceCount++
		}
	}
	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}

	processedAt := time.Now()
	return &Result{
		Text:               annotated.FullTextAnnotation.Text,
		PageCount:          1,
		Confidence:         avgConfidence,
		LanguageCodes:      pageLanguages(annotated.FullTextAnnotation),
		ProcessedAt:        processedAt,
		ProcessingDuration: processedAt.Sub(startTime),
	}, nil
}

// extractPDF runs document text detection over inline PDF content.
func (g *GoogleVisionExtractor) extractPDF(ctx context.Context, data []byte) (*Result, error) {
	const op = "extractPDF"
	startTime := time.Now()

	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return nil, wrapExtractError(op, ErrInvalidPDF, "missing PDF header")
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  data,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return nil, wrapExtractError(op, ErrExtractionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, wrapExtractError(op, ErrExtractionFailed, "no response from Vision API")
	}

	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, wrapExtractError(op, ErrExtractionFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}

	result, err := collectPages(fileResp)
	if err != nil {
		return nil, wrapExtractError(op, err, "failed to process Vision API response")
	}

	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)
	return result, nil
}

// collectPages aggregates the per-page responses of a file annotation.
func collectPages(fileResp *visionpb.AnnotateFileResponse) (*Result, error) {
	if len(fileResp.Responses) == 0 {
		return nil, ErrNoText
	}

	pageCount := len(fileResp.Responses)
	if pageCount > MaxPagesSync {
		return nil, wrapExtractError("collectPages", ErrTooManyPages, fmt.Sprintf("document has %d pages", pageCount))
	}

	var allText strings.Builder
	var confidenceSum float32
	var confidenceCount int
	languageSet := make(map[string]bool)

	for pageIdx, page := range fileResp.Responses {
		if page.Error != nil {
			return nil, fmt.Errorf("error processing page %d: %s", pageIdx+1, page.Error.Message)
		}
		if page.FullTextAnnotation == nil {
			continue
		}

		if pageIdx > 0 {
			allText.WriteString(fmt.Sprintf("\n\n--- Page %d ---\n\n", pageIdx+1))
		}
		allText.WriteString(page.FullTextAnnotation.Text)

		for _, textAnnotation := range page.TextAnnotations {
			if textAnnotation.Confidence > 0 {
				confidenceSum += textAnnotation.Confidence
				confidenceCount++
			}
		}
		for _, lang := range pageLanguages(page.FullTextAnnotation) {
			languageSet[lang] = true
		}
	}

	extractedText := allText.String()
	if strings.TrimSpace(extractedText) == "" {
		return nil, ErrNoText
	}

	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}
	var languages []string
	for lang := range languageSet {
		languages = append(languages, lang)
	}

	return &Result{
		Text:          extractedText,
		PageCount:     pageCount,
		Confidence:    avgConfidence,
		LanguageCodes: languages,
	}, nil
}

// pageLanguages walks the annotation tree collecting detected language codes.
func pageLanguages(annotation *visionpb.TextAnnotation) []string {
	seen := make(map[string]bool)
	var languages []string
	for _, pageInfo := range annotation.Pages {
		for _, block := range pageInfo.Blocks {
			for _, paragraph := range block.Paragraphs {
				for _, word := range paragraph.Words {
					for _, symbol := range word.Symbols {
						if symbol.Property == nil {
							continue
						}
						for _, lang := range symbol.Property.DetectedLanguages {
							if lang.LanguageCode != "" && !seen[lang.LanguageCode] {
								seen[lang.LanguageCode] = true
								languages = append(languages, lang.LanguageCode)
							}
						}
					}
				}
			}
		}
	}
	return languages
}

// Close closes the underlying Vision client.
func (g *GoogleVisionExtractor) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
