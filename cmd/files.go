package cmd

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"piksel-orders/internal/logger"
	"piksel-orders/internal/ocr"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage order file attachments",
	Long: `List, upload and delete file attachments, and extract text from an
order's screenshots and PDF attachments with Google Cloud Vision.

Required environment variables:
  SUPABASE_DB_URL      - Postgres connection string of the annotation store
  SUPABASE_URL         - Supabase project base URL
  SUPABASE_SERVICE_KEY - Service-role key

For "files ocr" additionally:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS             - Inline JSON credentials string`,
}

var filesListCmd = &cobra.Command{
	Use:   "list [order-id]",
	Short: "List an order's attachments",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesList,
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload [order-id] [path]",
	Short: "Upload a file as an order attachment",
	Long: `Uploads the file to the storage bucket and records the attachment.
Image files are stored under the order's printscreens prefix and show up
next to the order's comments.`,
	Example: `  piksel-orders files upload abc123 ./sutartis.pdf
  piksel-orders files upload abc123 ./ekranas.png`,
	Args: cobra.ExactArgs(2),
	RunE: runFilesUpload,
}

var filesOCRCmd = &cobra.Command{
	Use:   "ocr [file-id]",
	Short: "Extract text from an attachment",
	Long: `Downloads the attachment and runs Google Cloud Vision document text
detection over it. Works on image attachments and PDFs up to 5 pages and
20MB.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilesOCR,
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete [file-id]",
	Short: "Delete an attachment and its stored object",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesDelete,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesListCmd, filesUploadCmd, filesOCRCmd, filesDeleteCmd)

	filesListCmd.Flags().Bool("json", false, "Output as JSON")
	filesOCRCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	filesOCRCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runFilesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := store.Files(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(files)
	}

	if len(files) == 0 {
		fmt.Println("No attachments.")
		return nil
	}
	for _, f := range files {
		kind := "file"
		if f.IsPrintscreen() {
			kind = "printscreen"
		}
		fmt.Printf("%s  %-11s %-30s %s\n", f.ID, kind, f.Filename, f.FileURL)
	}
	return nil
}

func runFilesUpload(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("files")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orderID, path := args[0], args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > ocr.MaxFileSizeBytes {
		return fmt.Errorf("file is too large (%d bytes), the limit is 20MB", len(data))
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	log.Info().
		Str("order_id", orderID).
		Str("file", path).
		Str("content_type", contentType).
		Msg("Uploading attachment")

	attachment, err := store.UploadFile(cmd.Context(), orderID, filepath.Base(path), contentType, data)
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	fmt.Printf("Uploaded %s\n%s\n", attachment.ID, attachment.FileURL)
	return nil
}

func runFilesOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("files")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := contextWithTimeout(cmd, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	attachment, err := store.FileByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load attachment: %w", err)
	}

	data, err := store.Download(ctx, attachment)
	if err != nil {
		return fmt.Errorf("failed to download attachment: %w", err)
	}

	extractor, err := ocr.NewGoogleVisionExtractor(ctx)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}
	defer extractor.Close()

	log.Info().
		Str("file_id", attachment.ID).
		Str("content_type", attachment.FileType).
		Int("bytes", len(data)).
		Msg("Extracting text from attachment")

	result, err := extractor.Extract(ctx, attachment.FileType, data)
	if err != nil {
		return explainExtractError(err)
	}

	log.Info().
		Int("page_count", result.PageCount).
		Float32("confidence", result.Confidence).
		Dur("duration", result.ProcessingDuration).
		Int("text_length", len(result.Text)).
		Msg("Extraction completed")

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(result.Text), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Wrote %d characters to %s\n", len(result.Text), outputPath)
		return nil
	}
	fmt.Println(result.Text)
	return nil
}

func runFilesDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteFile(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	fmt.Printf("Deleted file %s\n", args[0])
	return nil
}

// explainExtractError turns extraction sentinels into actionable messages.
func explainExtractError(err error) error {
	switch {
	case errors.Is(err, ocr.ErrFileTooLarge):
		return fmt.Errorf("attachment is too large (maximum 20MB)")
	case errors.Is(err, ocr.ErrTooManyPages):
		return fmt.Errorf("PDF has too many pages (maximum 5 for synchronous processing)")
	case errors.Is(err, ocr.ErrInvalidPDF):
		return fmt.Errorf("attachment is not a valid PDF")
	case errors.Is(err, ocr.ErrUnsupportedType):
		return fmt.Errorf("attachment type is not supported; only images and PDFs can be processed")
	case errors.Is(err, ocr.ErrNoText):
		return fmt.Errorf("no readable text found in the attachment")
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("Google Cloud credentials are not configured: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS")
	default:
		return fmt.Errorf("text extraction failed: %w", err)
	}
}
