package annotations

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"piksel-orders/internal/logger"
)

// Storage uploads and deletes file bytes in a Supabase storage bucket. Rows in
// the file_attachments table reference objects here by public URL.
//
// Required Environment Variables:
//   - SUPABASE_URL: Project base URL (e.g. "https://xyz.supabase.co")
//   - SUPABASE_SERVICE_KEY: Service-role key with storage access
type Storage struct {
	baseURL string
	apiKey  string
	bucket  string
	http    *http.Client
	log     zerolog.Logger
}

// NewStorage creates a storage client for one bucket.
func NewStorage(baseURL, apiKey, bucket string) *Storage {
	return &Storage{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     logger.WithComponent("storage"),
	}
}

// Upload stores data under objectPath and returns the object's public URL.
func (s *Storage) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	const op = "Upload"

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrStorageFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%s: %w: status %d: %s", op, ErrStorageFailed, resp.StatusCode, snippet)
	}

	return s.PublicURL(objectPath), nil
}

// Delete removes the object at objectPath. A missing object is not an error;
// the goal is that it no longer exists.
func (s *Storage) Delete(ctx context.Context, objectPath string) error {
	const op = "Delete"

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStorageFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: %w: status %d: %s", op, ErrStorageFailed, resp.StatusCode, snippet)
	}
	return nil
}

// Download fetches an object's bytes by its public URL.
func (s *Storage) Download(ctx context.Context, fileURL string) ([]byte, error) {
	const op = "Download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStorageFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: status %d", op, ErrStorageFailed, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// PublicURL returns the unauthenticated URL of an object in the bucket.
func (s *Storage) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

// ObjectPath builds the bucket path for a regular file attachment. The random
// element keeps repeated uploads of the same filename from colliding.
func ObjectPath(orderID, filename string) string {
	return fmt.Sprintf("orders/%s/%s%s", orderID, uuid.NewString(), path.Ext(filename))
}

// PrintscreenPath builds the bucket path for a screenshot, keeping the
// original name visible so screenshots stay recognizable in the bucket.
func PrintscreenPath(orderID, filename string) string {
	return fmt.Sprintf("%s/printscreens/printscreen_%s_%s", orderID, uuid.NewString(), filename)
}

// objectPathFromURL recovers the bucket-relative object path from a public
// URL, so stored file_url values are enough to delete the object later.
func objectPathFromURL(publicURL, bucket string) (string, bool) {
	marker := "/object/public/" + bucket + "/"
	idx := strings.Index(publicURL, marker)
	if idx < 0 {
		return "", false
	}
	objectPath := publicURL[idx+len(marker):]
	if objectPath == "" {
		return "", false
	}
	return objectPath, true
}
