package annotations

import "errors"

// Common annotation-store errors
var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("annotation not found")

	// ErrStoreFailed is returned when a database operation fails.
	ErrStoreFailed = errors.New("annotation store operation failed")

	// ErrStorageFailed is returned when the storage bucket rejects a request.
	ErrStorageFailed = errors.New("file storage request failed")
)
