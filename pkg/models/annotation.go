package models

import "time"

// Comment is a free-text note attached to an order. Printscreens carries the
// order's screenshot attachments so the detail view can render them inline.
type Comment struct {
	ID           string           `json:"id"`
	OrderID      string           `json:"order_id"`
	Text         string           `json:"text"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Printscreens []FileAttachment `json:"printscreens,omitempty"`
}

// Reminder is a dated follow-up note for an order.
type Reminder struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"due_date"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileAttachment is a stored file (document or screenshot) owned by an order.
type FileAttachment struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Filename  string    `json:"filename"`
	FileURL   string    `json:"file_url"`
	FileType  string    `json:"file_type"` // MIME type
	CreatedAt time.Time `json:"created_at"`
}

// IsPrintscreen reports whether the attachment is a screenshot image.
func (f FileAttachment) IsPrintscreen() bool {
	return len(f.FileType) >= 6 && f.FileType[:6] == "image/"
}
