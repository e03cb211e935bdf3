// Package annotations implements the annotation store: comments, reminders
// and file attachments that live next to orders. Rows are kept in Postgres
// (tables comments, reminders, file_attachments); file bytes live in a
// storage bucket and rows reference them by public URL.
//
// Required Environment Variables:
//   - SUPABASE_DB_URL: Postgres connection string for the annotation tables
package annotations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"piksel-orders/internal/logger"
	"piksel-orders/pkg/models"
)

// Store gives access to the annotation tables and the file bucket.
type Store struct {
	db      *sql.DB
	storage *Storage
	log     zerolog.Logger
}

// Open connects to the annotation database and verifies the connection.
func Open(dsn string, storage *Storage) (*Store, error) {
	const op = "Open"

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: database unreachable: %w", op, err)
	}

	return &Store{
		db:      db,
		storage: storage,
		log:     logger.WithComponent("annotations"),
	}, nil
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Comments returns the order's comments, newest first. Each comment carries
// the order's printscreen attachments so the detail view renders them inline.
func (s *Store) Comments(ctx context.Context, orderID string) ([]models.Comment, error) {
	const op = "Comments"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, text, created_at, updated_at
		FROM comments
		WHERE order_id = $1
		ORDER BY created_at DESC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.OrderID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	if len(comments) == 0 {
		return comments, nil
	}

	printscreens, err := s.printscreens(ctx, orderID)
	if err != nil {
		// Comments are still useful without their screenshots.
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("Printscreen lookup failed")
		return comments, nil
	}
	for i := range comments {
		comments[i].Printscreens = printscreens
	}
	return comments, nil
}

// AddComment inserts a comment and returns the stored row.
func (s *Store) AddComment(ctx context.Context, orderID, text string) (*models.Comment, error) {
	const op = "AddComment"

	c := models.Comment{OrderID: orderID, Text: text}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (order_id, text)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, orderID, text).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return &c, nil
}

// UpdateComment replaces a comment's text.
func (s *Store) UpdateComment(ctx context.Context, id, text string) error {
	const op = "UpdateComment"

	res, err := s.db.ExecContext(ctx, `
		UPDATE comments
		SET text = $1, updated_at = NOW()
		WHERE id = $2
	`, text, id)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return checkAffected(op, res)
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	const op = "DeleteComment"

	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return checkAffected(op, res)
}

// Reminders returns the order's reminders ordered by due date.
func (s *Store) Reminders(ctx context.Context, orderID string) ([]models.Reminder, error) {
	const op = "Reminders"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, title, due_date, is_completed, created_at
		FROM reminders
		WHERE order_id = $1
		ORDER BY due_date ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	defer rows.Close()

	return scanReminders(op, rows)
}

// DueReminders returns every incomplete reminder across all orders, soonest
// first. The notification poll reads this.
func (s *Store) DueReminders(ctx context.Context) ([]models.Reminder, error) {
	const op = "DueReminders"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, title, due_date, is_completed, created_at
		FROM reminders
		WHERE is_completed = FALSE
		ORDER BY due_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	defer rows.Close()

	return scanReminders(op, rows)
}

// ReminderByID fetches a single reminder row.
func (s *Store) ReminderByID(ctx context.Context, id string) (*models.Reminder, error) {
	const op = "ReminderByID"

	var r models.Reminder
	err := s.db.QueryRowContext(ctx, `
		SELECT id, order_id, title, due_date, is_completed, created_at
		FROM reminders
		WHERE id = $1
	`, id).Scan(&r.ID, &r.OrderID, &r.Title, &r.DueDate, &r.IsCompleted, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return &r, nil
}

// AddReminder inserts a reminder and returns the stored row.
func (s *Store) AddReminder(ctx context.Context, orderID, title string, dueDate time.Time) (*models.Reminder, error) {
	const op = "AddReminder"

	r := models.Reminder{OrderID: orderID, Title: title, DueDate: dueDate}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reminders (order_id, title, due_date)
		VALUES ($1, $2, $3)
		RETURNING id, is_completed, created_at
	`, orderID, title, dueDate).Scan(&r.ID, &r.IsCompleted, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return &r, nil
}

// UpdateReminder writes the reminder's title, due date and completion flag.
func (s *Store) UpdateReminder(ctx context.Context, r models.Reminder) error {
	const op = "UpdateReminder"

	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET title = $1, due_date = $2, is_completed = $3
		WHERE id = $4
	`, r.Title, r.DueDate, r.IsCompleted, r.ID)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return checkAffected(op, res)
}

// DeleteReminder removes a reminder.
func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	const op = "DeleteReminder"

	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return checkAffected(op, res)
}

// Files returns the order's file attachments, newest first.
func (s *Store) Files(ctx context.Context, orderID string) ([]models.FileAttachment, error) {
	const op = "Files"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, filename, file_url, file_type, created_at
		FROM file_attachments
		WHERE order_id = $1
		ORDER BY created_at DESC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	defer rows.Close()

	return scanFiles(op, rows)
}

// FileByID fetches a single attachment row.
func (s *Store) FileByID(ctx context.Context, id string) (*models.FileAttachment, error) {
	const op = "FileByID"

	var f models.FileAttachment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, order_id, filename, file_url, file_type, created_at
		FROM file_attachments
		WHERE id = $1
	`, id).Scan(&f.ID, &f.OrderID, &f.Filename, &f.FileURL, &f.FileType, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return &f, nil
}

// Download fetches an attachment's bytes from the storage bucket.
func (s *Store) Download(ctx context.Context, f *models.FileAttachment) ([]byte, error) {
	const op = "Download"

	data, err := s.storage.Download(ctx, f.FileURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// UploadFile stores the file bytes in the bucket and records the attachment
// row. Screenshots go under the order's printscreens prefix so the comment
// view can find them.
func (s *Store) UploadFile(ctx context.Context, orderID, filename, contentType string, data []byte) (*models.FileAttachment, error) {
	const op = "UploadFile"

	f := models.FileAttachment{OrderID: orderID, Filename: filename, FileType: contentType}
	objectPath := ObjectPath(orderID, filename)
	if f.IsPrintscreen() {
		objectPath = PrintscreenPath(orderID, filename)
	}

	fileURL, err := s.storage.Upload(ctx, objectPath, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f.FileURL = fileURL

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO file_attachments (order_id, filename, file_url, file_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, f.OrderID, f.Filename, f.FileURL, f.FileType).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return &f, nil
}

// DeleteFile removes the stored object and then the attachment row. An object
// that cannot be deleted is logged and the row is removed anyway; a dangling
// row is worse than an orphaned object.
func (s *Store) DeleteFile(ctx context.Context, id string) error {
	const op = "DeleteFile"

	f, err := s.FileByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if objectPath, ok := objectPathFromURL(f.FileURL, s.storage.bucket); ok {
		if err := s.storage.Delete(ctx, objectPath); err != nil {
			s.log.Warn().Err(err).Str("file_id", id).Str("path", objectPath).Msg("Storage object delete failed")
		}
	} else {
		s.log.Warn().Str("file_id", id).Str("url", f.FileURL).Msg("File URL does not point into the bucket")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM file_attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return checkAffected(op, res)
}

// printscreens returns the order's screenshot attachments only.
func (s *Store) printscreens(ctx context.Context, orderID string) ([]models.FileAttachment, error) {
	files, err := s.Files(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var shots []models.FileAttachment
	for _, f := range files {
		if f.IsPrintscreen() {
			shots = append(shots, f)
		}
	}
	return shots, nil
}

func scanReminders(op string, rows *sql.Rows) ([]models.Reminder, error) {
	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.OrderID, &r.Title, &r.DueDate, &r.IsCompleted, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return reminders, nil
}

func scanFiles(op string, rows *sql.Rows) ([]models.FileAttachment, error) {
	var files []models.FileAttachment
	for rows.Next() {
		var f models.FileAttachment
		if err := rows.Scan(&f.ID, &f.OrderID, &f.Filename, &f.FileURL, &f.FileType, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	return files, nil
}

func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
