package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"piksel-orders/internal/annotations"
	"piksel-orders/internal/logger"
	"piksel-orders/internal/pocketbase"
	"piksel-orders/pkg/models"
)

// maxUploadBytes caps multipart file uploads; the OCR and storage paths both
// reject anything larger anyway.
const maxUploadBytes = 20 * 1024 * 1024

// unknownClient is shown in the reminder feed when the owning order cannot
// be resolved anymore.
const unknownClient = "Nežinomas klientas"

// AnnotationHandler serves comments, reminders and file attachments.
type AnnotationHandler struct {
	store *annotations.Store
	repo  *pocketbase.Client
	log   zerolog.Logger
}

func NewAnnotationHandler(store *annotations.Store, repo *pocketbase.Client) *AnnotationHandler {
	return &AnnotationHandler{
		store: store,
		repo:  repo,
		log:   logger.WithComponent("api.annotations"),
	}
}

// Comments lists an order's comments, newest first.
func (h *AnnotationHandler) Comments(c *gin.Context) {
	comments, err := h.store.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Str("order_id", c.Param("id")).Msg("Comment listing failed")
		c.JSON(http.StatusOK, gin.H{"items": []models.Comment{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": comments})
}

// AddComment stores a comment on an order.
func (h *AnnotationHandler) AddComment(c *gin.Context) {
	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		return
	}

	comment, err := h.store.AddComment(c.Request.Context(), c.Param("id"), body.Text)
	if err != nil {
		h.respondError(c, err, "failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment replaces a comment's text.
func (h *AnnotationHandler) UpdateComment(c *gin.Context) {
	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		return
	}

	if err := h.store.UpdateComment(c.Request.Context(), c.Param("id"), body.Text); err != nil {
		h.respondError(c, err, "failed to update comment")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteComment removes a comment.
func (h *AnnotationHandler) DeleteComment(c *gin.Context) {
	if err := h.store.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}

// Reminders lists an order's reminders by due date.
func (h *AnnotationHandler) Reminders(c *gin.Context) {
	reminders, err := h.store.Reminders(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Str("order_id", c.Param("id")).Msg("Reminder listing failed")
		c.JSON(http.StatusOK, gin.H{"items": []models.Reminder{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": reminders})
}

// AddReminder stores a reminder on an order.
func (h *AnnotationHandler) AddReminder(c *gin.Context) {
	var body struct {
		Title   string    `json:"title" binding:"required"`
		DueDate time.Time `json:"due_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and due_date are required"})
		return
	}

	reminder, err := h.store.AddReminder(c.Request.Context(), c.Param("id"), body.Title, body.DueDate)
	if err != nil {
		h.respondError(c, err, "failed to add reminder")
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// UpdateReminder writes a reminder's title, due date and completion flag.
func (h *AnnotationHandler) UpdateReminder(c *gin.Context) {
	var reminder models.Reminder
	if err := c.ShouldBindJSON(&reminder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reminder payload"})
		return
	}
	reminder.ID = c.Param("id")

	if err := h.store.UpdateReminder(c.Request.Context(), reminder); err != nil {
		h.respondError(c, err, "failed to update reminder")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteReminder removes a reminder.
func (h *AnnotationHandler) DeleteReminder(c *gin.Context) {
	if err := h.store.DeleteReminder(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete reminder")
		return
	}
	c.Status(http.StatusNoContent)
}

// dueReminderView is one row of the notification feed.
type dueReminderView struct {
	models.Reminder
	Client string `json:"client"`
}

// DueReminders returns every incomplete reminder across all orders, soonest
// first, with the owning order's client name resolved for display.
func (h *AnnotationHandler) DueReminders(c *gin.Context) {
	reminders, err := h.store.DueReminders(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Due-reminder feed failed")
		c.JSON(http.StatusOK, gin.H{"items": []dueReminderView{}})
		return
	}

	// One order often owns several reminders; resolve each order once.
	clients := make(map[string]string)
	views := make([]dueReminderView, 0, len(reminders))
	for _, r := range reminders {
		client, ok := clients[r.OrderID]
		if !ok {
			client = unknownClient
			if order, err := h.repo.Get(c.Request.Context(), r.OrderID); err == nil {
				client = order.Client
			}
			clients[r.OrderID] = client
		}
		views = append(views, dueReminderView{Reminder: r, Client: client})
	}

	c.JSON(http.StatusOK, gin.H{"items": views})
}

// Files lists an order's attachments.
func (h *AnnotationHandler) Files(c *gin.Context) {
	files, err := h.store.Files(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Str("order_id", c.Param("id")).Msg("File listing failed")
		c.JSON(http.StatusOK, gin.H{"items": []models.FileAttachment{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": files})
}

// UploadFile stores a multipart file upload as an order attachment.
func (h *AnnotationHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 20MB limit"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.store.UploadFile(c.Request.Context(), c.Param("id"), header.Filename, contentType, data)
	if err != nil {
		h.respondError(c, err, "failed to store file")
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// DeleteFile removes an attachment and its stored object.
func (h *AnnotationHandler) DeleteFile(c *gin.Context) {
	if err := h.store.DeleteFile(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete file")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AnnotationHandler) respondError(c *gin.Context, err error, msg string) {
	if errors.Is(err, annotations.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "annotation not found"})
		return
	}
	h.log.Error().Err(err).Str("id", c.Param("id")).Msg(msg)
	c.JSON(http.StatusBadGateway, gin.H{"error": msg})
}
