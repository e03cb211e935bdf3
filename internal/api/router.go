// Package api exposes the dashboard operations over HTTP for the browser
// frontend. Handlers are thin: they translate query strings and JSON bodies
// into client calls and map failures to JSON error responses.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"piksel-orders/internal/annotations"
	"piksel-orders/internal/logger"
	"piksel-orders/internal/pocketbase"
)

// Dependencies carries the backend clients the API serves from. Annotations
// may be nil when the annotation store is not configured; its routes are then
// not registered.
type Dependencies struct {
	Orders      *pocketbase.Client
	Annotations *annotations.Store
}

// NewRouter builds the gin engine with all dashboard routes.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	orders := NewOrderHandler(deps.Orders)
	r.GET("/orders", orders.List)
	r.POST("/orders", orders.Create)
	r.GET("/orders/:id", orders.Get)
	r.PATCH("/orders/:id", orders.Update)
	r.DELETE("/orders/:id", orders.Delete)
	r.GET("/orders/:id/distribution", orders.Distribution)
	r.GET("/orders/:id/quote", orders.Quote)

	r.GET("/weeks/:year", WeekGrid)

	if deps.Annotations != nil {
		ann := NewAnnotationHandler(deps.Annotations, deps.Orders)
		r.GET("/orders/:id/comments", ann.Comments)
		r.POST("/orders/:id/comments", ann.AddComment)
		r.PATCH("/comments/:id", ann.UpdateComment)
		r.DELETE("/comments/:id", ann.DeleteComment)

		r.GET("/orders/:id/reminders", ann.Reminders)
		r.POST("/orders/:id/reminders", ann.AddReminder)
		r.PATCH("/reminders/:id", ann.UpdateReminder)
		r.DELETE("/reminders/:id", ann.DeleteReminder)
		r.GET("/reminders/due", ann.DueReminders)

		r.GET("/orders/:id/files", ann.Files)
		r.POST("/orders/:id/files", ann.UploadFile)
		r.DELETE("/files/:id", ann.DeleteFile)
	}

	return r
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)
		log := logger.WithRequestID(requestID)

		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
