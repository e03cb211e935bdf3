package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"piksel-orders/internal/filter"
	"piksel-orders/internal/logger"
	"piksel-orders/internal/pocketbase"
	"piksel-orders/internal/revenue"
	"piksel-orders/pkg/models"
)

// OrderHandler serves the order CRUD and listing endpoints.
type OrderHandler struct {
	repo *pocketbase.Client
	log  zerolog.Logger
}

func NewOrderHandler(repo *pocketbase.Client) *OrderHandler {
	return &OrderHandler{
		repo: repo,
		log:  logger.WithComponent("api.orders"),
	}
}

// orderView decorates an order with per-row dashboard flags.
type orderView struct {
	models.Order
	MediaAlert bool   `json:"media_alert"`
	WeekLabel  string `json:"week_label,omitempty"`
}

// List returns one page of orders for the current filter state, plus the
// approved-price sum of the filtered set. A failing backend degrades to an
// empty page so the dashboard keeps rendering.
func (h *OrderHandler) List(c *gin.Context) {
	state := models.FilterState{
		Status:        c.Query("status"),
		Month:         c.Query("month"),
		Year:          c.Query("year"),
		Client:        c.Query("client"),
		Agency:        c.Query("agency"),
		MediaReceived: c.Query("media_received"),
		InvoiceSent:   c.Query("invoice_sent"),
	}
	expr := filter.Build(c.Query("search"), state, filter.MatchSubstring)

	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("perPage"))

	list, err := h.repo.List(c.Request.Context(), pocketbase.ListParams{
		Page:    page,
		PerPage: perPage,
		Sort:    sortSpec(c.Query("sort"), c.Query("dir")),
		Filter:  expr,
	})
	if err != nil {
		h.log.Error().Err(err).Str("filter", expr).Msg("Order listing failed")
		c.JSON(http.StatusOK, gin.H{
			"items":       []orderView{},
			"totalItems":  0,
			"totalPages":  0,
			"approvedSum": 0,
		})
		return
	}

	now := time.Now()
	views := make([]orderView, 0, len(list.Items))
	for _, o := range list.Items {
		views = append(views, orderView{
			Order:      o,
			MediaAlert: o.MediaAlert(now),
			WeekLabel:  weekLabel(o.From),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       views,
		"totalItems":  list.TotalItems,
		"totalPages":  list.TotalPages,
		"approvedSum": h.repo.SumApproved(c.Request.Context(), expr),
	})
}

// Create stores a new order from the edit-form payload.
func (h *OrderHandler) Create(c *gin.Context) {
	var form models.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
		return
	}
	// ISO dates compare lexically.
	if form.From != "" && form.To != "" && form.From > form.To {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start date is after end date"})
		return
	}

	created, err := h.repo.Create(c.Request.Context(), form.ToOrder())
	if err != nil {
		h.log.Error().Err(err).Msg("Order create failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns a single order.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to load order")
		return
	}
	c.JSON(http.StatusOK, orderView{
		Order:      *order,
		MediaAlert: order.MediaAlert(time.Now()),
		WeekLabel:  weekLabel(order.From),
	})
}

// Update applies a partial update; the body carries only changed fields.
func (h *OrderHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.respondError(c, err, "failed to update order")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes an order.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete order")
		return
	}
	c.Status(http.StatusNoContent)
}

// Distribution returns the order's price split across calendar months.
func (h *OrderHandler) Distribution(c *gin.Context) {
	order, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to load order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": revenue.MonthlyDistribution(order.From, order.To, order.FinalPrice),
	})
}

// Quote returns the order's quote document.
func (h *OrderHandler) Quote(c *gin.Context) {
	quote := h.repo.QuoteByOrderID(c.Request.Context(), c.Param("id"))
	if quote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order has no quote"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *OrderHandler) respondError(c *gin.Context, err error, msg string) {
	if errors.Is(err, pocketbase.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	h.log.Error().Err(err).Str("order_id", c.Param("id")).Msg(msg)
	c.JSON(http.StatusBadGateway, gin.H{"error": msg})
}

// sortSpec folds the field + direction query parameters into the record
// store's sort syntax.
func sortSpec(field, dir string) string {
	if field == "" {
		return ""
	}
	if dir == "desc" {
		return "-" + field
	}
	return field
}
