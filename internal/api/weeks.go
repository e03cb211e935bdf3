package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"piksel-orders/internal/isoweek"
)

// WeekGrid returns the full week grid of one calendar year.
func WeekGrid(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": isoweek.Grid(year, time.Now())})
}

// weekLabel renders the "W37" style tag shown next to order start dates.
func weekLabel(date string) string {
	return isoweek.Label(date)
}
