package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// --- GET: /dashboard/summary ---
func (h *Handler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.store.DashboardSummary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// --- GET: /reports/sales?from=YYYY-MM-DD&to=YYYY-MM-DD ---
// Both bounds are whole days; the default window is the last 30 days.
func (h *Handler) GetSalesReport(c *gin.Context) {
	today := time.Now()
	start := today.AddDate(0, 0, -30)
	end := today

	if v := c.Query("from"); v != "" {
		d, err := time.ParseInLocation(reportDateLayout, v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "from must be YYYY-MM-DD"})
			return
		}
		start = d
	}
	if v := c.Query("to"); v != "" {
		d, err := time.ParseInLocation(reportDateLayout, v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "to must be YYYY-MM-DD"})
			return
		}
		end = d
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.Local)

	report, err := h.store.SalesReport(c.Request.Context(), start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET: /reports/valuation ---
// GetStockValuation calculates the total monetary value of all physical inventory
func (h *Handler) GetStockValuation(c *gin.Context) {
	valuation, err := h.store.StockValuation(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, valuation)
}

// --- POST: /dev/seed ---
func (h *Handler) Seed(c *gin.Context) {
	result, err := h.store.Seed(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
