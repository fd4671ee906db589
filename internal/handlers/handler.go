package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go-stockctl/internal/apperr"
	"go-stockctl/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Assistant answers free-text questions about the shop.
type Assistant interface {
	Ask(ctx context.Context, message string) (string, error)
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store     *database.Store
	log       *slog.Logger
	assistant Assistant
}

// New constructs a Handler. assistant may be nil.
func New(store *database.Store, log *slog.Logger, assistant Assistant) *Handler {
	return &Handler{store: store, log: log, assistant: assistant}
}

// Routes wires up the REST API on r.
func (h *Handler) Routes(r gin.IRouter, allowSeed bool) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	products := r.Group("/products")
	{
		products.GET("/", h.GetProducts)
		products.POST("/", h.AddProduct)
		products.PATCH("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}

	suppliers := r.Group("/suppliers")
	{
		suppliers.GET("/", h.GetSuppliers)
		suppliers.POST("/", h.AddSupplier)
		suppliers.PATCH("/:id", h.UpdateSupplier)
		suppliers.DELETE("/:id", h.DeleteSupplier)
	}

	employees := r.Group("/employees")
	{
		employees.GET("/", h.GetEmployees)
		employees.POST("/", h.AddEmployee)
		employees.PATCH("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}

	purchases := r.Group("/purchases")
	{
		purchases.GET("/", h.GetPurchases)
		purchases.POST("/", h.AddPurchase)
		purchases.GET("/:id", h.GetPurchase)
		purchases.PATCH("/:id", h.UpdatePurchase)
		purchases.DELETE("/:id", h.CancelPurchase)
	}

	r.POST("/sales/", h.ProcessSale)

	credits := r.Group("/credits")
	{
		credits.GET("/summary", h.GetCreditSummary)
		credits.GET("/payment-history", h.GetPaymentHistory)
		credits.GET("/:id/balance", h.GetEmployeeBalance)
		credits.POST("/:id/payments", h.AddPayment)
	}

	r.GET("/dashboard/summary", h.GetDashboardSummary)
	r.GET("/reports/sales", h.GetSalesReport)
	r.GET("/reports/valuation", h.GetStockValuation)
	r.POST("/assistant/ask", h.AskAssistant)

	// Only opens if we explicitly allow it in .env
	if allowSeed {
		r.POST("/dev/seed", h.Seed)
		h.log.Warn("seed route is OPEN, disable ALLOW_SEED in production")
	}
}

// fail writes err as {detail}; anything that is not a business-rule error is
// logged and hidden behind a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	if e, ok := apperr.From(err); ok {
		c.JSON(e.Status, gin.H{"detail": e.Detail})
		return
	}
	h.log.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Any("error", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error, please try again later"})
}

// bind parses the JSON body into v and reports the first validation failure.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": describeBindError(err)})
		return false
	}
	return true
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return "Invalid input"
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
