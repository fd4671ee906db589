package handlers

import (
	"net/http"

	"go-stockctl/internal/models"

	"github.com/gin-gonic/gin"
)

// --- POST: Ring up a sale (cash, card or on an employee's credit) ---
func (h *Handler) ProcessSale(c *gin.Context) {
	var in models.SaleCreate
	if !bind(c, &in) {
		return
	}
	receipt, err := h.store.CreateSale(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) GetCreditSummary(c *gin.Context) {
	summary, err := h.store.CreditSummary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetEmployeeBalance(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	balance, err := h.store.EmployeeBalance(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *Handler) AddPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in models.PaymentIn
	if !bind(c, &in) {
		return
	}
	result, err := h.store.RecordPayment(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetPaymentHistory(c *gin.Context) {
	history, err := h.store.PaymentHistory(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
