package handlers

import (
	"net/http"

	"go-stockctl/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPurchases(c *gin.Context) {
	purchases, err := h.store.ListPurchases(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *Handler) GetPurchase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	detail, err := h.store.GetPurchase(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) AddPurchase(c *gin.Context) {
	var in models.PurchaseCreate
	if !bind(c, &in) {
		return
	}
	receipt, err := h.store.CreatePurchase(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) UpdatePurchase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in models.PurchaseUpdate
	if !bind(c, &in) {
		return
	}
	receipt, err := h.store.UpdatePurchase(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// --- DELETE: Cancel (void) a purchase, rolling its stock back ---
func (h *Handler) CancelPurchase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.CancelPurchase(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
