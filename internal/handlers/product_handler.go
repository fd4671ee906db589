package handlers

import (
	"net/http"

	"go-stockctl/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: List all products ---
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var in models.ProductCreate
	if !bind(c, &in) {
		return
	}

	product, err := h.store.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// --- PATCH: Update only what was sent ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in models.ProductUpdate
	if !bind(c, &in) {
		return
	}

	product, err := h.store.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- DELETE: Remove a product ---
// Past purchases and sales keep the product name they were recorded with.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
