package handlers

import (
	"net/http"

	"go-stockctl/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.store.ListSuppliers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *Handler) AddSupplier(c *gin.Context) {
	var in models.SupplierCreate
	if !bind(c, &in) {
		return
	}
	supplier, err := h.store.CreateSupplier(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) UpdateSupplier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in models.SupplierUpdate
	if !bind(c, &in) {
		return
	}
	supplier, err := h.store.UpdateSupplier(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) DeleteSupplier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteSupplier(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetEmployees(c *gin.Context) {
	employees, err := h.store.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *Handler) AddEmployee(c *gin.Context) {
	var in models.EmployeeCreate
	if !bind(c, &in) {
		return
	}
	employee, err := h.store.CreateEmployee(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in models.EmployeeUpdate
	if !bind(c, &in) {
		return
	}
	employee, err := h.store.UpdateEmployee(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
