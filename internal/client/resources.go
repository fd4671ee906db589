package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go-stockctl/internal/models"
)

func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// --- Products ---

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	return getJSON[[]models.Product](ctx, c, "/products/")
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductCreate) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPost, "/products/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, in models.ProductUpdate) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/products/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil)
}

// --- Credits ---

func (c *Client) CreditSummary(ctx context.Context) ([]models.CreditSummary, error) {
	return getJSON[[]models.CreditSummary](ctx, c, "/credits/summary")
}

func (c *Client) EmployeeBalance(ctx context.Context, employeeID uint) (float64, error) {
	return getJSON[float64](ctx, c, fmt.Sprintf("/credits/%d/balance", employeeID))
}

func (c *Client) AddCreditPayment(ctx context.Context, employeeID uint, in models.PaymentIn) (*models.PaymentResult, error) {
	var out models.PaymentResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/credits/%d/payments", employeeID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentHistory(ctx context.Context) ([]models.PaymentHistory, error) {
	return getJSON[[]models.PaymentHistory](ctx, c, "/credits/payment-history")
}

// --- Suppliers ---

func (c *Client) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return getJSON[[]models.Supplier](ctx, c, "/suppliers/")
}

func (c *Client) CreateSupplier(ctx context.Context, in models.SupplierCreate) (*models.Supplier, error) {
	var out models.Supplier
	if err := c.do(ctx, http.MethodPost, "/suppliers/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, id uint, in models.SupplierUpdate) (*models.Supplier, error) {
	var out models.Supplier
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/suppliers/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSupplier(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/suppliers/%d", id), nil, nil, nil)
}

// --- Purchases ---

func (c *Client) ListPurchases(ctx context.Context) ([]models.PurchaseListItem, error) {
	return getJSON[[]models.PurchaseListItem](ctx, c, "/purchases/")
}

func (c *Client) GetPurchase(ctx context.Context, id uint) (*models.PurchaseDetail, error) {
	var out models.PurchaseDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/purchases/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePurchase(ctx context.Context, in models.PurchaseCreate) (*models.Receipt, error) {
	var out models.Receipt
	if err := c.do(ctx, http.MethodPost, "/purchases/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePurchase(ctx context.Context, id uint, in models.PurchaseUpdate) (*models.Receipt, error) {
	var out models.Receipt
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/purchases/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelPurchase(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/purchases/%d", id), nil, nil, nil)
}

// --- Employees ---

func (c *Client) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return getJSON[[]models.Employee](ctx, c, "/employees/")
}

func (c *Client) CreateEmployee(ctx context.Context, in models.EmployeeCreate) (*models.Employee, error) {
	var out models.Employee
	if err := c.do(ctx, http.MethodPost, "/employees/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id uint, in models.EmployeeUpdate) (*models.Employee, error) {
	var out models.Employee
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/employees/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/employees/%d", id), nil, nil, nil)
}

// --- Sales & reports ---

func (c *Client) CreateSale(ctx context.Context, in models.SaleCreate) (*models.Receipt, error) {
	var out models.Receipt
	if err := c.do(ctx, http.MethodPost, "/sales/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SalesReport covers whole days from..to; zero times leave the server default.
func (c *Client) SalesReport(ctx context.Context, from, to time.Time) (*models.SalesReport, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q.Set("to", to.Format("2006-01-02"))
	}
	var out models.SalesReport
	if err := c.do(ctx, http.MethodGet, "/reports/sales", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StockValuation(ctx context.Context) (*models.ValuationResponse, error) {
	var out models.ValuationResponse
	if err := c.do(ctx, http.MethodGet, "/reports/valuation", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Seed(ctx context.Context) (*models.SeedResult, error) {
	var out models.SeedResult
	if err := c.do(ctx, http.MethodPost, "/dev/seed", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
