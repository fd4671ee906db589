package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-stockctl/internal/database"
	"go-stockctl/internal/logs"
	"go-stockctl/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct {
	reply string
	err   error
}

func (s stubAssistant) Ask(context.Context, string) (string, error) {
	return s.reply, s.err
}

func newTestRouter(t *testing.T, assistant Assistant, allowSeed bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect("sqlite", dsn, logs.Discard(), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := gin.New()
	New(database.NewStore(db), logs.Discard(), assistant).Routes(r, allowSeed)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, w)["detail"]
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil, false)
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductLifecycle(t *testing.T) {
	r := newTestRouter(t, nil, false)

	w := do(t, r, http.MethodPost, "/products/", models.ProductCreate{Name: "Rice", SKU: "rice 1kg", Unit: "bag", Price: 35, CostPrice: 25})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Product](t, w)
	assert.Equal(t, "RICE-1KG", created.SKU)

	w = do(t, r, http.MethodPost, "/products/", models.ProductCreate{Name: "Rice", SKU: "RICE-1KG", Unit: "bag"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SKU already exists", detailOf(t, w))

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/products/%d", created.ID), map[string]any{"stock_qty": 12})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12, decode[models.Product](t, w).StockQty)

	w = do(t, r, http.MethodGet, "/products/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 1)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", detailOf(t, w))
}

func TestValidationErrorsUseDetail(t *testing.T) {
	r := newTestRouter(t, nil, false)

	w := do(t, r, http.MethodPost, "/products/", map[string]any{"name": "Rice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detailOf(t, w), "sku")

	w = do(t, r, http.MethodPatch, "/products/abc", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID", detailOf(t, w))

	w = do(t, r, http.MethodPost, "/sales/", map[string]any{
		"payment_method": "credit",
		"items":          []map[string]any{{"product_id": 1, "qty": 1, "unit_price": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detailOf(t, w), "employeeid")
}

func TestSaleAndCreditFlow(t *testing.T) {
	r := newTestRouter(t, nil, false)

	stock := 10
	w := do(t, r, http.MethodPost, "/products/", models.ProductCreate{Name: "Rice", SKU: "RICE", Unit: "bag", Price: 35, CostPrice: 25, StockQty: &stock})
	require.Equal(t, http.StatusCreated, w.Code)
	rice := decode[models.Product](t, w)

	w = do(t, r, http.MethodPost, "/employees/", models.EmployeeCreate{Name: "Anna"})
	require.Equal(t, http.StatusCreated, w.Code)
	anna := decode[models.Employee](t, w)

	w = do(t, r, http.MethodPost, "/sales/", models.SaleCreate{
		EmployeeID:    &anna.ID,
		PaymentMethod: models.PaymentCredit,
		Items:         []models.SaleItemIn{{ProductID: rice.ID, Qty: 2, UnitPrice: 35}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 70.0, decode[models.Receipt](t, w).Total)

	w = do(t, r, http.MethodPost, "/sales/", models.SaleCreate{
		PaymentMethod: models.PaymentCash,
		Items:         []models.SaleItemIn{{ProductID: rice.ID, Qty: 50, UnitPrice: 35}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient stock for Rice", detailOf(t, w))

	w = do(t, r, http.MethodGet, fmt.Sprintf("/credits/%d/balance", anna.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 70.0, decode[float64](t, w))

	w = do(t, r, http.MethodPost, fmt.Sprintf("/credits/%d/payments", anna.ID), models.PaymentIn{Amount: 100})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Payment exceeds outstanding balance. Remaining: 70.00", detailOf(t, w))

	w = do(t, r, http.MethodPost, fmt.Sprintf("/credits/%d/payments", anna.ID), models.PaymentIn{Amount: 20})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 50.0, decode[models.PaymentResult](t, w).Remaining)

	w = do(t, r, http.MethodGet, "/credits/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[[]models.CreditSummary](t, w)
	require.Len(t, summary, 1)
	assert.Equal(t, 50.0, summary[0].Balance)

	w = do(t, r, http.MethodGet, "/credits/payment-history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.PaymentHistory](t, w), 1)

	w = do(t, r, http.MethodGet, "/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[models.DashboardSummary](t, w)
	assert.Equal(t, 1, dash.Version)
	assert.Equal(t, 50.0, dash.OutstandingCredit)
}

func TestPurchaseRoutes(t *testing.T) {
	r := newTestRouter(t, nil, false)

	w := do(t, r, http.MethodPost, "/suppliers/", models.SupplierCreate{Name: "ABC"})
	require.Equal(t, http.StatusCreated, w.Code)
	sup := decode[models.Supplier](t, w)
	w = do(t, r, http.MethodPost, "/products/", models.ProductCreate{Name: "Salt", SKU: "SALT", Unit: "packet"})
	require.Equal(t, http.StatusCreated, w.Code)
	salt := decode[models.Product](t, w)

	w = do(t, r, http.MethodPost, "/purchases/", models.PurchaseCreate{
		SupplierID: sup.ID,
		Items:      []models.PurchaseItemIn{{ProductID: salt.ID, Qty: 6, UnitCost: 8}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decode[models.Receipt](t, w)
	assert.Equal(t, 48.0, receipt.Total)

	w = do(t, r, http.MethodGet, "/purchases/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.PurchaseListItem](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ItemCount)

	w = do(t, r, http.MethodPost, "/purchases/", models.PurchaseCreate{SupplierID: sup.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/purchases/%d", receipt.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.PurchaseDetail](t, w).IsEditLocked)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/purchases/%d", receipt.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/purchases/%d", receipt.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Purchase not found", detailOf(t, w))
}

func TestReports(t *testing.T) {
	r := newTestRouter(t, nil, false)

	w := do(t, r, http.MethodGet, "/reports/sales?from=2026-01-01&to=2026-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[models.SalesReport](t, w).TotalCount)

	w = do(t, r, http.MethodGet, "/reports/sales?from=January", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/reports/valuation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[models.ValuationResponse](t, w).Groups)
}

func TestSeedRouteIsGated(t *testing.T) {
	closed := newTestRouter(t, nil, false)
	w := do(t, closed, http.MethodPost, "/dev/seed", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	open := newTestRouter(t, nil, true)
	w = do(t, open, http.MethodPost, "/dev/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 135.0, decode[models.SeedResult](t, w).OutstandingCredit)
}

func TestAssistant(t *testing.T) {
	r := newTestRouter(t, nil, false)
	w := do(t, r, http.MethodPost, "/assistant/ask", models.AskRequest{Message: "hi"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	r = newTestRouter(t, stubAssistant{reply: "Salt is low."}, false)
	w = do(t, r, http.MethodPost, "/assistant/ask", models.AskRequest{Message: "what is low?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Salt is low.", decode[map[string]string](t, w)["reply"])

	r = newTestRouter(t, stubAssistant{err: errors.New("quota")}, false)
	w = do(t, r, http.MethodPost, "/assistant/ask", models.AskRequest{Message: "hi"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, detailOf(t, w), "quota")
}
