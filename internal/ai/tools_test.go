package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-stockctl/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products []models.Product
	credit   []models.CreditSummary
	start    time.Time
	end      time.Time
	err      error
}

func (f *fakeStore) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeStore) CreditSummary(context.Context) ([]models.CreditSummary, error) {
	return f.credit, f.err
}

func (f *fakeStore) SalesReport(_ context.Context, start, end time.Time) (*models.SalesReport, error) {
	f.start, f.end = start, end
	return &models.SalesReport{From: start, To: end, TotalRevenue: 99.5, TotalCount: 3}, f.err
}

func TestDispatchLowStock(t *testing.T) {
	store := &fakeStore{products: []models.Product{
		{Name: "Salt", StockQty: 3, ReorderLevel: 8},
		{Name: "Rice", StockQty: 40, ReorderLevel: 10},
	}}

	out, err := Dispatch(context.Background(), store, "low_stock", nil)

	require.NoError(t, err)
	assert.Equal(t, 1, out["count"])
}

func TestDispatchCreditSummary(t *testing.T) {
	store := &fakeStore{credit: []models.CreditSummary{
		{EmployeeName: "Anna", Balance: 35},
		{EmployeeName: "Ben", Balance: 100},
		{EmployeeName: "Cleo", Balance: 0},
	}}

	out, err := Dispatch(context.Background(), store, "credit_summary", nil)

	require.NoError(t, err)
	assert.Equal(t, 135.0, out["total_outstanding"])
}

func TestDispatchSalesReportDates(t *testing.T) {
	store := &fakeStore{}

	out, err := Dispatch(context.Background(), store, "get_sales_report", map[string]any{
		"start_date": "2026-01-01",
		"end_date":   "2026-01-31",
	})

	require.NoError(t, err)
	assert.Equal(t, 99.5, out["revenue"])
	assert.Equal(t, int64(3), out["sales_count"])
	assert.Equal(t, 31, store.end.Day())
	assert.Equal(t, 23, store.end.Hour())

	out, err = Dispatch(context.Background(), store, "get_sales_report", map[string]any{"start_date": "yesterday"})
	require.NoError(t, err)
	assert.Contains(t, out["error"], "YYYY-MM-DD")
}

func TestDispatchUnknownAndStoreErrors(t *testing.T) {
	out, err := Dispatch(context.Background(), &fakeStore{}, "drop_tables", nil)
	require.NoError(t, err)
	assert.Contains(t, out["error"], "drop_tables")

	_, err = Dispatch(context.Background(), &fakeStore{err: errors.New("db down")}, "check_inventory", nil)
	assert.Error(t, err)
}

func TestResponseHelpers(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.FunctionCall{Name: "low_stock"},
			genai.Text("hello"),
		}},
	}}}

	calls := functionCalls(resp)
	require.Len(t, calls, 1)
	assert.Equal(t, "low_stock", calls[0].Name)
	assert.Equal(t, "hello", textOf(resp))
	assert.Nil(t, functionCalls(&genai.GenerateContentResponse{}))
}
