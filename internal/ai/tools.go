package ai

import (
	"context"
	"fmt"
	"time"

	"go-stockctl/internal/models"
	"go-stockctl/internal/views"

	"github.com/google/generative-ai-go/genai"
)

// Store is the slice of the database the assistant may read.
type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreditSummary(ctx context.Context) ([]models.CreditSummary, error)
	SalesReport(ctx context.Context, start, end time.Time) (*models.SalesReport, error)
}

var toolDecls = []*genai.FunctionDeclaration{
	{
		Name:        "check_inventory",
		Description: "Get the full inventory list. Use this to find ANY product details like ID, Name, SKU, Unit, Price, Cost, or Stock.",
	},
	{
		Name:        "low_stock",
		Description: "List products at or below their reorder level, most urgent first, with how many units are needed.",
	},
	{
		Name:        "credit_summary",
		Description: "List employees who owe money on credit, highest balance first, plus the total outstanding.",
	},
	{
		Name:        "get_sales_report",
		Description: "Get total sales revenue for a date range.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
				"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
			},
			Required: []string{"start_date", "end_date"},
		},
	},
}

// Dispatch runs one tool call against the store. Bad arguments come back as
// an "error" entry so the model can correct itself.
func Dispatch(ctx context.Context, store Store, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "check_inventory":
		products, err := store.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		type simpleProduct struct {
			ID    uint    `json:"id"`
			Name  string  `json:"name"`
			SKU   string  `json:"sku"`
			Unit  string  `json:"unit"`
			Stock int     `json:"stock"`
			Price float64 `json:"price"`
			Cost  float64 `json:"cost"`
		}
		list := make([]simpleProduct, len(products))
		for i, p := range products {
			list[i] = simpleProduct{p.ID, p.Name, p.SKU, p.Unit, p.StockQty, p.Price, p.CostPrice}
		}
		return map[string]any{"inventory": list}, nil

	case "low_stock":
		products, err := store.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		rows := views.LowStock(products)
		type lowItem struct {
			Name   string `json:"name"`
			Stock  int    `json:"stock"`
			Needed int    `json:"needed"`
		}
		list := make([]lowItem, len(rows))
		for i, r := range rows {
			list[i] = lowItem{r.Name, r.StockQty, r.Needed}
		}
		return map[string]any{"low_stock": list, "count": len(list)}, nil

	case "credit_summary":
		credit, err := store.CreditSummary(ctx)
		if err != nil {
			return nil, err
		}
		type debtor struct {
			Name    string  `json:"name"`
			Balance float64 `json:"balance"`
		}
		ranked := views.RankDebtors(credit)
		list := make([]debtor, len(ranked))
		for i, c := range ranked {
			list[i] = debtor{c.EmployeeName, c.Balance}
		}
		return map[string]any{"debtors": list, "total_outstanding": views.OutstandingTotal(credit)}, nil

	case "get_sales_report":
		startStr, _ := args["start_date"].(string)
		endStr, _ := args["end_date"].(string)
		start, err1 := time.ParseInLocation("2006-01-02", startStr, time.Local)
		end, err2 := time.ParseInLocation("2006-01-02", endStr, time.Local)
		if err1 != nil || err2 != nil {
			return map[string]any{"error": "Dates must be in YYYY-MM-DD format."}, nil
		}
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

		report, err := store.SalesReport(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"revenue":     report.TotalRevenue,
			"sales_count": report.TotalCount,
		}, nil
	}
	return map[string]any{"error": fmt.Sprintf("unknown tool %q", name)}, nil
}
