package client

import (
	"context"
	"encoding/json"
	"net/http"

	"go-stockctl/internal/models"

	"github.com/pkg/errors"
)

// Key names older servers used for the same dashboard fields, in the order
// they are tried.
var (
	legacyTopSoldKeys  = []string{"top_sold_products", "top_sold", "top_products", "best_sellers"}
	legacyLowStockKeys = []string{"low_stock_count", "low_stock"}
	legacyNameKeys     = []string{"name", "product_name"}
	legacySoldKeys     = []string{"total_sold", "qty", "quantity"}
)

func (c *Client) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &raw); err != nil {
		return nil, err
	}
	return DecodeSummary(raw)
}

// DecodeSummary reads a versioned summary directly and anything without a
// version through the legacy candidate keys.
func DecodeSummary(raw []byte) (*models.DashboardSummary, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "decode dashboard summary")
	}

	// Some servers send the version as a string
	version := int(number(fields["version"]))
	if version >= models.SummaryVersion {
		var body struct {
			models.DashboardSummary
			Version json.RawMessage `json:"version"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, errors.Wrap(err, "decode dashboard summary")
		}
		s := body.DashboardSummary
		s.Version = version
		if s.TopSoldProducts == nil {
			s.TopSoldProducts = []models.TopSoldProduct{}
		}
		return &s, nil
	}
	return decodeLegacySummary(fields), nil
}

func decodeLegacySummary(fields map[string]json.RawMessage) *models.DashboardSummary {
	s := &models.DashboardSummary{
		TotalProducts:     int(number(fields["total_products"])),
		TotalStockValue:   number(fields["total_stock_value"]),
		OutstandingCredit: number(fields["outstanding_credit"]),
		TopSoldProducts:   []models.TopSoldProduct{},
	}

	for _, key := range legacyLowStockKeys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		// low_stock was sometimes the list itself
		var list []json.RawMessage
		if json.Unmarshal(v, &list) == nil {
			s.LowStockCount = len(list)
		} else {
			s.LowStockCount = int(number(v))
		}
		break
	}

	for _, key := range legacyTopSoldKeys {
		var entries []map[string]json.RawMessage
		if v, ok := fields[key]; !ok || json.Unmarshal(v, &entries) != nil {
			continue
		}
		for _, e := range entries {
			s.TopSoldProducts = append(s.TopSoldProducts, models.TopSoldProduct{
				Name:      firstString(e, legacyNameKeys),
				TotalSold: firstNumber(e, legacySoldKeys),
			})
		}
		break
	}
	return s
}

// number decodes a JSON number, or a numeric string, to float64. Anything
// else is 0.
func number(v json.RawMessage) float64 {
	if len(v) == 0 {
		return 0
	}
	var f float64
	if json.Unmarshal(v, &f) == nil {
		return f
	}
	var n json.Number
	if json.Unmarshal(v, &n) == nil {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func firstString(e map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		var s string
		if v, ok := e[k]; ok && json.Unmarshal(v, &s) == nil {
			return s
		}
	}
	return ""
}

func firstNumber(e map[string]json.RawMessage, keys []string) float64 {
	for _, k := range keys {
		if v, ok := e[k]; ok {
			return number(v)
		}
	}
	return 0
}
