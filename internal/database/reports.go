package database

import (
	"context"
	"sort"
	"time"

	"go-stockctl/internal/models"
	"go-stockctl/internal/utils"

	"github.com/pkg/errors"
)

const topSoldLimit = 5

// DashboardSummary computes the headline numbers in one pass over products.
func (s *Store) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	db := s.db.WithContext(ctx)

	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	summary := &models.DashboardSummary{
		Version:         models.SummaryVersion,
		TotalProducts:   len(products),
		TopSoldProducts: []models.TopSoldProduct{},
	}
	var value float64
	for _, p := range products {
		value += float64(p.StockQty) * p.CostPrice
		if p.StockQty <= p.ReorderLevel {
			summary.LowStockCount++
		}
	}
	summary.TotalStockValue = utils.Round2(value)

	outstanding, err := outstandingCredit(db)
	if err != nil {
		return nil, err
	}
	summary.OutstandingCredit = outstanding

	// Top sellers count settled sales only, not credit
	err = db.Table("sale_items").
		Select("sale_items.product_name AS name, SUM(sale_items.qty) AS total_sold").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.payment_method <> ?", models.PaymentCredit).
		Group("sale_items.product_id, sale_items.product_name").
		Order("total_sold desc, name asc").
		Limit(topSoldLimit).
		Scan(&summary.TopSoldProducts).Error
	if err != nil {
		return nil, errors.Wrap(err, "top sold products")
	}
	return summary, nil
}

// SalesReport calculates sales within a specific date range
func (s *Store) SalesReport(ctx context.Context, start, end time.Time) (*models.SalesReport, error) {
	db := s.db.WithContext(ctx)
	result := &models.SalesReport{From: start, To: end}

	// 1. Calculate Revenue
	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := db.Model(&models.Sale{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum revenue")
	}

	// 2. Count Orders
	err = db.Model(&models.Sale{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, errors.Wrap(err, "count sales")
	}

	result.TotalRevenue = utils.Round2(result.TotalRevenue)
	return result, nil
}

// StockValuation calculates the total monetary value of all physical
// inventory, grouped by selling unit.
func (s *Store) StockValuation(ctx context.Context) (*models.ValuationResponse, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("name asc").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	var grandTotal float64
	// Pointer values so the subtotal can be updated in place
	grouped := make(map[string]*models.UnitGroup)

	for _, p := range products {
		unit := p.Unit
		if unit == "" {
			unit = "unit"
		}
		if _, exists := grouped[unit]; !exists {
			grouped[unit] = &models.UnitGroup{Unit: unit, Items: []models.ValuationItem{}}
		}

		itemTotal := utils.Round2(float64(p.StockQty) * p.CostPrice)
		grouped[unit].Items = append(grouped[unit].Items, models.ValuationItem{
			Name:      p.Name,
			Quantity:  p.StockQty,
			CostPrice: p.CostPrice,
			TotalCost: itemTotal,
		})
		grouped[unit].Subtotal += itemTotal
		grandTotal += itemTotal
	}

	response := &models.ValuationResponse{Groups: []models.UnitGroup{}, GrandTotal: utils.Round2(grandTotal)}
	for _, group := range grouped {
		group.Subtotal = utils.Round2(group.Subtotal)
		response.Groups = append(response.Groups, *group)
	}
	sort.Slice(response.Groups, func(i, j int) bool {
		return response.Groups[i].Unit < response.Groups[j].Unit
	})
	return response, nil
}
