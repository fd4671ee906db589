package database

import (
	"context"
	"time"

	"go-stockctl/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// Seed wipes the store and loads a small demo shop: three suppliers, three
// employees, eight products (five of them low), two credit sales and one
// partial repayment.
func (s *Store) Seed(ctx context.Context) (*models.SeedResult, error) {
	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Wipe in FK-safe order
		for _, m := range []any{
			&models.CreditTransaction{}, &models.SaleItem{}, &models.Sale{},
			&models.PurchaseItem{}, &models.Purchase{},
			&models.Product{}, &models.Employee{}, &models.Supplier{},
		} {
			if err := tx.Unscoped().Where("1 = 1").Delete(m).Error; err != nil {
				return errors.Wrap(err, "wipe")
			}
		}

		suppliers := []models.Supplier{
			{Name: "ABC Wholesale", Phone: strPtr("+264-61-000-000")},
			{Name: "Namibia Foods Ltd", Phone: strPtr("+264-61-111-111")},
			{Name: "Namib Mills", Phone: strPtr("+264-61-222-333")},
		}
		employees := []models.Employee{
			{Name: "Petrus Shilongo", Phone: strPtr("+264-81-123-4567")},
			{Name: "Maria Andreas", Phone: strPtr("+264-81-234-5678")},
			{Name: "John Smith", Phone: strPtr("+264-81-345-6789")},
		}
		products := []models.Product{
			{Name: "Rice 1kg", SKU: "RICE-1KG", Unit: "bag", Price: 35, CostPrice: 25, StockQty: 100, ReorderLevel: 20},
			{Name: "Sugar 1kg", SKU: "SUGAR-1KG", Unit: "bag", Price: 25, CostPrice: 18, StockQty: 75, ReorderLevel: 15},
			{Name: "Cooking Oil 2L", SKU: "OIL-2L", Unit: "bottle", Price: 45, CostPrice: 35, StockQty: 60, ReorderLevel: 12},
			{Name: "Flour 2kg", SKU: "FLOUR-2KG", Unit: "bag", Price: 40, CostPrice: 30, StockQty: 5, ReorderLevel: 10},
			{Name: "Salt 500g", SKU: "SALT-500G", Unit: "packet", Price: 12, CostPrice: 8, StockQty: 3, ReorderLevel: 8},
			{Name: "Tea Bags 100pk", SKU: "TEA-100", Unit: "pack", Price: 55, CostPrice: 42, StockQty: 2, ReorderLevel: 6},
			{Name: "Coffee 500g", SKU: "COFFEE-500", Unit: "jar", Price: 85, CostPrice: 65, StockQty: 1, ReorderLevel: 5},
			{Name: "Baking Powder 100g", SKU: "BAKE-100", Unit: "box", Price: 18, CostPrice: 12, StockQty: 0, ReorderLevel: 3},
		}
		for _, batch := range []any{&suppliers, &employees, &products} {
			if err := tx.Create(batch).Error; err != nil {
				return errors.Wrap(err, "seed catalog")
			}
		}

		// Credit history is inserted directly so the low-stock demo values hold
		sales := []struct {
			employee *models.Employee
			daysAgo  int
			items    []models.SaleItem
		}{
			{&employees[0], 7, []models.SaleItem{
				{ProductID: products[3].ID, ProductName: products[3].Name, Qty: 3, UnitPrice: 40, Subtotal: 120},
				{ProductID: products[4].ID, ProductName: products[4].Name, Qty: 5, UnitPrice: 6, Subtotal: 30},
			}},
			{&employees[1], 3, []models.SaleItem{
				{ProductID: products[6].ID, ProductName: products[6].Name, Qty: 1, UnitPrice: 85, Subtotal: 85},
			}},
		}
		for _, sd := range sales {
			var total float64
			for _, it := range sd.items {
				total += it.Subtotal
			}
			at := now.AddDate(0, 0, -sd.daysAgo)
			sale := models.Sale{
				EmployeeID:    &sd.employee.ID,
				EmployeeName:  sd.employee.Name,
				PaymentMethod: models.PaymentCredit,
				Total:         total,
				CreatedAt:     at,
				Items:         sd.items,
			}
			if err := tx.Create(&sale).Error; err != nil {
				return errors.Wrap(err, "seed sale")
			}
			charge := models.CreditTransaction{
				EmployeeID: sd.employee.ID, Type: models.CreditCharge, Amount: total, SaleID: &sale.ID, CreatedAt: at,
			}
			if err := tx.Create(&charge).Error; err != nil {
				return errors.Wrap(err, "seed charge")
			}
		}

		payment := models.CreditTransaction{
			EmployeeID: employees[0].ID,
			Type:       models.CreditPayment,
			Amount:     100,
			Note:       strPtr("Partial payment - still owes N$50"),
			CreatedAt:  now.AddDate(0, 0, -2),
		}
		return errors.Wrap(tx.Create(&payment).Error, "seed payment")
	})
	if err != nil {
		return nil, err
	}

	outstanding, err := outstandingCredit(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &models.SeedResult{
		Status:            "seeded",
		ProductsCreated:   8,
		EmployeesCreated:  3,
		SuppliersCreated:  3,
		SalesCreated:      2,
		CreditTxns:        3,
		OutstandingCredit: outstanding,
	}, nil
}
