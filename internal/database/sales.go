package database

import (
	"context"
	"time"

	"go-stockctl/internal/apperr"
	"go-stockctl/internal/models"
	"go-stockctl/internal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateSale sells every item or none of them. Credit sales also post a
// charge on the employee's ledger.
func (s *Store) CreateSale(ctx context.Context, in models.SaleCreate) (*models.Receipt, error) {
	if len(in.Items) == 0 {
		return nil, apperr.BadRequest("No items provided")
	}
	if in.PaymentMethod == models.PaymentCredit && in.EmployeeID == nil {
		return nil, apperr.BadRequest("Credit sale requires employee")
	}

	var dueDate *time.Time
	if in.DueDate != nil && *in.DueDate != "" {
		d, err := time.Parse("2006-01-02", *in.DueDate)
		if err != nil {
			return nil, apperr.BadRequest("due_date must be YYYY-MM-DD")
		}
		dueDate = &d
	}

	var sale models.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale = models.Sale{
			PaymentMethod: in.PaymentMethod,
			DueDate:       dueDate,
		}

		if in.EmployeeID != nil {
			var employee models.Employee
			if err := tx.First(&employee, *in.EmployeeID).Error; err != nil {
				return notFound(err, "Employee not found")
			}
			sale.EmployeeID = &employee.ID
			sale.EmployeeName = employee.Name
		}

		// 1. Loop through cart items
		var total float64
		for _, item := range in.Items {
			var product models.Product

			// Lock the row to prevent race conditions
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, item.ProductID).Error; err != nil {
				return notFound(err, "Product %d not found", item.ProductID)
			}

			// Check Stock
			if product.StockQty < item.Qty {
				return apperr.BadRequest("Insufficient stock for %s", product.Name)
			}

			// Deduct Stock
			err := tx.Model(&product).UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", item.Qty)).Error
			if err != nil {
				return errors.Wrap(err, "deduct stock")
			}

			subtotal := utils.Round2(float64(item.Qty) * item.UnitPrice)
			sale.Items = append(sale.Items, models.SaleItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Qty:         item.Qty,
				UnitPrice:   item.UnitPrice,
				Subtotal:    subtotal,
			})
			total += subtotal
		}
		sale.Total = utils.Round2(total)

		// 2. Create the Sale Header (GORM inserts the items too)
		if err := tx.Create(&sale).Error; err != nil {
			return errors.Wrap(err, "create sale")
		}

		// 3. Post the charge for credit sales
		if sale.PaymentMethod == models.PaymentCredit {
			charge := models.CreditTransaction{
				EmployeeID: *sale.EmployeeID,
				Type:       models.CreditCharge,
				Amount:     sale.Total,
				SaleID:     &sale.ID,
			}
			if err := tx.Create(&charge).Error; err != nil {
				return errors.Wrap(err, "record credit charge")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &models.Receipt{ID: sale.ID, Total: sale.Total}, nil
}
