package database

import (
	"context"
	"math"
	"time"

	"go-stockctl/internal/apperr"
	"go-stockctl/internal/models"
	"go-stockctl/internal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const balanceEpsilon = 0.005

type ledgerRow struct {
	EmployeeID uint
	Charges    float64
	Payments   float64
}

// ledger returns charges and payments per employee.
func ledger(db *gorm.DB, employeeID *uint) (map[uint]ledgerRow, error) {
	var rows []ledgerRow
	q := db.Model(&models.CreditTransaction{}).
		Select(
			"employee_id, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS charges, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS payments",
			models.CreditCharge, models.CreditPayment,
		).
		Group("employee_id")
	if employeeID != nil {
		q = q.Where("employee_id = ?", *employeeID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "sum credit ledger")
	}

	out := make(map[uint]ledgerRow, len(rows))
	for _, r := range rows {
		out[r.EmployeeID] = r
	}
	return out, nil
}

func (r ledgerRow) balance() float64 {
	return utils.Round2(r.Charges - r.Payments)
}

type creditLine struct {
	EmployeeID uint
	ProductID  uint
	Name       string
	Qty        int
	UnitPrice  float64
	Subtotal   float64
	CreatedAt  time.Time
}

// creditProducts lists the lines of every credit sale, grouped by employee.
func creditProducts(db *gorm.DB) (map[uint][]models.CreditProduct, error) {
	var lines []creditLine
	err := db.Table("sale_items").
		Select("sales.employee_id AS employee_id, sale_items.product_id AS product_id, " +
			"sale_items.product_name AS name, sale_items.qty AS qty, sale_items.unit_price AS unit_price, " +
			"sale_items.subtotal AS subtotal, sales.created_at AS created_at").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.payment_method = ? AND sales.employee_id IS NOT NULL", models.PaymentCredit).
		Order("sales.created_at asc, sale_items.id asc").
		Scan(&lines).Error
	if err != nil {
		return nil, errors.Wrap(err, "list credit lines")
	}

	out := map[uint][]models.CreditProduct{}
	for _, l := range lines {
		out[l.EmployeeID] = append(out[l.EmployeeID], models.CreditProduct{
			ID:           l.ProductID,
			Name:         l.Name,
			Qty:          l.Qty,
			UnitPrice:    l.UnitPrice,
			Subtotal:     l.Subtotal,
			PurchaseDate: l.CreatedAt,
		})
	}
	return out, nil
}

// CreditSummary lists every employee with a non-zero ledger. Overpaid
// balances are reported as 0.
func (s *Store) CreditSummary(ctx context.Context) ([]models.CreditSummary, error) {
	db := s.db.WithContext(ctx)
	balances, err := ledger(db, nil)
	if err != nil {
		return nil, err
	}
	lines, err := creditProducts(db)
	if err != nil {
		return nil, err
	}

	// Deleted employees may still owe money
	var employees []models.Employee
	if err := db.Unscoped().Order("id asc").Find(&employees).Error; err != nil {
		return nil, errors.Wrap(err, "list employees")
	}

	out := []models.CreditSummary{}
	for _, e := range employees {
		raw := balances[e.ID].balance()
		if math.Abs(raw) < balanceEpsilon {
			continue
		}
		products := lines[e.ID]
		if products == nil {
			products = []models.CreditProduct{}
		}
		out = append(out, models.CreditSummary{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			Balance:      math.Max(raw, 0),
			Products:     products,
		})
	}
	return out, nil
}

// EmployeeBalance never reports a negative balance.
func (s *Store) EmployeeBalance(ctx context.Context, employeeID uint) (float64, error) {
	db := s.db.WithContext(ctx)
	var employee models.Employee
	if err := db.Unscoped().First(&employee, employeeID).Error; err != nil {
		return 0, notFound(err, "Employee not found")
	}
	balances, err := ledger(db, &employeeID)
	if err != nil {
		return 0, err
	}
	return math.Max(balances[employeeID].balance(), 0), nil
}

// RecordPayment books a repayment that may not exceed what is owed.
func (s *Store) RecordPayment(ctx context.Context, employeeID uint, in models.PaymentIn) (*models.PaymentResult, error) {
	if in.Amount <= 0 {
		return nil, apperr.BadRequest("Payment must be positive")
	}

	var result models.PaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialises payments for one employee until the ledger check commits
		var employee models.Employee
		if err := tx.Unscoped().Clauses(clause.Locking{Strength: "UPDATE"}).First(&employee, employeeID).Error; err != nil {
			return notFound(err, "Employee not found")
		}

		balances, err := ledger(tx, &employeeID)
		if err != nil {
			return err
		}
		outstanding := balances[employeeID].balance()
		if outstanding <= 0 {
			return apperr.Conflict("No outstanding balance for this employee.")
		}
		if in.Amount > outstanding+balanceEpsilon/10 {
			return apperr.Conflict("Payment exceeds outstanding balance. Remaining: %.2f", outstanding)
		}

		txn := models.CreditTransaction{
			EmployeeID: employeeID,
			Type:       models.CreditPayment,
			Amount:     utils.Round2(in.Amount),
			Note:       trimmed(in.Note),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return errors.Wrap(err, "record payment")
		}

		result = models.PaymentResult{
			ID:        txn.ID,
			Applied:   txn.Amount,
			Remaining: utils.Round2(outstanding - txn.Amount),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PaymentHistory lists employees who have paid anything back.
func (s *Store) PaymentHistory(ctx context.Context) ([]models.PaymentHistory, error) {
	db := s.db.WithContext(ctx)
	balances, err := ledger(db, nil)
	if err != nil {
		return nil, err
	}
	lines, err := creditProducts(db)
	if err != nil {
		return nil, err
	}

	var employees []models.Employee
	if err := db.Unscoped().Order("id asc").Find(&employees).Error; err != nil {
		return nil, errors.Wrap(err, "list employees")
	}

	out := []models.PaymentHistory{}
	for _, e := range employees {
		paid := utils.Round2(balances[e.ID].Payments)
		if paid <= 0 {
			continue
		}
		products := lines[e.ID]
		if products == nil {
			products = []models.CreditProduct{}
		}
		out = append(out, models.PaymentHistory{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			TotalPaid:    paid,
			Products:     products,
		})
	}
	return out, nil
}

// outstandingCredit is the sum of positive balances.
func outstandingCredit(db *gorm.DB) (float64, error) {
	balances, err := ledger(db, nil)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, r := range balances {
		if b := r.balance(); b > 0 {
			total += b
		}
	}
	return utils.Round2(total), nil
}
