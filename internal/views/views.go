// Package views derives the tables the CLI renders from raw API data.
// Every function is pure and leaves its input slice untouched.
package views

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"go-stockctl/internal/models"
	"go-stockctl/internal/utils"
)

// OutstandingTolerance is how far the dashboard's outstanding figure may
// drift from the locally summed credit list before it is flagged.
const OutstandingTolerance = 0.01

// LowStockRow is a product at or below its reorder level.
type LowStockRow struct {
	models.Product
	Needed     int  `json:"needed"`
	OutOfStock bool `json:"out_of_stock"`
}

// LowStock returns products with stock_qty <= reorder_level, largest deficit
// first and then by name.
func LowStock(products []models.Product) []LowStockRow {
	rows := make([]LowStockRow, 0, len(products))
	for _, p := range products {
		if p.StockQty > p.ReorderLevel {
			continue
		}
		rows = append(rows, LowStockRow{
			Product:    p,
			Needed:     max(0, p.ReorderLevel-p.StockQty),
			OutOfStock: p.StockQty <= 0,
		})
	}
	slices.SortStableFunc(rows, func(a, b LowStockRow) int {
		da, db := a.ReorderLevel-a.StockQty, b.ReorderLevel-b.StockQty
		if da != db {
			return cmp.Compare(db, da)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return rows
}

// RankDebtors keeps employees who owe something, highest balance first.
// Equal balances keep their server order.
func RankDebtors(credit []models.CreditSummary) []models.CreditSummary {
	out := make([]models.CreditSummary, 0, len(credit))
	for _, c := range credit {
		if c.Balance > 0 {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.CreditSummary) int {
		return cmp.Compare(b.Balance, a.Balance)
	})
	return out
}

// TopDebtors is the first n entries of RankDebtors.
func TopDebtors(credit []models.CreditSummary, n int) []models.CreditSummary {
	ranked := RankDebtors(credit)
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// OutstandingTotal sums every positive balance, not only the top ones.
func OutstandingTotal(credit []models.CreditSummary) float64 {
	var total float64
	for _, c := range credit {
		if c.Balance > 0 {
			total += c.Balance
		}
	}
	return utils.Round2(total)
}

// Reconciliation compares the locally derived outstanding credit with the
// figure the dashboard reported. Local is the value to display.
type Reconciliation struct {
	Local    float64
	Reported float64
	Diverged bool
}

func ReconcileOutstanding(credit []models.CreditSummary, summary models.DashboardSummary) Reconciliation {
	local := OutstandingTotal(credit)
	return Reconciliation{
		Local:    local,
		Reported: summary.OutstandingCredit,
		Diverged: math.Abs(local-summary.OutstandingCredit) > OutstandingTolerance,
	}
}

// EmployeeBalance is an employee joined with the balance they owe.
type EmployeeBalance struct {
	models.Employee
	Balance float64 `json:"balance"`
}

// EmployeeBalances annotates employees with their credit balance, 0 when the
// credit list has no entry for them.
func EmployeeBalances(employees []models.Employee, credit []models.CreditSummary) []EmployeeBalance {
	byID := make(map[uint]float64, len(credit))
	for _, c := range credit {
		byID[c.EmployeeID] = c.Balance
	}
	out := make([]EmployeeBalance, len(employees))
	for i, e := range employees {
		out[i] = EmployeeBalance{Employee: e, Balance: byID[e.ID]}
	}
	return out
}

// RankPayers orders payment history by total paid, highest first.
func RankPayers(history []models.PaymentHistory) []models.PaymentHistory {
	out := make([]models.PaymentHistory, 0, len(history))
	for _, h := range history {
		if h.TotalPaid > 0 {
			out = append(out, h)
		}
	}
	slices.SortStableFunc(out, func(a, b models.PaymentHistory) int {
		return cmp.Compare(b.TotalPaid, a.TotalPaid)
	})
	return out
}

func TotalPaid(history []models.PaymentHistory) float64 {
	var total float64
	for _, h := range history {
		total += h.TotalPaid
	}
	return utils.Round2(total)
}

// PurchaseLocked reports whether the backend has frozen a purchase for
// editing. The client never recomputes the rule.
func PurchaseLocked(p models.PurchaseListItem) bool {
	return p.IsEditLocked
}

// FilterPurchasesByDate keeps purchases created within [from, to], both taken
// as whole local days. A zero bound is open.
func FilterPurchasesByDate(purchases []models.PurchaseListItem, from, to time.Time) []models.PurchaseListItem {
	if from.IsZero() && to.IsZero() {
		return purchases
	}
	var start, end time.Time
	if !from.IsZero() {
		start = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	}
	if !to.IsZero() {
		end = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.Local)
	}
	out := make([]models.PurchaseListItem, 0, len(purchases))
	for _, p := range purchases {
		if !start.IsZero() && p.CreatedAt.Before(start) {
			continue
		}
		if !end.IsZero() && p.CreatedAt.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Totals are the report cards, computed from the lists rather than the
// dashboard endpoint.
type Totals struct {
	TotalProducts     int
	LowStockCount     int
	TotalStockValue   float64
	OutstandingCredit float64
}

func ReportTotals(products []models.Product, credit []models.CreditSummary) Totals {
	return Totals{
		TotalProducts:     len(products),
		LowStockCount:     len(LowStock(products)),
		TotalStockValue:   StockValue(products),
		OutstandingCredit: OutstandingTotal(credit),
	}
}

// StockValue is the cost of everything on the shelf.
func StockValue(products []models.Product) float64 {
	var total float64
	for _, p := range products {
		total += p.CostPrice * float64(p.StockQty)
	}
	return utils.Round2(total)
}
