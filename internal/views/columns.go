package views

import (
	"strconv"

	"go-stockctl/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount formats money with thousands separators and two decimals.
func Amount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

const dateLayout = "2006-01-02"

var LowStockColumns = []Column[LowStockRow]{
	{Label: "Product", Value: func(r LowStockRow) string { return r.Name }},
	{Label: "SKU", Value: func(r LowStockRow) string { return r.SKU }},
	{Label: "Stock", Value: func(r LowStockRow) string { return strconv.Itoa(r.StockQty) }},
	{Label: "Reorder ≤", Value: func(r LowStockRow) string { return strconv.Itoa(r.ReorderLevel) }},
	{Label: "Needed", Value: func(r LowStockRow) string { return strconv.Itoa(r.Needed) }},
}

var PurchaseColumns = []Column[models.PurchaseListItem]{
	{Label: "Date", Value: func(p models.PurchaseListItem) string { return p.CreatedAt.Local().Format(dateLayout) }},
	{Label: "Supplier", Value: func(p models.PurchaseListItem) string { return p.SupplierName }},
	{Label: "Items", Value: func(p models.PurchaseListItem) string { return strconv.Itoa(p.ItemCount) }},
	{Label: "Total", Value: func(p models.PurchaseListItem) string { return Amount(p.Total) }},
}

var CreditColumns = []Column[models.CreditSummary]{
	{Label: "Employee", Value: func(c models.CreditSummary) string { return c.EmployeeName }},
	{Label: "Balance", Value: func(c models.CreditSummary) string { return Amount(c.Balance) }},
}

var PaymentColumns = []Column[models.PaymentHistory]{
	{Label: "Employee", Value: func(h models.PaymentHistory) string { return h.EmployeeName }},
	{Label: "Total paid", Value: func(h models.PaymentHistory) string { return Amount(h.TotalPaid) }},
	{Label: "Products", Value: func(h models.PaymentHistory) string { return strconv.Itoa(len(h.Products)) }},
}

var EmployeeColumns = []Column[EmployeeBalance]{
	{Label: "ID", Value: func(e EmployeeBalance) string { return strconv.FormatUint(uint64(e.ID), 10) }},
	{Label: "Name", Value: func(e EmployeeBalance) string { return e.Name }},
	{Label: "Phone", Value: func(e EmployeeBalance) string {
		if e.Phone == nil {
			return ""
		}
		return *e.Phone
	}},
	{Label: "Balance", Value: func(e EmployeeBalance) string { return Amount(e.Balance) }},
}
