package models

import "time"

// SummaryVersion is stamped on every dashboard summary this server produces.
// A body without it is decoded through the legacy adapter in the client.
const SummaryVersion = 1

// PurchaseProduct - A purchase line as shown in the history table
type PurchaseProduct struct {
	Name     string  `json:"name"`
	Qty      int     `json:"qty"`
	UnitCost float64 `json:"unit_cost"`
	Subtotal float64 `json:"subtotal"`
}

// PurchaseListItem - One row of GET /purchases/
type PurchaseListItem struct {
	ID           uint              `json:"id"`
	SupplierID   uint              `json:"supplier_id"`
	SupplierName string            `json:"supplier_name"`
	Total        float64           `json:"total"`
	CreatedAt    time.Time         `json:"created_at"`
	ItemCount    int               `json:"item_count"`
	Products     []PurchaseProduct `json:"products"`
	IsEditLocked bool              `json:"is_edit_locked"`
}

type PurchaseDetailItem struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	UnitCost    float64 `json:"unit_cost"`
	Subtotal    float64 `json:"subtotal"`
	SoldQty     int     `json:"sold_qty"`
}

// PurchaseDetail - GET /purchases/{id}
type PurchaseDetail struct {
	ID           uint                 `json:"id"`
	SupplierID   uint                 `json:"supplier_id"`
	SupplierName string               `json:"supplier_name"`
	Total        float64              `json:"total"`
	CreatedAt    time.Time            `json:"created_at"`
	IsEditLocked bool                 `json:"is_edit_locked"`
	Items        []PurchaseDetailItem `json:"items"`
}

// Receipt - What create/update of a purchase or a sale returns
type Receipt struct {
	ID    uint    `json:"id"`
	Total float64 `json:"total"`
}

// CreditProduct - A product line bought on credit
type CreditProduct struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Qty          int       `json:"qty"`
	UnitPrice    float64   `json:"unit_price"`
	Subtotal     float64   `json:"subtotal"`
	PurchaseDate time.Time `json:"purchase_date"`
}

type CreditSummary struct {
	EmployeeID   uint            `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Balance      float64         `json:"balance"`
	Products     []CreditProduct `json:"products"`
}

type PaymentHistory struct {
	EmployeeID   uint            `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	TotalPaid    float64         `json:"total_paid"`
	Products     []CreditProduct `json:"products"`
}

// PaymentResult - POST /credits/{id}/payments
type PaymentResult struct {
	ID        uint    `json:"id"`
	Applied   float64 `json:"applied"`
	Remaining float64 `json:"remaining"`
}

type TopSoldProduct struct {
	Name      string  `json:"name"`
	TotalSold float64 `json:"total_sold"`
}

type DashboardSummary struct {
	Version           int              `json:"version"`
	TotalProducts     int              `json:"total_products"`
	LowStockCount     int              `json:"low_stock_count"`
	TotalStockValue   float64          `json:"total_stock_value"`
	OutstandingCredit float64          `json:"outstanding_credit"`
	TopSoldProducts   []TopSoldProduct `json:"top_sold_products,omitempty"`
}

// SalesReport - Revenue inside a date range
type SalesReport struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	TotalRevenue float64   `json:"total_revenue"`
	TotalCount   int64     `json:"total_count"`
}

// ValuationItem represents a single row of the valuation table
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// UnitGroup represents one table of the valuation report (e.g. every "bag")
type UnitGroup struct {
	Unit     string          `json:"unit"`
	Items    []ValuationItem `json:"items"`
	Subtotal float64         `json:"subtotal"`
}

type ValuationResponse struct {
	Groups     []UnitGroup `json:"groups"`
	GrandTotal float64     `json:"grand_total"`
}

// SeedResult - POST /dev/seed
type SeedResult struct {
	Status            string  `json:"status"`
	ProductsCreated   int     `json:"products_created"`
	EmployeesCreated  int     `json:"employees_created"`
	SuppliersCreated  int     `json:"suppliers_created"`
	SalesCreated      int     `json:"sales_created"`
	CreditTxns        int     `json:"credit_transactions"`
	OutstandingCredit float64 `json:"outstanding_credit"`
}
