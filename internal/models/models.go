package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethod - How a sale was settled
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentCredit PaymentMethod = "credit"
)

// CreditType - Direction of a credit ledger entry
type CreditType string

const (
	CreditCharge  CreditType = "charge"
	CreditPayment CreditType = "payment"
)

// Product - The Inventory
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:120" json:"name"`
	SKU          string         `gorm:"uniqueIndex;size:64" json:"sku"`
	Unit         string         `gorm:"size:32" json:"unit"`
	Price        float64        `json:"price"`
	CostPrice    float64        `json:"cost_price"`
	StockQty     int            `json:"stock_qty"`
	ReorderLevel int            `json:"reorder_level"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Supplier - Where purchased stock comes from
type Supplier struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:120" json:"name"`
	Phone     *string        `gorm:"size:40" json:"phone"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Employee - Staff who may buy on credit
type Employee struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:120" json:"name"`
	Phone     *string        `gorm:"size:40" json:"phone"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Purchase - Stock coming in from a supplier
type Purchase struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SupplierID   uint           `json:"supplier_id"`
	SupplierName string         `gorm:"size:120" json:"supplier_name"` // Snapshot of supplier name
	Total        float64        `json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
	Items        []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items"`
}

// PurchaseItem - One line of a purchase
type PurchaseItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	PurchaseID  uint    `gorm:"index" json:"purchase_id"`
	ProductID   uint    `gorm:"index" json:"product_id"`
	ProductName string  `gorm:"size:120" json:"product_name"` // Snapshot, survives product deletion
	Qty         int     `json:"qty"`
	UnitCost    float64 `json:"unit_cost"`
	Subtotal    float64 `json:"subtotal"`
}

// Sale - The Transaction Header
type Sale struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	EmployeeID    *uint         `gorm:"index" json:"employee_id"`
	EmployeeName  string        `gorm:"size:120" json:"employee_name"`
	PaymentMethod PaymentMethod `gorm:"size:16" json:"payment_method"`
	Total         float64       `json:"total"`
	DueDate       *time.Time    `json:"due_date"`
	CreatedAt     time.Time     `json:"created_at"`
	Items         []SaleItem    `gorm:"foreignKey:SaleID" json:"items"`
}

// SaleItem - The specific items in a cart
type SaleItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SaleID      uint    `gorm:"index" json:"sale_id"`
	ProductID   uint    `gorm:"index" json:"product_id"`
	ProductName string  `gorm:"size:120" json:"product_name"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"` // Snapshot of price at time of sale
	Subtotal    float64 `json:"subtotal"`
}

// CreditTransaction - The employee credit ledger
type CreditTransaction struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID uint       `gorm:"index" json:"employee_id"`
	Type       CreditType `gorm:"size:16" json:"type"`
	Amount     float64    `json:"amount"`
	SaleID     *uint      `json:"sale_id"`
	Note       *string    `json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
}
