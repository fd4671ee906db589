package models

// Request bodies. The `binding` tags are read by gin on the server and by the
// client-side pre-flight validator, so both ends reject the same input.

type ProductCreate struct {
	Name         string  `json:"name" binding:"required"`
	SKU          string  `json:"sku" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	Price        float64 `json:"price" binding:"gte=0"`
	CostPrice    float64 `json:"cost_price" binding:"gte=0"`
	StockQty     *int    `json:"stock_qty,omitempty" binding:"omitempty,gte=0"`
	ReorderLevel *int    `json:"reorder_level,omitempty" binding:"omitempty,gte=0"`
}

// ProductUpdate - PATCH semantics, nil fields are left alone
type ProductUpdate struct {
	Name         *string  `json:"name,omitempty" binding:"omitempty,min=1"`
	SKU          *string  `json:"sku,omitempty" binding:"omitempty,min=1"`
	Unit         *string  `json:"unit,omitempty" binding:"omitempty,min=1"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	CostPrice    *float64 `json:"cost_price,omitempty" binding:"omitempty,gte=0"`
	StockQty     *int     `json:"stock_qty,omitempty" binding:"omitempty,gte=0"`
	ReorderLevel *int     `json:"reorder_level,omitempty" binding:"omitempty,gte=0"`
}

type SupplierCreate struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone,omitempty"`
}

type SupplierUpdate struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=1"`
	Phone *string `json:"phone,omitempty"`
}

type EmployeeCreate struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone,omitempty"`
}

type EmployeeUpdate struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=1"`
	Phone *string `json:"phone,omitempty"`
}

type PurchaseItemIn struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Qty       int     `json:"qty" binding:"gt=0"`
	UnitCost  float64 `json:"unit_cost" binding:"gt=0"`
}

type PurchaseCreate struct {
	SupplierID uint             `json:"supplier_id" binding:"required"`
	Items      []PurchaseItemIn `json:"items" binding:"required,min=1,dive"`
}

type PurchaseUpdate struct {
	SupplierID *uint            `json:"supplier_id,omitempty" binding:"omitempty,gt=0"`
	Items      []PurchaseItemIn `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

type SaleItemIn struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Qty       int     `json:"qty" binding:"gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

type SaleCreate struct {
	EmployeeID    *uint         `json:"employee_id,omitempty" binding:"required_if=PaymentMethod credit"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required,oneof=cash card credit"`
	Items         []SaleItemIn  `json:"items" binding:"required,min=1,dive"`
	DueDate       *string       `json:"due_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

type PaymentIn struct {
	Amount float64 `json:"amount" binding:"gt=0"`
	Note   *string `json:"note,omitempty"`
}

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}
