package coordinator

import "go-stockctl/internal/cache"

// Kind is a mutation the CLI can submit.
type Kind string

const (
	CreateProduct    Kind = "create-product"
	UpdateProduct    Kind = "update-product"
	DeleteProduct    Kind = "delete-product"
	CreateSupplier   Kind = "create-supplier"
	UpdateSupplier   Kind = "update-supplier"
	DeleteSupplier   Kind = "delete-supplier"
	CreatePurchase   Kind = "create-purchase"
	UpdatePurchase   Kind = "update-purchase"
	CancelPurchase   Kind = "cancel-purchase"
	CreateSale       Kind = "create-sale"
	AddCreditPayment Kind = "add-credit-payment"
	CreateEmployee   Kind = "create-employee"
	UpdateEmployee   Kind = "update-employee"
	DeleteEmployee   Kind = "delete-employee"
)

// invalidates lists the keys each mutation makes stale.
var invalidates = map[Kind][]cache.Key{
	CreateProduct:    {cache.Products, cache.Summary},
	UpdateProduct:    {cache.Products, cache.Summary},
	DeleteProduct:    {cache.Products, cache.Summary},
	CreateSupplier:   {cache.Suppliers},
	UpdateSupplier:   {cache.Suppliers},
	DeleteSupplier:   {cache.Suppliers},
	CreatePurchase:   {cache.Purchases, cache.Products, cache.Summary},
	UpdatePurchase:   {cache.Purchases, cache.Products, cache.Summary},
	CancelPurchase:   {cache.Purchases, cache.Products, cache.Summary},
	CreateSale:       {cache.Products, cache.Summary, cache.Credit},
	AddCreditPayment: {cache.Credit, cache.PaymentHistory},
	CreateEmployee:   {cache.Employees, cache.Credit},
	UpdateEmployee:   {cache.Employees, cache.Credit},
	DeleteEmployee:   {cache.Employees, cache.Credit},
}

// Invalidates returns the keys a successful mutation of kind makes stale.
func Invalidates(kind Kind) []cache.Key {
	return append([]cache.Key(nil), invalidates[kind]...)
}

var fallbacks = map[Kind]string{
	CreateProduct:    "Failed to add product",
	UpdateProduct:    "Failed to update product",
	DeleteProduct:    "Delete failed",
	CreateSupplier:   "Failed to add supplier",
	UpdateSupplier:   "Failed to update supplier",
	DeleteSupplier:   "Delete failed",
	CreatePurchase:   "Failed to record purchase",
	UpdatePurchase:   "Failed to update purchase",
	CancelPurchase:   "Failed to cancel purchase",
	CreateSale:       "Sale failed",
	AddCreditPayment: "Payment failed",
	CreateEmployee:   "Failed to add employee",
	UpdateEmployee:   "Failed to update employee",
	DeleteEmployee:   "Delete failed",
}

// Fallback is the message shown when the server gives no detail.
func Fallback(kind Kind) string {
	if msg, ok := fallbacks[kind]; ok {
		return msg
	}
	return "Request failed"
}

// Control is one submit button: a kind, optionally scoped to a record (the
// employee of a payment, the product being edited).
type Control struct {
	Kind  Kind
	Scope string
}

type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "success"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}
