package cache

// Key names one server resource collection.
type Key string

const (
	Products       Key = "products"
	Summary        Key = "summary"
	Suppliers      Key = "suppliers"
	Purchases      Key = "purchases"
	Credit         Key = "credit"
	PaymentHistory Key = "payment-history"
	Employees      Key = "employees"
)
