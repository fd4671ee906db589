package coordinator

import (
	"context"
	"sync"

	"go-stockctl/internal/client"
	"go-stockctl/internal/models"
	"go-stockctl/internal/utils"
)

// fakeBackend is a tiny in-memory shop standing in for the HTTP API.
type fakeBackend struct {
	mu       sync.Mutex
	products []models.Product
	balances map[uint]float64
	locked   map[uint]bool
	calls    map[string]int
	errs     map[string]error
	gate     chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: []models.Product{
			{ID: 1, Name: "Rice", SKU: "RICE", StockQty: 10, ReorderLevel: 5, CostPrice: 25},
			{ID: 2, Name: "Salt", SKU: "SALT", StockQty: 6, ReorderLevel: 8, CostPrice: 8},
		},
		balances: map[uint]float64{},
		locked:   map[uint]bool{},
		calls:    map[string]int{},
		errs:     map[string]error{},
	}
}

func (f *fakeBackend) enter(name string) error {
	f.mu.Lock()
	f.calls[name]++
	gate := f.gate
	err := f.errs[name]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func conflict(detail string) error {
	return client.NewServerError(409, []byte(`{"detail":"`+detail+`"}`))
}

// --- Source ---

func (f *fakeBackend) ListProducts(context.Context) ([]models.Product, error) {
	_ = f.enter("ListProducts")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeBackend) DashboardSummary(context.Context) (*models.DashboardSummary, error) {
	_ = f.enter("DashboardSummary")
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.DashboardSummary{Version: 1, TotalProducts: len(f.products)}
	for _, p := range f.products {
		if p.StockQty <= p.ReorderLevel {
			s.LowStockCount++
		}
	}
	for _, b := range f.balances {
		s.OutstandingCredit += b
	}
	return s, nil
}

func (f *fakeBackend) CreditSummary(context.Context) ([]models.CreditSummary, error) {
	_ = f.enter("CreditSummary")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CreditSummary{}
	for id := uint(1); id <= 3; id++ {
		if b := f.balances[id]; b > 0 {
			out = append(out, models.CreditSummary{EmployeeID: id, Balance: b})
		}
	}
	return out, nil
}

func (f *fakeBackend) PaymentHistory(context.Context) ([]models.PaymentHistory, error) {
	return []models.PaymentHistory{}, nil
}

func (f *fakeBackend) ListSuppliers(context.Context) ([]models.Supplier, error) {
	return []models.Supplier{}, nil
}

func (f *fakeBackend) ListPurchases(context.Context) ([]models.PurchaseListItem, error) {
	return []models.PurchaseListItem{}, nil
}

func (f *fakeBackend) ListEmployees(context.Context) ([]models.Employee, error) {
	return []models.Employee{{ID: 1, Name: "Anna"}, {ID: 2, Name: "Ben"}}, nil
}

// --- API ---

func (f *fakeBackend) CreateProduct(_ context.Context, in models.ProductCreate) (*models.Product, error) {
	if err := f.enter("CreateProduct"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.Product{ID: uint(len(f.products) + 1), Name: in.Name, SKU: utils.NormalizeSKU(in.SKU), Unit: in.Unit}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, id uint, in models.ProductUpdate) (*models.Product, error) {
	if err := f.enter("UpdateProduct"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			if in.StockQty != nil {
				f.products[i].StockQty = *in.StockQty
			}
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, client.NewServerError(404, []byte(`{"detail":"Product not found"}`))
}

func (f *fakeBackend) DeleteProduct(context.Context, uint) error {
	return f.enter("DeleteProduct")
}

func (f *fakeBackend) CreateSupplier(_ context.Context, in models.SupplierCreate) (*models.Supplier, error) {
	if err := f.enter("CreateSupplier"); err != nil {
		return nil, err
	}
	return &models.Supplier{ID: 1, Name: in.Name}, nil
}

func (f *fakeBackend) UpdateSupplier(_ context.Context, id uint, in models.SupplierUpdate) (*models.Supplier, error) {
	if err := f.enter("UpdateSupplier"); err != nil {
		return nil, err
	}
	return &models.Supplier{ID: id}, nil
}

func (f *fakeBackend) DeleteSupplier(context.Context, uint) error {
	return f.enter("DeleteSupplier")
}

func (f *fakeBackend) GetPurchase(_ context.Context, id uint) (*models.PurchaseDetail, error) {
	if err := f.enter("GetPurchase"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.PurchaseDetail{ID: id, IsEditLocked: f.locked[id]}, nil
}

func (f *fakeBackend) CreatePurchase(_ context.Context, in models.PurchaseCreate) (*models.Receipt, error) {
	if err := f.enter("CreatePurchase"); err != nil {
		return nil, err
	}
	return &models.Receipt{ID: 1}, nil
}

func (f *fakeBackend) UpdatePurchase(_ context.Context, id uint, in models.PurchaseUpdate) (*models.Receipt, error) {
	if err := f.enter("UpdatePurchase"); err != nil {
		return nil, err
	}
	return &models.Receipt{ID: id}, nil
}

func (f *fakeBackend) CancelPurchase(context.Context, uint) error {
	return f.enter("CancelPurchase")
}

func (f *fakeBackend) CreateSale(_ context.Context, in models.SaleCreate) (*models.Receipt, error) {
	if err := f.enter("CreateSale"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, it := range in.Items {
		for i := range f.products {
			if f.products[i].ID == it.ProductID {
				f.products[i].StockQty -= it.Qty
			}
		}
		total += float64(it.Qty) * it.UnitPrice
	}
	if in.PaymentMethod == models.PaymentCredit {
		f.balances[*in.EmployeeID] += total
	}
	return &models.Receipt{ID: 1, Total: total}, nil
}

func (f *fakeBackend) AddCreditPayment(_ context.Context, employeeID uint, in models.PaymentIn) (*models.PaymentResult, error) {
	if err := f.enter("AddCreditPayment"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[employeeID] <= 0 {
		return nil, conflict("No outstanding balance for this employee.")
	}
	f.balances[employeeID] -= in.Amount
	return &models.PaymentResult{ID: 1, Applied: in.Amount, Remaining: f.balances[employeeID]}, nil
}

func (f *fakeBackend) CreateEmployee(_ context.Context, in models.EmployeeCreate) (*models.Employee, error) {
	if err := f.enter("CreateEmployee"); err != nil {
		return nil, err
	}
	return &models.Employee{ID: 3, Name: in.Name}, nil
}

func (f *fakeBackend) UpdateEmployee(_ context.Context, id uint, in models.EmployeeUpdate) (*models.Employee, error) {
	if err := f.enter("UpdateEmployee"); err != nil {
		return nil, err
	}
	return &models.Employee{ID: id}, nil
}

func (f *fakeBackend) DeleteEmployee(context.Context, uint) error {
	return f.enter("DeleteEmployee")
}
