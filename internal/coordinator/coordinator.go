// Package coordinator submits mutations to the API one control at a time and
// invalidates the cache keys each successful mutation makes stale.
package coordinator

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"go-stockctl/internal/cache"
	"go-stockctl/internal/models"

	"github.com/go-playground/validator/v10"
)

// API is the set of mutating calls the coordinator drives.
type API interface {
	CreateProduct(ctx context.Context, in models.ProductCreate) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, in models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error

	CreateSupplier(ctx context.Context, in models.SupplierCreate) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, in models.SupplierUpdate) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error

	GetPurchase(ctx context.Context, id uint) (*models.PurchaseDetail, error)
	CreatePurchase(ctx context.Context, in models.PurchaseCreate) (*models.Receipt, error)
	UpdatePurchase(ctx context.Context, id uint, in models.PurchaseUpdate) (*models.Receipt, error)
	CancelPurchase(ctx context.Context, id uint) error

	CreateSale(ctx context.Context, in models.SaleCreate) (*models.Receipt, error)
	AddCreditPayment(ctx context.Context, employeeID uint, in models.PaymentIn) (*models.PaymentResult, error)

	CreateEmployee(ctx context.Context, in models.EmployeeCreate) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id uint, in models.EmployeeUpdate) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
}

type Coordinator struct {
	api      API
	cache    *cache.Store
	validate *validator.Validate
	log      *slog.Logger

	mu     sync.Mutex
	states map[Control]State
}

func New(api API, store *cache.Store, log *slog.Logger) *Coordinator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Same rules the server binds with
	v.SetTagName("binding")
	return &Coordinator{
		api:      api,
		cache:    store,
		validate: v,
		log:      log,
		states:   map[Control]State{},
	}
}

// State reports where ctl is in idle -> pending -> success/error.
func (c *Coordinator) State(ctl Control) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[ctl]
}

func (c *Coordinator) begin(ctl Control) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[ctl] == Pending {
		return false
	}
	c.states[ctl] = Pending
	return true
}

func (c *Coordinator) finish(ctl Control, state State) {
	c.mu.Lock()
	c.states[ctl] = state
	c.mu.Unlock()
}

// run validates input, moves ctl to pending, performs call and on success
// invalidates the kind's keys before reporting success.
func run[T any](ctx context.Context, c *Coordinator, ctl Control, input any, call func(context.Context) (T, error)) (T, error) {
	var zero T
	if input != nil {
		if err := c.validate.Struct(input); err != nil {
			return zero, validationError(err)
		}
	}
	if !c.begin(ctl) {
		return zero, ErrInFlight
	}
	c.log.Debug("mutation pending", slog.String("kind", string(ctl.Kind)), slog.String("scope", ctl.Scope))

	v, err := call(ctx)
	if err != nil {
		c.finish(ctl, Failed)
		c.log.Debug("mutation failed", slog.String("kind", string(ctl.Kind)), slog.Any("error", err))
		return zero, err
	}

	c.cache.Invalidate(invalidates[ctl.Kind]...)
	c.finish(ctl, Succeeded)
	c.log.Debug("mutation succeeded", slog.String("kind", string(ctl.Kind)))
	return v, nil
}

// exec is run for calls that only return an error.
func exec(ctx context.Context, c *Coordinator, ctl Control, input any, call func(context.Context) error) error {
	_, err := run(ctx, c, ctl, input, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	})
	return err
}

func scope(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// --- Products ---

func (c *Coordinator) CreateProduct(ctx context.Context, in models.ProductCreate) (*models.Product, error) {
	return run(ctx, c, Control{Kind: CreateProduct}, &in, func(ctx context.Context) (*models.Product, error) {
		return c.api.CreateProduct(ctx, in)
	})
}

func (c *Coordinator) UpdateProduct(ctx context.Context, id uint, in models.ProductUpdate) (*models.Product, error) {
	return run(ctx, c, Control{Kind: UpdateProduct, Scope: scope(id)}, &in, func(ctx context.Context) (*models.Product, error) {
		return c.api.UpdateProduct(ctx, id, in)
	})
}

func (c *Coordinator) DeleteProduct(ctx context.Context, id uint) error {
	return exec(ctx, c, Control{Kind: DeleteProduct, Scope: scope(id)}, nil, func(ctx context.Context) error {
		return c.api.DeleteProduct(ctx, id)
	})
}

// --- Suppliers ---

func (c *Coordinator) CreateSupplier(ctx context.Context, in models.SupplierCreate) (*models.Supplier, error) {
	return run(ctx, c, Control{Kind: CreateSupplier}, &in, func(ctx context.Context) (*models.Supplier, error) {
		return c.api.CreateSupplier(ctx, in)
	})
}

func (c *Coordinator) UpdateSupplier(ctx context.Context, id uint, in models.SupplierUpdate) (*models.Supplier, error) {
	return run(ctx, c, Control{Kind: UpdateSupplier, Scope: scope(id)}, &in, func(ctx context.Context) (*models.Supplier, error) {
		return c.api.UpdateSupplier(ctx, id, in)
	})
}

func (c *Coordinator) DeleteSupplier(ctx context.Context, id uint) error {
	return exec(ctx, c, Control{Kind: DeleteSupplier, Scope: scope(id)}, nil, func(ctx context.Context) error {
		return c.api.DeleteSupplier(ctx, id)
	})
}

// --- Purchases ---

func (c *Coordinator) CreatePurchase(ctx context.Context, in models.PurchaseCreate) (*models.Receipt, error) {
	return run(ctx, c, Control{Kind: CreatePurchase}, &in, func(ctx context.Context) (*models.Receipt, error) {
		return c.api.CreatePurchase(ctx, in)
	})
}

// UpdatePurchase re-reads the purchase first and refuses, without calling the
// update endpoint, when the server reports it locked.
func (c *Coordinator) UpdatePurchase(ctx context.Context, id uint, in models.PurchaseUpdate) (*models.Receipt, error) {
	return run(ctx, c, Control{Kind: UpdatePurchase, Scope: scope(id)}, &in, func(ctx context.Context) (*models.Receipt, error) {
		detail, err := c.api.GetPurchase(ctx, id)
		if err != nil {
			return nil, err
		}
		if detail.IsEditLocked {
			return nil, ErrPurchaseLocked
		}
		return c.api.UpdatePurchase(ctx, id, in)
	})
}

func (c *Coordinator) CancelPurchase(ctx context.Context, id uint) error {
	return exec(ctx, c, Control{Kind: CancelPurchase, Scope: scope(id)}, nil, func(ctx context.Context) error {
		return c.api.CancelPurchase(ctx, id)
	})
}

// --- Sales & credit ---

func (c *Coordinator) CreateSale(ctx context.Context, in models.SaleCreate) (*models.Receipt, error) {
	return run(ctx, c, Control{Kind: CreateSale}, &in, func(ctx context.Context) (*models.Receipt, error) {
		return c.api.CreateSale(ctx, in)
	})
}

func (c *Coordinator) AddCreditPayment(ctx context.Context, employeeID uint, in models.PaymentIn) (*models.PaymentResult, error) {
	return run(ctx, c, Control{Kind: AddCreditPayment, Scope: scope(employeeID)}, &in, func(ctx context.Context) (*models.PaymentResult, error) {
		return c.api.AddCreditPayment(ctx, employeeID, in)
	})
}

// --- Employees ---

func (c *Coordinator) CreateEmployee(ctx context.Context, in models.EmployeeCreate) (*models.Employee, error) {
	return run(ctx, c, Control{Kind: CreateEmployee}, &in, func(ctx context.Context) (*models.Employee, error) {
		return c.api.CreateEmployee(ctx, in)
	})
}

func (c *Coordinator) UpdateEmployee(ctx context.Context, id uint, in models.EmployeeUpdate) (*models.Employee, error) {
	return run(ctx, c, Control{Kind: UpdateEmployee, Scope: scope(id)}, &in, func(ctx context.Context) (*models.Employee, error) {
		return c.api.UpdateEmployee(ctx, id, in)
	})
}

func (c *Coordinator) DeleteEmployee(ctx context.Context, id uint) error {
	return exec(ctx, c, Control{Kind: DeleteEmployee, Scope: scope(id)}, nil, func(ctx context.Context) error {
		return c.api.DeleteEmployee(ctx, id)
	})
}
