package coordinator

import (
	"context"
	"testing"
	"time"

	"go-stockctl/internal/cache"
	"go-stockctl/internal/client"
	"go-stockctl/internal/logs"
	"go-stockctl/internal/models"
	"go-stockctl/internal/queries"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup() (*fakeBackend, *cache.Store, *Coordinator, *queries.Queries) {
	backend := newFakeBackend()
	store := cache.New(logs.Discard())
	return backend, store, New(backend, store, logs.Discard()), queries.New(backend, store)
}

func uintPtr(v uint) *uint { return &v }

func TestSaleRefreshesProductsSummaryAndCredit(t *testing.T) {
	backend, _, coord, q := setup()
	ctx := context.Background()

	products, err := q.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, products[0].StockQty)
	summary, err := q.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.LowStockCount)
	credit, err := q.Credit(ctx)
	require.NoError(t, err)
	assert.Empty(t, credit)

	_, err = coord.CreateSale(ctx, models.SaleCreate{
		EmployeeID:    uintPtr(1),
		PaymentMethod: models.PaymentCredit,
		Items:         []models.SaleItemIn{{ProductID: 1, Qty: 6, UnitPrice: 35}},
	})
	require.NoError(t, err)
	assert.Equal(t, Succeeded, coord.State(Control{Kind: CreateSale}))

	products, err = q.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, products[0].StockQty)
	summary, err = q.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.LowStockCount)
	credit, err = q.Credit(ctx)
	require.NoError(t, err)
	require.Len(t, credit, 1)
	assert.Equal(t, 210.0, credit[0].Balance)

	assert.Equal(t, 2, backend.count("ListProducts"))
	assert.Equal(t, 2, backend.count("CreditSummary"))
}

func TestUntouchedKeysStayCached(t *testing.T) {
	backend, store, coord, q := setup()
	ctx := context.Background()

	_, err := q.Products(ctx)
	require.NoError(t, err)
	_, err = q.Employees(ctx)
	require.NoError(t, err)

	_, err = coord.CreateSupplier(ctx, models.SupplierCreate{Name: "ABC"})
	require.NoError(t, err)

	_, fresh := store.Peek(cache.Products)
	assert.True(t, fresh)
	_, fresh = store.Peek(cache.Employees)
	assert.True(t, fresh)
	_, err = q.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count("ListProducts"))
}

func TestValidationRunsBeforeAnyCall(t *testing.T) {
	backend, _, coord, _ := setup()
	ctx := context.Background()

	_, err := coord.CreateSale(ctx, models.SaleCreate{
		PaymentMethod: models.PaymentCredit,
		Items:         []models.SaleItemIn{{ProductID: 1, Qty: 1, UnitPrice: 1}},
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "employeeid", ve.Field)
	assert.Equal(t, "required_if", ve.Rule)

	_, err = coord.AddCreditPayment(ctx, 1, models.PaymentIn{Amount: 0})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "amount", ve.Field)

	_, err = coord.CreateProduct(ctx, models.ProductCreate{Name: "Rice"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "sku", ve.Field)

	assert.Zero(t, backend.count("CreateSale"))
	assert.Zero(t, backend.count("AddCreditPayment"))
	assert.Zero(t, backend.count("CreateProduct"))
	assert.Equal(t, Idle, coord.State(Control{Kind: CreateSale}))
}

func TestLockedPurchaseIsNeverUpdated(t *testing.T) {
	backend, store, coord, q := setup()
	ctx := context.Background()
	backend.locked[7] = true
	_, err := q.Purchases(ctx)
	require.NoError(t, err)

	_, err = coord.UpdatePurchase(ctx, 7, models.PurchaseUpdate{SupplierID: uintPtr(2)})

	assert.ErrorIs(t, err, ErrPurchaseLocked)
	assert.Equal(t, 1, backend.count("GetPurchase"))
	assert.Zero(t, backend.count("UpdatePurchase"))
	assert.Equal(t, Failed, coord.State(Control{Kind: UpdatePurchase, Scope: "7"}))
	_, fresh := store.Peek(cache.Purchases)
	assert.True(t, fresh)

	_, err = coord.UpdatePurchase(ctx, 8, models.PurchaseUpdate{SupplierID: uintPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count("UpdatePurchase"))
	_, fresh = store.Peek(cache.Purchases)
	assert.False(t, fresh)
}

func TestServerErrorLeavesCacheUntouched(t *testing.T) {
	backend, store, coord, q := setup()
	ctx := context.Background()
	_, err := q.Credit(ctx)
	require.NoError(t, err)

	_, err = coord.AddCreditPayment(ctx, 2, models.PaymentIn{Amount: 5})

	require.Error(t, err)
	assert.Equal(t, "No outstanding balance for this employee.", UserMessage(err, Fallback(AddCreditPayment)))
	assert.Equal(t, Failed, coord.State(Control{Kind: AddCreditPayment, Scope: "2"}))
	_, fresh := store.Peek(cache.Credit)
	assert.True(t, fresh)
	assert.Equal(t, 1, backend.count("AddCreditPayment"))
}

func TestSecondSubmitWhilePending(t *testing.T) {
	backend, _, coord, _ := setup()
	backend.balances[1] = 50
	backend.balances[2] = 50
	backend.gate = make(chan struct{})
	ctx := context.Background()

	done := make(chan error)
	go func() {
		_, err := coord.AddCreditPayment(ctx, 1, models.PaymentIn{Amount: 10})
		done <- err
	}()
	ctl := Control{Kind: AddCreditPayment, Scope: "1"}
	require.Eventually(t, func() bool { return coord.State(ctl) == Pending }, time.Second, time.Millisecond)

	_, err := coord.AddCreditPayment(ctx, 1, models.PaymentIn{Amount: 10})
	assert.ErrorIs(t, err, ErrInFlight)

	// another employee's payment is a different control
	other := make(chan error)
	go func() {
		_, err := coord.AddCreditPayment(ctx, 2, models.PaymentIn{Amount: 10})
		other <- err
	}()
	require.Eventually(t, func() bool { return backend.count("AddCreditPayment") == 2 }, time.Second, time.Millisecond)

	close(backend.gate)
	require.NoError(t, <-done)
	require.NoError(t, <-other)
	assert.Equal(t, Succeeded, coord.State(ctl))

	_, err = coord.AddCreditPayment(ctx, 1, models.PaymentIn{Amount: 10})
	require.NoError(t, err, "a settled control accepts a new submit")
}

func TestDeleteInvalidates(t *testing.T) {
	_, store, coord, q := setup()
	ctx := context.Background()
	_, err := q.Employees(ctx)
	require.NoError(t, err)
	_, err = q.Credit(ctx)
	require.NoError(t, err)

	require.NoError(t, coord.DeleteEmployee(ctx, 2))

	_, fresh := store.Peek(cache.Employees)
	assert.False(t, fresh)
	_, fresh = store.Peek(cache.Credit)
	assert.False(t, fresh)
}

func TestInvalidationTable(t *testing.T) {
	assert.ElementsMatch(t, []cache.Key{cache.Products, cache.Summary, cache.Credit}, Invalidates(CreateSale))
	assert.ElementsMatch(t, []cache.Key{cache.Credit, cache.PaymentHistory}, Invalidates(AddCreditPayment))
	assert.ElementsMatch(t, []cache.Key{cache.Purchases, cache.Products, cache.Summary}, Invalidates(CancelPurchase))
	assert.ElementsMatch(t, []cache.Key{cache.Suppliers}, Invalidates(DeleteSupplier))
	assert.ElementsMatch(t, []cache.Key{cache.Employees, cache.Credit}, Invalidates(UpdateEmployee))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil, "x"))
	assert.Equal(t, "SKU already exists", UserMessage(conflict("SKU already exists"), "Failed"))
	assert.Equal(t, "Failed", UserMessage(client.NewServerError(500, nil), "Failed"))
	assert.Equal(t, "Failed", UserMessage(&client.NetworkError{Err: context.DeadlineExceeded}, "Failed"))
	assert.Equal(t, "Editing is locked because some of the purchased stock has already been sold.",
		UserMessage(errors.WithStack(ErrPurchaseLocked), "Failed"))
	assert.Equal(t, "action already in progress", UserMessage(errors.Wrap(ErrInFlight, "pay"), "Failed"))
	assert.Equal(t, "amount failed gt=0", UserMessage(&ValidationError{Field: "amount", Rule: "gt", Param: "0"}, "Failed"))
}
