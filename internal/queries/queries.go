// Package queries reads resource collections through the cache and turns
// them into the views the CLI prints.
package queries

import (
	"context"
	"time"

	"go-stockctl/internal/cache"
	"go-stockctl/internal/models"
	"go-stockctl/internal/views"

	"golang.org/x/sync/errgroup"
)

// Source is the read side of the API.
type Source interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	DashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	CreditSummary(ctx context.Context) ([]models.CreditSummary, error)
	PaymentHistory(ctx context.Context) ([]models.PaymentHistory, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	ListPurchases(ctx context.Context) ([]models.PurchaseListItem, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

type Queries struct {
	src   Source
	cache *cache.Store
}

func New(src Source, store *cache.Store) *Queries {
	return &Queries{src: src, cache: store}
}

// --- Cached collections ---

func (q *Queries) Products(ctx context.Context) ([]models.Product, error) {
	return cache.Get(ctx, q.cache, cache.Products, q.src.ListProducts)
}

func (q *Queries) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	return cache.Get(ctx, q.cache, cache.Summary, q.src.DashboardSummary)
}

func (q *Queries) Credit(ctx context.Context) ([]models.CreditSummary, error) {
	return cache.Get(ctx, q.cache, cache.Credit, q.src.CreditSummary)
}

func (q *Queries) PaymentHistory(ctx context.Context) ([]models.PaymentHistory, error) {
	return cache.Get(ctx, q.cache, cache.PaymentHistory, q.src.PaymentHistory)
}

func (q *Queries) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	return cache.Get(ctx, q.cache, cache.Suppliers, q.src.ListSuppliers)
}

func (q *Queries) Purchases(ctx context.Context) ([]models.PurchaseListItem, error) {
	return cache.Get(ctx, q.cache, cache.Purchases, q.src.ListPurchases)
}

func (q *Queries) Employees(ctx context.Context) ([]models.Employee, error) {
	return cache.Get(ctx, q.cache, cache.Employees, q.src.ListEmployees)
}

// --- Derived views ---

func (q *Queries) LowStock(ctx context.Context) ([]views.LowStockRow, error) {
	products, err := q.Products(ctx)
	if err != nil {
		return nil, err
	}
	return views.LowStock(products), nil
}

// Debtors returns the ranked debtors (top n, all when n <= 0) and the total
// owed by every debtor.
func (q *Queries) Debtors(ctx context.Context, n int) ([]models.CreditSummary, float64, error) {
	credit, err := q.Credit(ctx)
	if err != nil {
		return nil, 0, err
	}
	list := views.RankDebtors(credit)
	if n > 0 {
		list = views.TopDebtors(credit, n)
	}
	return list, views.OutstandingTotal(credit), nil
}

func (q *Queries) EmployeeBalances(ctx context.Context) ([]views.EmployeeBalance, error) {
	var employees []models.Employee
	var credit []models.CreditSummary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		employees, err = q.Employees(ctx)
		return err
	})
	g.Go(func() (err error) {
		credit, err = q.Credit(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views.EmployeeBalances(employees, credit), nil
}

func (q *Queries) Payers(ctx context.Context) ([]models.PaymentHistory, float64, error) {
	history, err := q.PaymentHistory(ctx)
	if err != nil {
		return nil, 0, err
	}
	return views.RankPayers(history), views.TotalPaid(history), nil
}

// PurchasesBetween filters the purchase list by whole days; zero bounds are
// open.
func (q *Queries) PurchasesBetween(ctx context.Context, from, to time.Time) ([]models.PurchaseListItem, error) {
	purchases, err := q.Purchases(ctx)
	if err != nil {
		return nil, err
	}
	return views.FilterPurchasesByDate(purchases, from, to), nil
}

// Dashboard is everything the dashboard screen shows.
type Dashboard struct {
	Summary     models.DashboardSummary
	Outstanding views.Reconciliation
	LowStock    []views.LowStockRow
	TopDebtors  []models.CreditSummary
}

// Dashboard loads summary, products and credit concurrently. Outstanding
// credit is taken from the credit list, not the summary.
func (q *Queries) Dashboard(ctx context.Context, topN int) (*Dashboard, error) {
	var (
		summary  *models.DashboardSummary
		products []models.Product
		credit   []models.CreditSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, err = q.Summary(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = q.Products(gctx)
		return err
	})
	g.Go(func() (err error) {
		credit, err = q.Credit(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Summary:     *summary,
		Outstanding: views.ReconcileOutstanding(credit, *summary),
		LowStock:    views.LowStock(products),
		TopDebtors:  views.TopDebtors(credit, topN),
	}, nil
}

// Totals are the report cards computed from the product and credit lists.
func (q *Queries) Totals(ctx context.Context) (views.Totals, error) {
	products, err := q.Products(ctx)
	if err != nil {
		return views.Totals{}, err
	}
	credit, err := q.Credit(ctx)
	if err != nil {
		return views.Totals{}, err
	}
	return views.ReportTotals(products, credit), nil
}
