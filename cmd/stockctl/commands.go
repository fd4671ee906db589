package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"go-stockctl/internal/coordinator"
	"go-stockctl/internal/views"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// mutationError turns a coordinator error into what the user should read.
func mutationError(kind coordinator.Kind, err error) error {
	return errors.New(coordinator.UserMessage(err, coordinator.Fallback(kind)))
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func (a *app) dashboard(ctx context.Context, top int) error {
	d, err := a.q.Dashboard(ctx, top)
	if err != nil {
		return err
	}
	if d.Outstanding.Diverged {
		a.log.Warn("outstanding credit differs from summary",
			slog.Float64("local", d.Outstanding.Local),
			slog.Float64("reported", d.Outstanding.Reported))
	}

	tw := a.table()
	fmt.Fprintf(tw, "Products\t%d\n", d.Summary.TotalProducts)
	fmt.Fprintf(tw, "Low stock\t%d\n", len(d.LowStock))
	fmt.Fprintf(tw, "Stock value\t%s\n", views.Amount(d.Summary.TotalStockValue))
	fmt.Fprintf(tw, "Outstanding credit\t%s\n", views.Amount(d.Outstanding.Local))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(d.Summary.TopSoldProducts) > 0 {
		fmt.Fprintln(a.out, "\nTop sellers")
		tw = a.table()
		for _, p := range d.Summary.TopSoldProducts {
			fmt.Fprintf(tw, "  %s\t%g\n", p.Name, p.TotalSold)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if len(d.TopDebtors) > 0 {
		fmt.Fprintln(a.out, "\nTop debtors")
		tw = a.table()
		for _, c := range d.TopDebtors {
			fmt.Fprintf(tw, "  %s\t%s\n", c.EmployeeName, views.Amount(c.Balance))
		}
		return tw.Flush()
	}
	return nil
}

func (a *app) lowStock(ctx context.Context, csvPath string) error {
	rows, err := a.q.LowStock(ctx)
	if err != nil {
		return err
	}
	if csvPath != "" {
		return writeFile(csvPath, views.ExportCSV(rows, views.LowStockColumns))
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "Nothing is below its reorder level.")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "PRODUCT\tSKU\tSTOCK\tREORDER\tNEEDED\t")
	for _, r := range rows {
		status := ""
		if r.OutOfStock {
			status = "out of stock"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", r.Name, r.SKU, r.StockQty, r.ReorderLevel, r.Needed, status)
	}
	return tw.Flush()
}

func (a *app) debtors(ctx context.Context, top int, csvPath string) error {
	list, total, err := a.q.Debtors(ctx, top)
	if err != nil {
		return err
	}
	if csvPath != "" {
		return writeFile(csvPath, views.ExportCSV(list, views.CreditColumns))
	}
	tw := a.table()
	fmt.Fprintln(tw, "EMPLOYEE\tBALANCE")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\n", c.EmployeeName, views.Amount(c.Balance))
	}
	fmt.Fprintf(tw, "Total\t%s\n", views.Amount(total))
	return tw.Flush()
}

func (a *app) employees(ctx context.Context) error {
	rows, err := a.q.EmployeeBalances(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tBALANCE")
	for _, e := range rows {
		phone := "-"
		if e.Phone != nil {
			phone = *e.Phone
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Name, phone, views.Amount(e.Balance))
	}
	return tw.Flush()
}

func (a *app) purchases(ctx context.Context, from, to, csvPath string) error {
	start, err := parseDay(from)
	if err != nil {
		return err
	}
	end, err := parseDay(to)
	if err != nil {
		return err
	}
	rows, err := a.q.PurchasesBetween(ctx, start, end)
	if err != nil {
		return err
	}
	if csvPath != "" {
		return writeFile(csvPath, views.ExportCSV(rows, views.PurchaseColumns))
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tDATE\tSUPPLIER\tITEMS\tTOTAL\t")
	for _, p := range rows {
		lock := ""
		if views.PurchaseLocked(p) {
			lock = "locked"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.CreatedAt.Local().Format(dayLayout), p.SupplierName, p.ItemCount, views.Amount(p.Total), lock)
	}
	return tw.Flush()
}

func (a *app) payments(ctx context.Context) error {
	payers, total, err := a.q.Payers(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "EMPLOYEE\tPAID")
	for _, p := range payers {
		fmt.Fprintf(tw, "%s\t%s\n", p.EmployeeName, views.Amount(p.TotalPaid))
	}
	fmt.Fprintf(tw, "Total\t%s\n", views.Amount(total))
	return tw.Flush()
}

// report prints the locally computed cards, then the server's sales and
// valuation reports.
func (a *app) report(ctx context.Context, from, to string) error {
	start, err := parseDay(from)
	if err != nil {
		return err
	}
	end, err := parseDay(to)
	if err != nil {
		return err
	}

	totals, err := a.q.Totals(ctx)
	if err != nil {
		return err
	}
	sales, err := a.api.SalesReport(ctx, start, end)
	if err != nil {
		return err
	}
	valuation, err := a.api.StockValuation(ctx)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintf(tw, "Products\t%d\n", totals.TotalProducts)
	fmt.Fprintf(tw, "Low stock\t%d\n", totals.LowStockCount)
	fmt.Fprintf(tw, "Stock value\t%s\n", views.Amount(totals.TotalStockValue))
	fmt.Fprintf(tw, "Outstanding credit\t%s\n", views.Amount(totals.OutstandingCredit))
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nSales %s..%s: %d sales, %s\n",
		sales.From.Local().Format(dayLayout), sales.To.Local().Format(dayLayout),
		sales.TotalCount, views.Amount(sales.TotalRevenue))

	for _, g := range valuation.Groups {
		fmt.Fprintf(a.out, "\nValuation (%s)\n", g.Unit)
		tw = a.table()
		for _, it := range g.Items {
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n", it.Name, it.Quantity, views.Amount(it.CostPrice), views.Amount(it.TotalCost))
		}
		fmt.Fprintf(tw, "  Subtotal\t\t\t%s\n", views.Amount(g.Subtotal))
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "\nGrand total %s\n", views.Amount(valuation.GrandTotal))
	return nil
}

func (a *app) export(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("-xlsx is required")
	}

	var sheets [5]views.Sheet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.q.LowStock(gctx)
		sheets[0] = views.NewSheet("Low stock", rows, views.LowStockColumns)
		return err
	})
	g.Go(func() error {
		rows, err := a.q.Purchases(gctx)
		sheets[1] = views.NewSheet("Purchases", rows, views.PurchaseColumns)
		return err
	})
	g.Go(func() error {
		rows, _, err := a.q.Debtors(gctx, 0)
		sheets[2] = views.NewSheet("Credit", rows, views.CreditColumns)
		return err
	})
	g.Go(func() error {
		rows, _, err := a.q.Payers(gctx)
		sheets[3] = views.NewSheet("Payments", rows, views.PaymentColumns)
		return err
	})
	g.Go(func() error {
		rows, err := a.q.EmployeeBalances(gctx)
		sheets[4] = views.NewSheet("Employees", rows, views.EmployeeColumns)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := views.ExportXLSX(f, sheets[:]...); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %s\n", path)
	return nil
}

func (a *app) sell(ctx context.Context, method string, employee uint, due string, items itemList) error {
	receipt, err := a.coord.CreateSale(ctx, saleInput(method, employee, due, items))
	if err != nil {
		return mutationError(coordinator.CreateSale, err)
	}
	fmt.Fprintf(a.out, "Sale #%d recorded, total %s\n", receipt.ID, views.Amount(receipt.Total))

	// The coordinator dropped the stale products; show what is low now
	rows, err := a.q.LowStock(ctx)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		names := make([]string, len(rows))
		for i, r := range rows {
			names[i] = r.Name
		}
		fmt.Fprintf(a.out, "Low stock: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func (a *app) pay(ctx context.Context, employee uint, amount float64, note string) error {
	if employee == 0 {
		return errors.New("-employee is required")
	}
	in := paymentInput(amount, note)
	res, err := a.coord.AddCreditPayment(ctx, employee, in)
	if err != nil {
		return mutationError(coordinator.AddCreditPayment, err)
	}
	fmt.Fprintf(a.out, "Applied %s, remaining %s\n", views.Amount(res.Applied), views.Amount(res.Remaining))
	return nil
}

func (a *app) seed(ctx context.Context) error {
	res, err := a.api.Seed(ctx)
	if err != nil {
		return errors.New(coordinator.UserMessage(err, "Seeding failed"))
	}
	fmt.Fprintf(a.out, "Seeded %d products, %d employees, %d suppliers, %d sales; outstanding %s\n",
		res.ProductsCreated, res.EmployeesCreated, res.SuppliersCreated, res.SalesCreated, views.Amount(res.OutstandingCredit))
	return nil
}
