package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"go-stockctl/internal/cache"
	"go-stockctl/internal/client"
	"go-stockctl/internal/config"
	"go-stockctl/internal/coordinator"
	"go-stockctl/internal/logs"
	"go-stockctl/internal/queries"
)

// Supported subcommands:
// - dashboard:  summary cards, low stock and top debtors
// - low-stock:  products at or below their reorder level
// - debtors:    employees who owe, highest first
// - employees:  every employee with their balance
// - purchases:  purchase history, optionally by date
// - payments:   credit payments received per employee
// - report:     totals, sales in a date range and stock valuation
// - product, supplier, employee: add | edit | rm
// - purchase:   add | edit | cancel
// - export:     write every table to one workbook
// - sell:       ring up a sale
// - pay:        record a credit payment
// - seed:       load demo data (server must allow it)

type app struct {
	api   *client.Client
	q     *queries.Queries
	coord *coordinator.Coordinator
	log   *slog.Logger
	out   io.Writer
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Logs go to stderr so table output stays clean
	logger, err := logs.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	api := client.New(cfg.APIBase, cfg.HTTPTimeout)
	store := cache.New(logger)
	a := &app{
		api:   api,
		q:     queries.New(api, store),
		coord: coordinator.New(api, store, logger),
		log:   logger,
		out:   os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, name string, args []string) error {
	switch name {
	case "dashboard":
		fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
		top := fs.Int("top", 5, "Number of debtors to show")
		_ = fs.Parse(args)
		return a.dashboard(ctx, *top)
	case "low-stock":
		fs := flag.NewFlagSet("low-stock", flag.ExitOnError)
		csvPath := fs.String("csv", "", "Write the table as CSV to this file")
		_ = fs.Parse(args)
		return a.lowStock(ctx, *csvPath)
	case "debtors":
		fs := flag.NewFlagSet("debtors", flag.ExitOnError)
		top := fs.Int("top", 0, "Show only the top N (0 = all)")
		csvPath := fs.String("csv", "", "Write the table as CSV to this file")
		_ = fs.Parse(args)
		return a.debtors(ctx, *top, *csvPath)
	case "employees":
		return a.employees(ctx)
	case "purchases":
		fs := flag.NewFlagSet("purchases", flag.ExitOnError)
		from := fs.String("from", "", "First day, YYYY-MM-DD")
		to := fs.String("to", "", "Last day, YYYY-MM-DD")
		csvPath := fs.String("csv", "", "Write the table as CSV to this file")
		_ = fs.Parse(args)
		return a.purchases(ctx, *from, *to, *csvPath)
	case "payments":
		return a.payments(ctx)
	case "report":
		fs := flag.NewFlagSet("report", flag.ExitOnError)
		from := fs.String("from", "", "First day, YYYY-MM-DD (default 30 days ago)")
		to := fs.String("to", "", "Last day, YYYY-MM-DD (default today)")
		_ = fs.Parse(args)
		return a.report(ctx, *from, *to)
	case "product":
		return a.product(ctx, args)
	case "supplier":
		return a.supplier(ctx, args)
	case "employee":
		return a.employee(ctx, args)
	case "purchase":
		return a.purchase(ctx, args)
	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		xlsxPath := fs.String("xlsx", "", "Workbook to write")
		_ = fs.Parse(args)
		return a.export(ctx, *xlsxPath)
	case "sell":
		fs := flag.NewFlagSet("sell", flag.ExitOnError)
		method := fs.String("method", "cash", "cash, card or credit")
		employee := fs.Uint("employee", 0, "Employee ID (credit sales)")
		due := fs.String("due", "", "Due date for credit, YYYY-MM-DD")
		var items itemList
		fs.Var(&items, "item", "PRODUCT_ID:QTY:UNIT_PRICE, repeatable")
		_ = fs.Parse(args)
		return a.sell(ctx, *method, *employee, *due, items)
	case "pay":
		fs := flag.NewFlagSet("pay", flag.ExitOnError)
		employee := fs.Uint("employee", 0, "Employee ID")
		amount := fs.Float64("amount", 0, "Amount paid")
		note := fs.String("note", "", "Optional note")
		_ = fs.Parse(args)
		return a.pay(ctx, *employee, *amount, *note)
	case "seed":
		return a.seed(ctx)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %s", name)
	}
}

func printUsage() {
	fmt.Println("Usage: stockctl <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  dashboard  [-top N]")
	fmt.Println("  low-stock  [-csv FILE]")
	fmt.Println("  debtors    [-top N] [-csv FILE]")
	fmt.Println("  employees")
	fmt.Println("  purchases  [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-csv FILE]")
	fmt.Println("  payments")
	fmt.Println("  report     [-from YYYY-MM-DD] [-to YYYY-MM-DD]")
	fmt.Println("  product    add -name N -sku S [-unit U] [-price P] [-cost C] [-stock Q] [-reorder R]")
	fmt.Println("             edit -id ID [field flags]  |  rm -id ID")
	fmt.Println("  supplier   add -name N [-phone P]  |  edit -id ID [-name N] [-phone P]  |  rm -id ID")
	fmt.Println("  employee   add -name N [-phone P]  |  edit -id ID [-name N] [-phone P]  |  rm -id ID")
	fmt.Println("  purchase   add -supplier ID -item PID:QTY:COST ...")
	fmt.Println("             edit -id ID [-supplier ID] [-item PID:QTY:COST ...]  |  cancel -id ID")
	fmt.Println("  export     -xlsx FILE")
	fmt.Println("  sell       -method cash|card|credit [-employee ID] [-due YYYY-MM-DD] -item PID:QTY:PRICE ...")
	fmt.Println("  pay        -employee ID -amount X [-note TEXT]")
	fmt.Println("  seed")
	fmt.Println()
	fmt.Println("Environment: API_BASE, HTTP_TIMEOUT, LOG_LEVEL")
}
