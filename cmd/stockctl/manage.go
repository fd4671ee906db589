package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"go-stockctl/internal/coordinator"
	"go-stockctl/internal/models"
	"go-stockctl/internal/views"

	"github.com/pkg/errors"
)

var errNothingToChange = errors.New("nothing to change, pass at least one field flag")

// splitAction takes the verb off args ("product add -name ..." -> "add").
func splitAction(resource string, args []string, actions ...string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, errors.Errorf("%s: want one of %s", resource, strings.Join(actions, ", "))
	}
	for _, a := range actions {
		if args[0] == a {
			return a, args[1:], nil
		}
	}
	return "", nil, errors.Errorf("%s: unknown action %q, want one of %s", resource, args[0], strings.Join(actions, ", "))
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// visited is the set of flags given on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func requireID(name string, id uint) error {
	if id == 0 {
		return errors.Errorf("%s: -id is required", name)
	}
	return nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// --- Parsers ---

func parseID(name string, args []string) (uint, error) {
	fs := newFlagSet(name)
	id := fs.Uint("id", 0, "ID")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	return *id, requireID(name, *id)
}

func parseProductAdd(args []string) (models.ProductCreate, error) {
	fs := newFlagSet("product add")
	name := fs.String("name", "", "Product name")
	sku := fs.String("sku", "", "Stock keeping unit")
	unit := fs.String("unit", "pcs", "Unit (bag, pcs, kg ...)")
	price := fs.Float64("price", 0, "Selling price")
	cost := fs.Float64("cost", 0, "Cost price")
	stock := fs.Int("stock", 0, "Opening stock")
	reorder := fs.Int("reorder", 5, "Reorder level")
	if err := fs.Parse(args); err != nil {
		return models.ProductCreate{}, err
	}
	return models.ProductCreate{
		Name:         *name,
		SKU:          *sku,
		Unit:         *unit,
		Price:        *price,
		CostPrice:    *cost,
		StockQty:     stock,
		ReorderLevel: reorder,
	}, nil
}

// parseProductEdit only fills the fields whose flags were given.
func parseProductEdit(args []string) (uint, models.ProductUpdate, error) {
	fs := newFlagSet("product edit")
	id := fs.Uint("id", 0, "Product ID")
	name := fs.String("name", "", "Product name")
	sku := fs.String("sku", "", "Stock keeping unit")
	unit := fs.String("unit", "", "Unit")
	price := fs.Float64("price", 0, "Selling price")
	cost := fs.Float64("cost", 0, "Cost price")
	stock := fs.Int("stock", 0, "Stock on hand")
	reorder := fs.Int("reorder", 0, "Reorder level")
	if err := fs.Parse(args); err != nil {
		return 0, models.ProductUpdate{}, err
	}
	if err := requireID("product edit", *id); err != nil {
		return 0, models.ProductUpdate{}, err
	}

	set := visited(fs)
	var in models.ProductUpdate
	if set["name"] {
		in.Name = name
	}
	if set["sku"] {
		in.SKU = sku
	}
	if set["unit"] {
		in.Unit = unit
	}
	if set["price"] {
		in.Price = price
	}
	if set["cost"] {
		in.CostPrice = cost
	}
	if set["stock"] {
		in.StockQty = stock
	}
	if set["reorder"] {
		in.ReorderLevel = reorder
	}
	if len(set) == 1 {
		return 0, models.ProductUpdate{}, errNothingToChange
	}
	return *id, in, nil
}

// parsePersonAdd serves both suppliers and employees, which share a shape.
func parsePersonAdd(name string, args []string) (string, *string, error) {
	fs := newFlagSet(name)
	n := fs.String("name", "", "Name")
	phone := fs.String("phone", "", "Phone number")
	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	return *n, optional(*phone), nil
}

func parsePersonEdit(name string, args []string) (uint, *string, *string, error) {
	fs := newFlagSet(name)
	id := fs.Uint("id", 0, "ID")
	n := fs.String("name", "", "Name")
	phone := fs.String("phone", "", "Phone number")
	if err := fs.Parse(args); err != nil {
		return 0, nil, nil, err
	}
	if err := requireID(name, *id); err != nil {
		return 0, nil, nil, err
	}
	set := visited(fs)
	var namePtr, phonePtr *string
	if set["name"] {
		namePtr = n
	}
	if set["phone"] {
		phonePtr = phone
	}
	if namePtr == nil && phonePtr == nil {
		return 0, nil, nil, errNothingToChange
	}
	return *id, namePtr, phonePtr, nil
}

func parsePurchaseAdd(args []string) (models.PurchaseCreate, error) {
	fs := newFlagSet("purchase add")
	supplier := fs.Uint("supplier", 0, "Supplier ID")
	var items purchaseItemList
	fs.Var(&items, "item", "PRODUCT_ID:QTY:UNIT_COST, repeatable")
	if err := fs.Parse(args); err != nil {
		return models.PurchaseCreate{}, err
	}
	return models.PurchaseCreate{SupplierID: *supplier, Items: []models.PurchaseItemIn(items)}, nil
}

// parsePurchaseEdit replaces the supplier, the items, or both.
func parsePurchaseEdit(args []string) (uint, models.PurchaseUpdate, error) {
	fs := newFlagSet("purchase edit")
	id := fs.Uint("id", 0, "Purchase ID")
	supplier := fs.Uint("supplier", 0, "New supplier ID")
	var items purchaseItemList
	fs.Var(&items, "item", "PRODUCT_ID:QTY:UNIT_COST, repeatable; replaces every line")
	if err := fs.Parse(args); err != nil {
		return 0, models.PurchaseUpdate{}, err
	}
	if err := requireID("purchase edit", *id); err != nil {
		return 0, models.PurchaseUpdate{}, err
	}
	var in models.PurchaseUpdate
	if visited(fs)["supplier"] {
		in.SupplierID = supplier
	}
	if len(items) > 0 {
		in.Items = []models.PurchaseItemIn(items)
	}
	if in.SupplierID == nil && in.Items == nil {
		return 0, models.PurchaseUpdate{}, errNothingToChange
	}
	return *id, in, nil
}

// --- Commands ---

func (a *app) product(ctx context.Context, args []string) error {
	action, rest, err := splitAction("product", args, "add", "edit", "rm")
	if err != nil {
		return err
	}
	switch action {
	case "add":
		in, err := parseProductAdd(rest)
		if err != nil {
			return err
		}
		p, err := a.coord.CreateProduct(ctx, in)
		if err != nil {
			return mutationError(coordinator.CreateProduct, err)
		}
		fmt.Fprintf(a.out, "Added product #%d %s (%s)\n", p.ID, p.Name, p.SKU)
	case "edit":
		id, in, err := parseProductEdit(rest)
		if err != nil {
			return err
		}
		p, err := a.coord.UpdateProduct(ctx, id, in)
		if err != nil {
			return mutationError(coordinator.UpdateProduct, err)
		}
		fmt.Fprintf(a.out, "Updated product #%d %s (%s), stock %d\n", p.ID, p.Name, p.SKU, p.StockQty)
	case "rm":
		id, err := parseID("product rm", rest)
		if err != nil {
			return err
		}
		if err := a.coord.DeleteProduct(ctx, id); err != nil {
			return mutationError(coordinator.DeleteProduct, err)
		}
		fmt.Fprintf(a.out, "Deleted product #%d\n", id)
	}
	return nil
}

func (a *app) supplier(ctx context.Context, args []string) error {
	action, rest, err := splitAction("supplier", args, "add", "edit", "rm")
	if err != nil {
		return err
	}
	switch action {
	case "add":
		name, phone, err := parsePersonAdd("supplier add", rest)
		if err != nil {
			return err
		}
		s, err := a.coord.CreateSupplier(ctx, models.SupplierCreate{Name: name, Phone: phone})
		if err != nil {
			return mutationError(coordinator.CreateSupplier, err)
		}
		fmt.Fprintf(a.out, "Added supplier #%d %s\n", s.ID, s.Name)
	case "edit":
		id, name, phone, err := parsePersonEdit("supplier edit", rest)
		if err != nil {
			return err
		}
		s, err := a.coord.UpdateSupplier(ctx, id, models.SupplierUpdate{Name: name, Phone: phone})
		if err != nil {
			return mutationError(coordinator.UpdateSupplier, err)
		}
		fmt.Fprintf(a.out, "Updated supplier #%d %s\n", s.ID, s.Name)
	case "rm":
		id, err := parseID("supplier rm", rest)
		if err != nil {
			return err
		}
		if err := a.coord.DeleteSupplier(ctx, id); err != nil {
			return mutationError(coordinator.DeleteSupplier, err)
		}
		fmt.Fprintf(a.out, "Deleted supplier #%d\n", id)
	}
	return nil
}

func (a *app) employee(ctx context.Context, args []string) error {
	action, rest, err := splitAction("employee", args, "add", "edit", "rm")
	if err != nil {
		return err
	}
	switch action {
	case "add":
		name, phone, err := parsePersonAdd("employee add", rest)
		if err != nil {
			return err
		}
		e, err := a.coord.CreateEmployee(ctx, models.EmployeeCreate{Name: name, Phone: phone})
		if err != nil {
			return mutationError(coordinator.CreateEmployee, err)
		}
		fmt.Fprintf(a.out, "Added employee #%d %s\n", e.ID, e.Name)
	case "edit":
		id, name, phone, err := parsePersonEdit("employee edit", rest)
		if err != nil {
			return err
		}
		e, err := a.coord.UpdateEmployee(ctx, id, models.EmployeeUpdate{Name: name, Phone: phone})
		if err != nil {
			return mutationError(coordinator.UpdateEmployee, err)
		}
		fmt.Fprintf(a.out, "Updated employee #%d %s\n", e.ID, e.Name)
	case "rm":
		id, err := parseID("employee rm", rest)
		if err != nil {
			return err
		}
		if err := a.coord.DeleteEmployee(ctx, id); err != nil {
			return mutationError(coordinator.DeleteEmployee, err)
		}
		fmt.Fprintf(a.out, "Deleted employee #%d\n", id)
	}
	return nil
}

func (a *app) purchase(ctx context.Context, args []string) error {
	action, rest, err := splitAction("purchase", args, "add", "edit", "cancel")
	if err != nil {
		return err
	}
	switch action {
	case "add":
		in, err := parsePurchaseAdd(rest)
		if err != nil {
			return err
		}
		r, err := a.coord.CreatePurchase(ctx, in)
		if err != nil {
			return mutationError(coordinator.CreatePurchase, err)
		}
		fmt.Fprintf(a.out, "Purchase #%d recorded, total %s\n", r.ID, views.Amount(r.Total))
	case "edit":
		id, in, err := parsePurchaseEdit(rest)
		if err != nil {
			return err
		}
		r, err := a.coord.UpdatePurchase(ctx, id, in)
		if err != nil {
			return mutationError(coordinator.UpdatePurchase, err)
		}
		fmt.Fprintf(a.out, "Purchase #%d updated, total %s\n", r.ID, views.Amount(r.Total))
	case "cancel":
		id, err := parseID("purchase cancel", rest)
		if err != nil {
			return err
		}
		if err := a.coord.CancelPurchase(ctx, id); err != nil {
			return mutationError(coordinator.CancelPurchase, err)
		}
		fmt.Fprintf(a.out, "Purchase #%d cancelled\n", id)
	}
	return nil
}
