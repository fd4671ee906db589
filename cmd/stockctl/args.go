package main

import (
	"strconv"
	"strings"
	"time"

	"go-stockctl/internal/models"

	"github.com/pkg/errors"
)

const dayLayout = "2006-01-02"

// itemList collects repeated -item flags.
type itemList []models.SaleItemIn

func (l *itemList) String() string {
	parts := make([]string, len(*l))
	for i, it := range *l {
		parts[i] = strconv.FormatUint(uint64(it.ProductID), 10) + ":" + strconv.Itoa(it.Qty) + ":" + strconv.FormatFloat(it.UnitPrice, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *itemList) Set(v string) error {
	it, err := parseItem(v)
	if err != nil {
		return err
	}
	*l = append(*l, it)
	return nil
}

// parseLine reads ID:QTY:AMOUNT. Range checks are left to the
// coordinator's validator.
func parseLine(v, want string) (uint, int, float64, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return 0, 0, 0, errors.Errorf("item %q: want %s", v, want)
	}
	id, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(err, "item %q: product id", v)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, errors.Wrapf(err, "item %q: qty", v)
	}
	amount, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(err, "item %q: amount", v)
	}
	return uint(id), qty, amount, nil
}

func parseItem(v string) (models.SaleItemIn, error) {
	id, qty, price, err := parseLine(v, "PRODUCT_ID:QTY:UNIT_PRICE")
	if err != nil {
		return models.SaleItemIn{}, err
	}
	return models.SaleItemIn{ProductID: id, Qty: qty, UnitPrice: price}, nil
}

// purchaseItemList collects repeated -item flags of a purchase.
type purchaseItemList []models.PurchaseItemIn

func (l *purchaseItemList) String() string {
	parts := make([]string, len(*l))
	for i, it := range *l {
		parts[i] = strconv.FormatUint(uint64(it.ProductID), 10) + ":" + strconv.Itoa(it.Qty) + ":" + strconv.FormatFloat(it.UnitCost, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *purchaseItemList) Set(v string) error {
	id, qty, cost, err := parseLine(v, "PRODUCT_ID:QTY:UNIT_COST")
	if err != nil {
		return err
	}
	*l = append(*l, models.PurchaseItemIn{ProductID: id, Qty: qty, UnitCost: cost})
	return nil
}

// parseDay returns the zero time for an empty string.
func parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(dayLayout, v, time.Local)
	if err != nil {
		return time.Time{}, errors.Errorf("%q is not YYYY-MM-DD", v)
	}
	return d, nil
}

// saleInput builds the request body. Employee and due date are only sent
// for credit sales.
func saleInput(method string, employee uint, due string, items itemList) models.SaleCreate {
	in := models.SaleCreate{
		PaymentMethod: models.PaymentMethod(strings.ToLower(method)),
		Items:         []models.SaleItemIn(items),
	}
	if in.PaymentMethod == models.PaymentCredit {
		if employee != 0 {
			in.EmployeeID = &employee
		}
		if due != "" {
			in.DueDate = &due
		}
	}
	return in
}

func paymentInput(amount float64, note string) models.PaymentIn {
	in := models.PaymentIn{Amount: amount}
	if note = strings.TrimSpace(note); note != "" {
		in.Note = &note
	}
	return in
}
