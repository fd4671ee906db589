package main

import (
	"flag"
	"io"
	"testing"
	"time"

	"go-stockctl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItem(t *testing.T) {
	it, err := parseItem("3:2:12.5")
	require.NoError(t, err)
	assert.Equal(t, models.SaleItemIn{ProductID: 3, Qty: 2, UnitPrice: 12.5}, it)

	for _, bad := range []string{"3:2", "x:2:1", "3:two:1", "3:2:free", ""} {
		_, err := parseItem(bad)
		assert.Error(t, err, bad)
	}
}

func TestItemFlagRepeats(t *testing.T) {
	var items itemList
	fs := flag.NewFlagSet("sell", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&items, "item", "")

	require.NoError(t, fs.Parse([]string{"-item", "1:2:3", "-item", "4:5:6.25"}))
	require.Len(t, items, 2)
	assert.Equal(t, uint(4), items[1].ProductID)
	assert.Equal(t, "1:2:3,4:5:6.25", items.String())

	assert.Error(t, fs.Parse([]string{"-item", "oops"}))
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = parseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, time.Local, d.Location())

	_, err = parseDay("29/02/2024")
	assert.Error(t, err)
}

func TestSaleInputOnlySendsCreditFields(t *testing.T) {
	items := itemList{{ProductID: 1, Qty: 1, UnitPrice: 5}}

	cash := saleInput("CASH", 4, "2024-05-01", items)
	assert.Equal(t, models.PaymentCash, cash.PaymentMethod)
	assert.Nil(t, cash.EmployeeID)
	assert.Nil(t, cash.DueDate)

	credit := saleInput("credit", 4, "2024-05-01", items)
	require.NotNil(t, credit.EmployeeID)
	assert.Equal(t, uint(4), *credit.EmployeeID)
	require.NotNil(t, credit.DueDate)

	noEmployee := saleInput("credit", 0, "", items)
	assert.Nil(t, noEmployee.EmployeeID)
}

func TestPaymentInput(t *testing.T) {
	assert.Nil(t, paymentInput(10, "  ").Note)
	in := paymentInput(10, " cash at desk ")
	require.NotNil(t, in.Note)
	assert.Equal(t, "cash at desk", *in.Note)
}
