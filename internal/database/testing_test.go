package database

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go-stockctl/internal/apperr"
	"go-stockctl/internal/logs"
	"go-stockctl/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := Connect("sqlite", dsn, logs.Discard(), false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewStore(db)
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func mustProduct(t *testing.T, s *Store, name, sku string, stock, reorder int) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), models.ProductCreate{
		Name: name, SKU: sku, Unit: "bag", Price: 10, CostPrice: 6,
		StockQty: intPtr(stock), ReorderLevel: intPtr(reorder),
	})
	require.NoError(t, err)
	return p
}

func requireStatus(t *testing.T, err error, status int, detail string) {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.From(err)
	require.True(t, ok, "expected an apperr, got %v", err)
	require.Equal(t, status, e.Status)
	if detail != "" {
		require.Equal(t, detail, e.Detail)
	}
}
