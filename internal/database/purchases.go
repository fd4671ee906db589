package database

import (
	"context"

	"go-stockctl/internal/apperr"
	"go-stockctl/internal/models"
	"go-stockctl/internal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const purchaseListLimit = 100

const lockedDetail = "Editing is locked because some of the purchased stock has already been sold."

// CreatePurchase records incoming stock and raises each product's stock_qty.
func (s *Store) CreatePurchase(ctx context.Context, in models.PurchaseCreate) (*models.Receipt, error) {
	var purchase models.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, in.SupplierID).Error; err != nil {
			return notFound(err, "Supplier not found")
		}

		items, total, err := receiveItems(tx, in.Items)
		if err != nil {
			return err
		}

		purchase = models.Purchase{
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			Total:        total,
			Items:        items,
		}
		return errors.Wrap(tx.Create(&purchase).Error, "create purchase")
	})
	if err != nil {
		return nil, err
	}
	return &models.Receipt{ID: purchase.ID, Total: purchase.Total}, nil
}

// ListPurchases returns the newest purchases first.
func (s *Store) ListPurchases(ctx context.Context) ([]models.PurchaseListItem, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("created_at desc, id desc").
		Limit(purchaseListLimit).
		Find(&purchases).Error
	if err != nil {
		return nil, errors.Wrap(err, "list purchases")
	}

	out := make([]models.PurchaseListItem, 0, len(purchases))
	for _, p := range purchases {
		sold, err := soldSince(s.db.WithContext(ctx), p)
		if err != nil {
			return nil, err
		}

		row := models.PurchaseListItem{
			ID:           p.ID,
			SupplierID:   p.SupplierID,
			SupplierName: p.SupplierName,
			Total:        p.Total,
			CreatedAt:    p.CreatedAt,
			ItemCount:    len(p.Items),
			Products:     make([]models.PurchaseProduct, 0, len(p.Items)),
			IsEditLocked: isLocked(sold),
		}
		for _, it := range p.Items {
			row.Products = append(row.Products, models.PurchaseProduct{
				Name:     it.ProductName,
				Qty:      it.Qty,
				UnitCost: it.UnitCost,
				Subtotal: it.Subtotal,
			})
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) GetPurchase(ctx context.Context, id uint) (*models.PurchaseDetail, error) {
	db := s.db.WithContext(ctx)
	purchase, err := loadPurchase(db, id)
	if err != nil {
		return nil, err
	}
	sold, err := soldSince(db, *purchase)
	if err != nil {
		return nil, err
	}

	detail := &models.PurchaseDetail{
		ID:           purchase.ID,
		SupplierID:   purchase.SupplierID,
		SupplierName: purchase.SupplierName,
		Total:        purchase.Total,
		CreatedAt:    purchase.CreatedAt,
		IsEditLocked: isLocked(sold),
		Items:        make([]models.PurchaseDetailItem, 0, len(purchase.Items)),
	}
	for _, it := range purchase.Items {
		detail.Items = append(detail.Items, models.PurchaseDetailItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Qty:         it.Qty,
			UnitCost:    it.UnitCost,
			Subtotal:    it.Subtotal,
			SoldQty:     sold[it.ProductID],
		})
	}
	return detail, nil
}

// UpdatePurchase changes the supplier and/or replaces the items. A purchase
// whose stock has been sold is locked.
func (s *Store) UpdatePurchase(ctx context.Context, id uint, in models.PurchaseUpdate) (*models.Receipt, error) {
	var receipt models.Receipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchase, err := loadPurchase(tx, id)
		if err != nil {
			return err
		}
		sold, err := soldSince(tx, *purchase)
		if err != nil {
			return err
		}
		if isLocked(sold) {
			return apperr.Conflict(lockedDetail)
		}

		updates := map[string]any{}
		if in.SupplierID != nil && *in.SupplierID != purchase.SupplierID {
			var supplier models.Supplier
			if err := tx.First(&supplier, *in.SupplierID).Error; err != nil {
				return notFound(err, "Supplier not found")
			}
			updates["supplier_id"] = supplier.ID
			updates["supplier_name"] = supplier.Name
		}

		if len(in.Items) > 0 {
			if err := returnItems(tx, purchase.Items); err != nil {
				return err
			}
			if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&models.PurchaseItem{}).Error; err != nil {
				return errors.Wrap(err, "delete purchase items")
			}
			items, total, err := receiveItems(tx, in.Items)
			if err != nil {
				return err
			}
			for i := range items {
				items[i].PurchaseID = purchase.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return errors.Wrap(err, "create purchase items")
			}
			updates["total"] = total
			purchase.Total = total
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Purchase{}).Where("id = ?", purchase.ID).Updates(updates).Error; err != nil {
				return errors.Wrap(err, "update purchase")
			}
		}
		receipt = models.Receipt{ID: purchase.ID, Total: purchase.Total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// CancelPurchase voids a purchase and takes its stock back out.
func (s *Store) CancelPurchase(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchase, err := loadPurchase(tx, id)
		if err != nil {
			return err
		}
		if err := returnItems(tx, purchase.Items); err != nil {
			return err
		}
		if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&models.PurchaseItem{}).Error; err != nil {
			return errors.Wrap(err, "delete purchase items")
		}
		return errors.Wrap(tx.Delete(&models.Purchase{}, purchase.ID).Error, "delete purchase")
	})
}

func loadPurchase(db *gorm.DB, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&purchase, id).Error
	if err != nil {
		return nil, notFound(err, "Purchase not found")
	}
	return &purchase, nil
}

// receiveItems locks each product, adds the quantity to stock and builds the
// purchase lines.
func receiveItems(tx *gorm.DB, in []models.PurchaseItemIn) ([]models.PurchaseItem, float64, error) {
	if len(in) == 0 {
		return nil, 0, apperr.BadRequest("No items provided")
	}

	var total float64
	items := make([]models.PurchaseItem, 0, len(in))
	for _, it := range in {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, it.ProductID).Error; err != nil {
			return nil, 0, notFound(err, "Product %d not found", it.ProductID)
		}

		err := tx.Model(&product).UpdateColumn("stock_qty", gorm.Expr("stock_qty + ?", it.Qty)).Error
		if err != nil {
			return nil, 0, errors.Wrap(err, "raise stock")
		}

		subtotal := utils.Round2(float64(it.Qty) * it.UnitCost)
		items = append(items, models.PurchaseItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Qty:         it.Qty,
			UnitCost:    it.UnitCost,
			Subtotal:    subtotal,
		})
		total += subtotal
	}
	return items, utils.Round2(total), nil
}

// returnItems reverses receiveItems. Soft-deleted products still get their
// stock back so the books balance.
func returnItems(tx *gorm.DB, items []models.PurchaseItem) error {
	for _, it := range items {
		var product models.Product
		err := tx.Unscoped().Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, it.ProductID).Error
		if err != nil {
			return notFound(err, "Product %d not found", it.ProductID)
		}
		if product.StockQty < it.Qty {
			return apperr.Conflict("Cannot roll back stock for %s: only %d left", product.Name, product.StockQty)
		}
		err = tx.Unscoped().Model(&product).UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", it.Qty)).Error
		if err != nil {
			return errors.Wrap(err, "lower stock")
		}
	}
	return nil
}

// soldSince sums, per product of the purchase, what was sold at or after the
// purchase was recorded.
func soldSince(db *gorm.DB, p models.Purchase) (map[uint]int, error) {
	sold := map[uint]int{}
	if len(p.Items) == 0 {
		return sold, nil
	}

	ids := make([]uint, 0, len(p.Items))
	for _, it := range p.Items {
		ids = append(ids, it.ProductID)
	}

	var rows []struct {
		ProductID uint
		Qty       int
	}
	err := db.Table("sale_items").
		Select("sale_items.product_id AS product_id, COALESCE(SUM(sale_items.qty), 0) AS qty").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sale_items.product_id IN ? AND sales.created_at >= ?", ids, p.CreatedAt).
		Group("sale_items.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum sold quantities")
	}
	for _, r := range rows {
		sold[r.ProductID] = r.Qty
	}
	return sold, nil
}

func isLocked(sold map[uint]int) bool {
	for _, qty := range sold {
		if qty > 0 {
			return true
		}
	}
	return false
}
