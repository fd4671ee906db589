package database

import (
	"context"
	"strings"

	"go-stockctl/internal/apperr"
	"go-stockctl/internal/models"
	"go-stockctl/internal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store owns every read and write against the stock database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return errors.WithStack(err)
}

// --- Products ---

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).Order("id asc").Find(&products).Error
	return products, errors.Wrap(err, "list products")
}

func (s *Store) CreateProduct(ctx context.Context, in models.ProductCreate) (*models.Product, error) {
	sku := utils.NormalizeSKU(in.SKU)
	if sku == "" {
		return nil, apperr.BadRequest("SKU must contain letters or digits")
	}
	if err := s.ensureSKUFree(ctx, sku, 0); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:         strings.TrimSpace(in.Name),
		SKU:          sku,
		Unit:         strings.TrimSpace(in.Unit),
		Price:        in.Price,
		CostPrice:    in.CostPrice,
		ReorderLevel: 5,
	}
	if in.StockQty != nil {
		product.StockQty = *in.StockQty
	}
	if in.ReorderLevel != nil {
		product.ReorderLevel = *in.ReorderLevel
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return &product, nil
}

// UpdateProduct applies only the fields that were sent.
func (s *Store) UpdateProduct(ctx context.Context, id uint, in models.ProductUpdate) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, notFound(err, "Product not found")
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.SKU != nil {
		sku := utils.NormalizeSKU(*in.SKU)
		if sku == "" {
			return nil, apperr.BadRequest("SKU must contain letters or digits")
		}
		if sku != product.SKU {
			if err := s.ensureSKUFree(ctx, sku, id); err != nil {
				return nil, err
			}
			updates["sku"] = sku
		}
	}
	if in.Unit != nil {
		updates["unit"] = strings.TrimSpace(*in.Unit)
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.CostPrice != nil {
		updates["cost_price"] = *in.CostPrice
	}
	if in.StockQty != nil {
		updates["stock_qty"] = *in.StockQty
	}
	if in.ReorderLevel != nil {
		updates["reorder_level"] = *in.ReorderLevel
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update product")
		}
	}
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, errors.Wrap(err, "reload product")
	}
	return &product, nil
}

// DeleteProduct soft-deletes; purchase and sale lines keep their name snapshot.
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Product not found")
	}
	return nil
}

// ensureSKUFree also looks at deleted rows, the unique index still holds them.
func (s *Store) ensureSKUFree(ctx context.Context, sku string, exceptID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Model(&models.Product{}).
		Where("sku = ? AND id <> ?", sku, exceptID).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "check sku")
	}
	if count > 0 {
		return apperr.Conflict("SKU already exists")
	}
	return nil
}

// --- Suppliers ---

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	err := s.db.WithContext(ctx).Order("id asc").Find(&suppliers).Error
	return suppliers, errors.Wrap(err, "list suppliers")
}

func (s *Store) CreateSupplier(ctx context.Context, in models.SupplierCreate) (*models.Supplier, error) {
	supplier := models.Supplier{Name: strings.TrimSpace(in.Name), Phone: trimmed(in.Phone)}
	if err := s.db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, errors.Wrap(err, "create supplier")
	}
	return &supplier, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, id uint, in models.SupplierUpdate) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, notFound(err, "Supplier not found")
	}
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		updates["phone"] = trimmed(in.Phone)
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&supplier).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update supplier")
		}
	}
	err := s.db.WithContext(ctx).First(&supplier, id).Error
	return &supplier, errors.Wrap(err, "reload supplier")
}

func (s *Store) DeleteSupplier(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete supplier")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Supplier not found")
	}
	return nil
}

// --- Employees ---

func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	err := s.db.WithContext(ctx).Order("id asc").Find(&employees).Error
	return employees, errors.Wrap(err, "list employees")
}

func (s *Store) CreateEmployee(ctx context.Context, in models.EmployeeCreate) (*models.Employee, error) {
	employee := models.Employee{Name: strings.TrimSpace(in.Name), Phone: trimmed(in.Phone)}
	if err := s.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, errors.Wrap(err, "create employee")
	}
	return &employee, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id uint, in models.EmployeeUpdate) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, notFound(err, "Employee not found")
	}
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		updates["phone"] = trimmed(in.Phone)
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&employee).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update employee")
		}
	}
	err := s.db.WithContext(ctx).First(&employee, id).Error
	return &employee, errors.Wrap(err, "reload employee")
}

// DeleteEmployee soft-deletes; the credit ledger stays intact.
func (s *Store) DeleteEmployee(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Employee{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete employee")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Employee not found")
	}
	return nil
}

// trimmed drops blank optional strings.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
