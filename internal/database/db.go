package database

import (
	"log/slog"
	"time"

	"go-stockctl/internal/models"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Connect opens the database for the given driver ("mysql" or "sqlite") and
// syncs the schema.
func Connect(driver, dsn string, log *slog.Logger, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}
	cfg := &gorm.Config{Logger: newGormSlogLogger(log, level)}

	var (
		db  *gorm.DB
		err error
	)

	// 1. Connect with GORM (Wait for DB to be ready)
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		log.Warn("failed to connect to database, retrying",
			slog.Int("attempt", i+1),
			slog.Any("error", err),
		)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s after %d attempts", driver, connectAttempts)
	}
	log.Info("connected to database", slog.String("driver", driver))

	// 2. Auto-Migrate
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database schema synced")

	return db, nil
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.Supplier{},
		&models.Employee{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Sale{},
		&models.SaleItem{},
		&models.CreditTransaction{},
	)
	return errors.Wrap(err, "auto-migrate")
}
