package database

import (
	"context"
	"fmt"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/config"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the configured database. Postgres is the production driver; sqlite
// serves single-file local runs.
func NewDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000")
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer at a time; sqlite serializes anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info("connected to database", zap.String("driver", dialector.Name()))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Product{},
		&entity.Bill{},
		&entity.BillItem{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SampleProducts is the starter catalog for development databases
func SampleProducts() []entity.Product {
	return []entity.Product{
		{Name: "Milk 1L", Price: decimal.NewFromInt(58), Stock: 50},
		{Name: "Bread Loaf", Price: decimal.NewFromInt(40), Stock: 30},
		{Name: "Sugar 1kg", Price: decimal.NewFromInt(45), Stock: 100},
		{Name: "Tea Pack", Price: decimal.NewFromInt(120), Stock: 20},
	}
}

// SeedDefaultData fills an empty catalog with the sample products.
// A catalog that already has rows is left alone.
func SeedDefaultData(ctx context.Context, products domainRepo.ProductRepository, log *zap.Logger) error {
	count, err := products.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		log.Info("catalog already populated, skipping seed", zap.Int64("products", count))
		return nil
	}

	samples := SampleProducts()
	if err := products.CreateBatch(ctx, samples); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Info("seeded sample products", zap.Int("count", len(samples)))
	return nil
}
