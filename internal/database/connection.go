// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openroyalty/marketplace-backend/internal/config"
	"github.com/openroyalty/marketplace-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.LoginCode{},
		&models.Catalog{},
		&models.Listing{},
		&models.Bid{},
		&models.Position{},
		&models.Cashflow{},
		&models.InvestorCashflow{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_kyc_status ON users(kyc_status)",
		"CREATE INDEX IF NOT EXISTS idx_login_codes_email ON login_codes(email, expires_at DESC)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_catalogs_owner ON catalogs(owner_id)",
		"CREATE INDEX IF NOT EXISTS idx_catalogs_type_status ON catalogs(type, status)",
		"CREATE INDEX IF NOT EXISTS idx_catalogs_created_at ON catalogs(created_at DESC)",

		// Listing indexes
		"CREATE INDEX IF NOT EXISTS idx_listings_catalog ON listings(catalog_id)",
		"CREATE INDEX IF NOT EXISTS idx_listings_seller ON listings(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_listings_status_mode ON listings(status, mode)",
		"CREATE INDEX IF NOT EXISTS idx_listings_end_time ON listings(end_time) WHERE status = 'ACTIVE'",

		// Bid indexes
		"CREATE INDEX IF NOT EXISTS idx_bids_listing_created ON bids(listing_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_bids_bidder ON bids(bidder_id)",

		// Position indexes
		"CREATE INDEX IF NOT EXISTS idx_positions_investor ON positions(investor_id)",
		"CREATE INDEX IF NOT EXISTS idx_positions_catalog ON positions(catalog_id)",

		// Cashflow indexes
		"CREATE INDEX IF NOT EXISTS idx_cashflows_catalog_period ON cashflows(catalog_id, period_end DESC)",
		"CREATE INDEX IF NOT EXISTS idx_investor_cashflows_investor ON investor_cashflows(investor_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_investor_cashflows_status ON investor_cashflows(payout_status)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_investor_cashflows_pair ON investor_cashflows(cashflow_id, position_id)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("? = ANY(roles)", string(models.UserRoleAdmin)).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Email:     "admin@openroyalty.com",
			Name:      "Platform Administrator",
			Roles:     []string{string(models.UserRoleAdmin)},
			KYCStatus: models.KYCStatusApproved,
			ProfileData: models.JSONB{
				"seeded": true,
			},
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
