// internal/services/helpers_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openroyalty/marketplace-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A unique shared-cache name keeps each test on its own database while
	// letting every connection in the pool see the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.LoginCode{},
		&models.Catalog{},
		&models.Listing{},
		&models.Bid{},
		&models.Position{},
		&models.Cashflow{},
		&models.InvestorCashflow{},
		&models.AuditLog{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, roles []string, kycStatus models.KYCStatus) *models.User {
	t.Helper()

	user := &models.User{
		Email:       fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Name:        "Test User",
		Roles:       roles,
		KYCStatus:   kycStatus,
		ProfileData: models.JSONB{},
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestCatalog(t *testing.T, db *gorm.DB, ownerID uuid.UUID, status models.CatalogStatus) *models.Catalog {
	t.Helper()

	catalog := &models.Catalog{
		OwnerID:     ownerID,
		Type:        models.CatalogTypeMusic,
		Title:       "Midnight Sessions",
		Description: "Master rights for a ten-track studio album.",
		RightsType:  models.RightsTypeMaster,
		TermType:    models.TermTypePerpetual,
		Status:      status,

		Trailing12MonthsEarnings: decimal.NewFromInt(48000),
		AvgAnnualEarnings:        decimal.NewFromInt(45000),
		Currency:                 "USD",
	}
	require.NoError(t, db.Create(catalog).Error)

	return catalog
}

type listingOpts struct {
	mode          models.ListingMode
	status        models.ListingStatus
	reserve       decimal.Decimal
	increment     decimal.Decimal
	buyNow        *decimal.Decimal
	endTime       *time.Time
	highestBid    *decimal.Decimal
	highestBidder *uuid.UUID
}

func createTestListing(t *testing.T, db *gorm.DB, catalogID, sellerID uuid.UUID, opts listingOpts) *models.Listing {
	t.Helper()

	if opts.reserve.IsZero() {
		opts.reserve = decimal.NewFromInt(100000)
	}
	if opts.increment.IsZero() {
		opts.increment = decimal.NewFromInt(5000)
	}
	if opts.endTime == nil && opts.mode == models.ListingModeAuction {
		end := time.Now().Add(24 * time.Hour)
		opts.endTime = &end
	}

	listing := &models.Listing{
		CatalogID:              catalogID,
		SellerID:               sellerID,
		Mode:                   opts.mode,
		Status:                 opts.status,
		EndTime:                opts.endTime,
		ReservePrice:           opts.reserve,
		BuyNowPrice:            opts.buyNow,
		MinBidIncrement:        opts.increment,
		Currency:               "USD",
		CurrentHighestBid:      opts.highestBid,
		CurrentHighestBidderID: opts.highestBidder,
	}
	require.NoError(t, db.Create(listing).Error)

	return listing
}

func createTestPosition(t *testing.T, db *gorm.DB, investorID, catalogID uuid.UUID, share decimal.Decimal) *models.Position {
	t.Helper()

	position := &models.Position{
		InvestorID:       investorID,
		CatalogID:        catalogID,
		SharePercentage:  share,
		AcquisitionPrice: decimal.NewFromInt(100000),
		AcquiredAt:       time.Now(),
		TermType:         models.TermTypePerpetual,
	}
	require.NoError(t, db.Create(position).Error)

	return position
}
