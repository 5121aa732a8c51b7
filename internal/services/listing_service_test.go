// internal/services/listing_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroyalty/marketplace-backend/internal/models"
)

func TestCreateListing_AuctionRequiresEndTime(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusListed)

	_, err := svc.CreateListing(seller.ID, &CreateListingRequest{
		CatalogID:       catalog.ID,
		Mode:            models.ListingModeAuction,
		ReservePrice:    decimal.NewFromInt(100000),
		MinBidIncrement: decimal.NewFromInt(5000),
		Currency:        "USD",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end time")
}

func TestCreateListing_FixedPriceRequiresBuyNow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusListed)

	_, err := svc.CreateListing(seller.ID, &CreateListingRequest{
		CatalogID:       catalog.ID,
		Mode:            models.ListingModeFixedPrice,
		ReservePrice:    decimal.NewFromInt(100000),
		MinBidIncrement: decimal.NewFromInt(5000),
		Currency:        "USD",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buy now price")
}

func TestCreateListing_NotOwnerRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	owner := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	other := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, owner.ID, models.CatalogStatusListed)

	end := time.Now().Add(72 * time.Hour)
	_, err := svc.CreateListing(other.ID, &CreateListingRequest{
		CatalogID:       catalog.ID,
		Mode:            models.ListingModeAuction,
		EndTime:         &end,
		ReservePrice:    decimal.NewFromInt(100000),
		MinBidIncrement: decimal.NewFromInt(5000),
		Currency:        "USD",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found or you do not have permission")
}

func TestCreateListing_StartsAsDraft(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusListed)

	end := time.Now().Add(72 * time.Hour)
	listing, err := svc.CreateListing(seller.ID, &CreateListingRequest{
		CatalogID:       catalog.ID,
		Mode:            models.ListingModeAuction,
		EndTime:         &end,
		ReservePrice:    decimal.NewFromInt(100000),
		MinBidIncrement: decimal.NewFromInt(5000),
		Currency:        "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusDraft, listing.Status)
}

func TestApproveListing_ActivatesListingAndCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	admin := createTestUser(t, db, []string{"ADMIN"}, models.KYCStatusApproved)
	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusListed)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusPendingApproval,
	})

	approved, err := svc.ApproveListing(listing.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusActive, approved.Status)

	var updatedCatalog models.Catalog
	require.NoError(t, db.First(&updatedCatalog, "id = ?", catalog.ID).Error)
	assert.Equal(t, models.CatalogStatusLive, updatedCatalog.Status)

	var updatedListing models.Listing
	require.NoError(t, db.First(&updatedListing, "id = ?", listing.ID).Error)
	assert.NotNil(t, updatedListing.StartTime)

	// A second approval hits the state check.
	_, err = svc.ApproveListing(listing.ID, admin.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not pending approval")
}

func TestApproveListing_NonAdminRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusListed)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusPendingApproval,
	})

	_, err := svc.ApproveListing(listing.ID, seller.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin access required")
}

func TestBuyNow_SettlesAtomically(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	buyer := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	buyNow := decimal.NewFromInt(250000)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeFixedPrice,
		status: models.ListingStatusActive,
		buyNow: &buyNow,
	})

	position, err := svc.BuyNow(listing.ID, buyer.ID)
	require.NoError(t, err)
	require.NotNil(t, position)

	assert.Equal(t, buyer.ID, position.InvestorID)
	assert.Equal(t, catalog.ID, position.CatalogID)
	assert.True(t, position.SharePercentage.Equal(decimal.NewFromInt(100)))
	assert.True(t, position.AcquisitionPrice.Equal(buyNow))
	assert.Equal(t, models.TermTypePerpetual, position.TermType)

	var updatedListing models.Listing
	require.NoError(t, db.First(&updatedListing, "id = ?", listing.ID).Error)
	assert.Equal(t, models.ListingStatusEnded, updatedListing.Status)

	var updatedCatalog models.Catalog
	require.NoError(t, db.First(&updatedCatalog, "id = ?", catalog.ID).Error)
	assert.Equal(t, models.CatalogStatusClosed, updatedCatalog.Status)

	// A second purchase fails on the now-ended listing.
	late := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	_, err = svc.BuyNow(listing.ID, late.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
}

func TestBuyNow_SellerCannotBuyOwnListing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	buyNow := decimal.NewFromInt(250000)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeFixedPrice,
		status: models.ListingStatusActive,
		buyNow: &buyNow,
	})

	_, err := svc.BuyNow(listing.ID, seller.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot buy your own listing")
}

func TestBuyNow_KYCRequired(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	buyer := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusPending)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	buyNow := decimal.NewFromInt(250000)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeFixedPrice,
		status: models.ListingStatusActive,
		buyNow: &buyNow,
	})

	_, err := svc.BuyNow(listing.ID, buyer.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KYC verification required")
}

func TestCancelListing_OnlyBeforeActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusListed)

	draft := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusDraft,
	})
	cancelled, err := svc.CancelListing(draft.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusCancelled, cancelled.Status)

	active := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusActive,
	})
	_, err = svc.CancelListing(active.ID, seller.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only draft or pending listings")
}

func TestCloseExpiredAuctions_WinnerSettles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)

	past := time.Now().Add(-time.Hour)
	highest := decimal.NewFromInt(120000)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:          models.ListingModeAuction,
		status:        models.ListingStatusActive,
		endTime:       &past,
		highestBid:    &highest,
		highestBidder: &bidder.ID,
	})

	settled, unsold, err := svc.CloseExpiredAuctions(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, settled)
	assert.Zero(t, unsold)

	var position models.Position
	require.NoError(t, db.First(&position, "catalog_id = ?", catalog.ID).Error)
	assert.Equal(t, bidder.ID, position.InvestorID)
	assert.True(t, position.AcquisitionPrice.Equal(highest))
	assert.True(t, position.SharePercentage.Equal(decimal.NewFromInt(100)))

	var updatedListing models.Listing
	require.NoError(t, db.First(&updatedListing, "id = ?", listing.ID).Error)
	assert.Equal(t, models.ListingStatusEnded, updatedListing.Status)

	var updatedCatalog models.Catalog
	require.NoError(t, db.First(&updatedCatalog, "id = ?", catalog.ID).Error)
	assert.Equal(t, models.CatalogStatusClosed, updatedCatalog.Status)
}

func TestCloseExpiredAuctions_ReserveNotMet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)

	past := time.Now().Add(-time.Hour)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:    models.ListingModeAuction,
		status:  models.ListingStatusActive,
		endTime: &past,
	})

	settled, unsold, err := svc.CloseExpiredAuctions(time.Now())
	require.NoError(t, err)
	assert.Zero(t, settled)
	assert.Equal(t, 1, unsold)

	var count int64
	db.Model(&models.Position{}).Where("catalog_id = ?", catalog.ID).Count(&count)
	assert.Zero(t, count)

	var updatedListing models.Listing
	require.NoError(t, db.First(&updatedListing, "id = ?", listing.ID).Error)
	assert.Equal(t, models.ListingStatusEnded, updatedListing.Status)

	// The catalog goes back to LISTED so the owner can relist.
	var updatedCatalog models.Catalog
	require.NoError(t, db.First(&updatedCatalog, "id = ?", catalog.ID).Error)
	assert.Equal(t, models.CatalogStatusListed, updatedCatalog.Status)
}

func TestCloseExpiredAuctions_FutureAuctionUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)

	future := time.Now().Add(24 * time.Hour)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:    models.ListingModeAuction,
		status:  models.ListingStatusActive,
		endTime: &future,
	})

	settled, unsold, err := svc.CloseExpiredAuctions(time.Now())
	require.NoError(t, err)
	assert.Zero(t, settled)
	assert.Zero(t, unsold)

	var updated models.Listing
	require.NoError(t, db.First(&updated, "id = ?", listing.ID).Error)
	assert.Equal(t, models.ListingStatusActive, updated.Status)
}
