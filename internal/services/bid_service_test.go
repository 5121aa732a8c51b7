// internal/services/bid_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroyalty/marketplace-backend/internal/models"
)

func TestPlaceBid_FirstBidAtReserve(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusActive,
	})

	bid, err := svc.PlaceBid(bidder.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(100000),
	})
	require.NoError(t, err)
	require.NotNil(t, bid)
	assert.True(t, bid.Amount.Equal(decimal.NewFromInt(100000)))

	var updated models.Listing
	require.NoError(t, db.First(&updated, "id = ?", listing.ID).Error)
	require.NotNil(t, updated.CurrentHighestBid)
	assert.True(t, updated.CurrentHighestBid.Equal(decimal.NewFromInt(100000)))
	require.NotNil(t, updated.CurrentHighestBidderID)
	assert.Equal(t, bidder.ID, *updated.CurrentHighestBidderID)
}

func TestPlaceBid_BelowReserveRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusActive,
	})

	_, err := svc.PlaceBid(bidder.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(99999),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bid must be at least 100000.00 USD")
}

func TestPlaceBid_IncrementEnforced(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	first := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	second := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusActive,
	})

	_, err := svc.PlaceBid(first.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	// 100000 + 5000 increment: 104999 is short, 105000 clears.
	_, err = svc.PlaceBid(second.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(104999),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bid must be at least 105000.00 USD")

	bid, err := svc.PlaceBid(second.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(105000),
	})
	require.NoError(t, err)
	assert.True(t, bid.Amount.Equal(decimal.NewFromInt(105000)))

	var updated models.Listing
	require.NoError(t, db.First(&updated, "id = ?", listing.ID).Error)
	assert.True(t, updated.CurrentHighestBid.Equal(decimal.NewFromInt(105000)))
	assert.Equal(t, second.ID, *updated.CurrentHighestBidderID)
}

func TestPlaceBid_SelfBidRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusActive,
	})

	_, err := svc.PlaceBid(seller.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(100000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot bid on your own listing")
}

func TestPlaceBid_FixedPriceRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	buyNow := decimal.NewFromInt(250000)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeFixedPrice,
		status: models.ListingStatusActive,
		buyNow: &buyNow,
	})

	_, err := svc.PlaceBid(bidder.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(250000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an auction")
}

func TestPlaceBid_KYCPendingRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusPending)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusActive,
	})

	_, err := svc.PlaceBid(bidder.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(100000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KYC verification")

	// No bid row should exist.
	var count int64
	db.Model(&models.Bid{}).Where("listing_id = ?", listing.ID).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceBid_EndedAuctionRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	past := time.Now().Add(-time.Hour)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:    models.ListingModeAuction,
		status:  models.ListingStatusActive,
		endTime: &past,
	})

	_, err := svc.PlaceBid(bidder.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(100000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auction has ended")
}

func TestPlaceBid_InactiveListingRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusListed)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusDraft,
	})

	_, err := svc.PlaceBid(bidder.ID, &PlaceBidRequest{
		ListingID: listing.ID,
		Amount:    decimal.NewFromInt(100000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not currently active")
}

func TestGetBidHistory_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBidService(db, nil)

	seller := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	bidder := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, seller.ID, models.CatalogStatusLive)
	listing := createTestListing(t, db, catalog.ID, seller.ID, listingOpts{
		mode:   models.ListingModeAuction,
		status: models.ListingStatusActive,
	})

	amounts := []int64{100000, 105000, 110000}
	for i, amount := range amounts {
		bid := &models.Bid{
			ListingID: listing.ID,
			BidderID:  bidder.ID,
			Amount:    decimal.NewFromInt(amount),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(bid).Error)
	}

	bids, err := svc.GetBidHistory(listing.ID)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	assert.True(t, bids[0].Amount.Equal(decimal.NewFromInt(110000)))
	assert.True(t, bids[2].Amount.Equal(decimal.NewFromInt(100000)))
}
