// internal/services/bid_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/models"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type BidService struct {
	db           *gorm.DB
	revalidation *RevalidationService
}

type PlaceBidRequest struct {
	ListingID uuid.UUID       `json:"listing_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"positive_amount"`
}

func NewBidService(db *gorm.DB, revalidation *RevalidationService) *BidService {
	return &BidService{
		db:           db,
		revalidation: revalidation,
	}
}

// PlaceBid validates and commits one bid. Preconditions run in a fixed order
// and the first failure wins:
//  1. bidder KYC approved
//  2. listing exists
//  3. listing is ACTIVE
//  4. listing is an auction
//  5. bidder is not the seller
//  6. the auction has not ended
//  7. amount meets the current minimum
//
// The bid row and the listing's high-bid pointer commit together or not at
// all; the listing update is conditional on the highest bid read inside the
// transaction, so two racing bidders cannot both win the same slot.
func (s *BidService) PlaceBid(bidderID uuid.UUID, req *PlaceBidRequest) (*models.Bid, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var bidder models.User
	if err := s.db.First(&bidder, "id = ?", bidderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if bidder.KYCStatus != models.KYCStatusApproved {
		return nil, errors.New("you must complete KYC verification before placing bids")
	}

	var bid *models.Bid
	var catalogID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.First(&listing, "id = ?", req.ListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("listing not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if listing.Status != models.ListingStatusActive {
			return errors.New("this listing is not currently active")
		}

		if listing.Mode != models.ListingModeAuction {
			return errors.New("this listing is not an auction")
		}

		if listing.SellerID == bidderID {
			return errors.New("you cannot bid on your own listing")
		}

		now := time.Now()
		if listing.EndTime != nil && !now.Before(*listing.EndTime) {
			return errors.New("this auction has ended")
		}

		// Minimum acceptable bid: highest + increment once bidding has
		// started, reserve price before that.
		minBid := listing.ReservePrice
		if listing.CurrentHighestBid != nil && listing.CurrentHighestBid.IsPositive() {
			minBid = listing.CurrentHighestBid.Add(listing.MinBidIncrement)
		}

		if req.Amount.LessThan(minBid) {
			return fmt.Errorf("bid must be at least %s %s", minBid.StringFixed(2), listing.Currency)
		}

		bid = &models.Bid{
			ListingID: listing.ID,
			BidderID:  bidderID,
			Amount:    req.Amount,
			CreatedAt: now,
		}

		if err := tx.Create(bid).Error; err != nil {
			return fmt.Errorf("failed to create bid: %w", err)
		}

		// Advance the high-bid pointer only if nobody got there first. Zero
		// rows affected means a concurrent bid landed between our read and
		// this write; rolling back keeps bid history and listing state in
		// lockstep.
		update := tx.Model(&models.Listing{}).
			Where("id = ?", listing.ID)
		if listing.CurrentHighestBid == nil {
			update = update.Where("current_highest_bid IS NULL")
		} else {
			update = update.Where("current_highest_bid = ?", *listing.CurrentHighestBid)
		}

		result := update.Updates(map[string]interface{}{
			"current_highest_bid":       req.Amount,
			"current_highest_bidder_id": bidderID,
			"updated_at":                now,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update listing: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("another bid was placed at the same time, please try again")
		}

		catalogID = listing.CatalogID
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.revalidation.Revalidate(
		fmt.Sprintf("/catalog/%s", catalogID),
		"/catalog",
	)

	return bid, nil
}

// GetBidHistory returns a listing's bids, newest first.
func (s *BidService) GetBidHistory(listingID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	if err := s.db.Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Preload("Bidder").
		Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch bids: %w", err)
	}

	return bids, nil
}
