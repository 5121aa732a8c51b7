// internal/services/listing_service.go
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

var fullShare = decimal.NewFromInt(100)

type ListingService struct {
	db           *gorm.DB
	revalidation *RevalidationService
}

type CreateListingRequest struct {
	CatalogID       uuid.UUID          `json:"catalog_id" validate:"required"`
	Mode            models.ListingMode `json:"mode" validate:"required,oneof=AUCTION FIXED_PRICE"`
	StartTime       *time.Time         `json:"start_time,omitempty"`
	EndTime         *time.Time         `json:"end_time,omitempty"`
	ReservePrice    decimal.Decimal    `json:"reserve_price" validate:"positive_amount"`
	BuyNowPrice     *decimal.Decimal   `json:"buy_now_price,omitempty"`
	MinBidIncrement decimal.Decimal    `json:"min_bid_increment" validate:"positive_amount"`
	Currency        string             `json:"currency" validate:"required,currency_code"`
}

func NewListingService(db *gorm.DB, revalidation *RevalidationService) *ListingService {
	return &ListingService{
		db:           db,
		revalidation: revalidation,
	}
}

// validateCrossFields enforces the mode-dependent rules before any write:
// auctions need an end time, fixed-price listings need a buy-now price.
func (s *ListingService) validateCrossFields(req *CreateListingRequest) error {
	if req.Mode == models.ListingModeAuction && req.EndTime == nil {
		return errors.New("auction listings must have an end time")
	}

	if req.Mode == models.ListingModeFixedPrice && req.BuyNowPrice == nil {
		return errors.New("fixed price listings must have a buy now price")
	}

	if req.BuyNowPrice != nil && !req.BuyNowPrice.IsPositive() {
		return errors.New("buy now price must be positive")
	}

	return nil
}

func (s *ListingService) CreateListing(sellerID uuid.UUID, req *CreateListingRequest) (*models.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.validateCrossFields(req); err != nil {
		return nil, err
	}

	// Verify the caller owns the catalog.
	var catalog models.Catalog
	if err := s.db.Where("id = ? AND owner_id = ?", req.CatalogID, sellerID).First(&catalog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("catalog not found or you do not have permission")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if catalog.Status != models.CatalogStatusDraft && catalog.Status != models.CatalogStatusListed {
		return nil, errors.New("catalog must be in DRAFT or LISTED status to create a listing")
	}

	listing := &models.Listing{
		CatalogID:       catalog.ID,
		SellerID:        sellerID,
		Mode:            req.Mode,
		Status:          models.ListingStatusDraft,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		ReservePrice:    req.ReservePrice,
		BuyNowPrice:     req.BuyNowPrice,
		MinBidIncrement: req.MinBidIncrement,
		Currency:        req.Currency,
	}

	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.revalidation.Revalidate("/sell", fmt.Sprintf("/catalog/%s", catalog.ID))

	return listing, nil
}

func (s *ListingService) SubmitForApproval(listingID, sellerID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.Where("id = ? AND seller_id = ?", listingID, sellerID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found or you do not have permission")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if listing.Status != models.ListingStatusDraft {
		return nil, errors.New("only draft listings can be submitted for approval")
	}

	if err := s.db.Model(&listing).Update("status", models.ListingStatusPendingApproval).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	s.revalidation.Revalidate("/sell", "/admin")

	return &listing, nil
}

// ApproveListing is admin-only. The listing goes ACTIVE and its catalog goes
// LIVE in the same transaction.
func (s *ListingService) ApproveListing(listingID, adminUserID uuid.UUID) (*models.Listing, error) {
	var admin models.User
	if err := s.db.First(&admin, "id = ?", adminUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("admin access required")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !admin.IsAdmin() {
		return nil, errors.New("admin access required")
	}

	var listing models.Listing

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, "id = ?", listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("listing not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if listing.Status != models.ListingStatusPendingApproval {
			return errors.New("listing is not pending approval")
		}

		now := time.Now()
		startTime := listing.StartTime
		if startTime == nil {
			startTime = &now
		}

		if err := tx.Model(&listing).Updates(map[string]interface{}{
			"status":     models.ListingStatusActive,
			"start_time": startTime,
		}).Error; err != nil {
			return fmt.Errorf("failed to update listing: %w", err)
		}

		if err := tx.Model(&models.Catalog{}).
			Where("id = ?", listing.CatalogID).
			Update("status", models.CatalogStatusLive).Error; err != nil {
			return fmt.Errorf("failed to update catalog: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.revalidation.Revalidate("/admin", "/catalog", fmt.Sprintf("/catalog/%s", listing.CatalogID))

	return &listing, nil
}

// CancelListing lets the seller withdraw a listing before it goes live.
func (s *ListingService) CancelListing(listingID, sellerID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.Where("id = ? AND seller_id = ?", listingID, sellerID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found or you do not have permission")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if listing.Status != models.ListingStatusDraft && listing.Status != models.ListingStatusPendingApproval {
		return nil, errors.New("only draft or pending listings can be cancelled")
	}

	if err := s.db.Model(&listing).Update("status", models.ListingStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	s.revalidation.Revalidate("/sell")

	return &listing, nil
}

// BuyNow settles a fixed-price purchase: position created, listing ENDED,
// catalog CLOSED, all in one transaction.
func (s *ListingService) BuyNow(listingID, buyerID uuid.UUID) (*models.Position, error) {
	var buyer models.User
	if err := s.db.First(&buyer, "id = ?", buyerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if buyer.KYCStatus != models.KYCStatusApproved {
		return nil, errors.New("KYC verification required")
	}

	var position *models.Position
	var catalogID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Preload("Catalog").First(&listing, "id = ?", listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("listing not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if listing.Status != models.ListingStatusActive {
			return errors.New("listing is not active")
		}

		if listing.Mode != models.ListingModeFixedPrice {
			return errors.New("this listing is not a fixed-price listing")
		}

		if listing.BuyNowPrice == nil {
			return errors.New("buy now price not set")
		}

		if listing.SellerID == buyerID {
			return errors.New("you cannot buy your own listing")
		}

		// Payment processing is stubbed; the platform settles off-session.

		now := time.Now()
		position = &models.Position{
			InvestorID:       buyerID,
			CatalogID:        listing.CatalogID,
			SharePercentage:  fullShare,
			AcquisitionPrice: *listing.BuyNowPrice,
			AcquiredAt:       now,
			TermType:         listing.Catalog.TermType,
			TermEndDate:      listing.Catalog.TermEndDate,
		}

		if err := tx.Create(position).Error; err != nil {
			return fmt.Errorf("failed to create position: %w", err)
		}

		if err := tx.Model(&listing).Update("status", models.ListingStatusEnded).Error; err != nil {
			return fmt.Errorf("failed to update listing: %w", err)
		}

		if err := tx.Model(&models.Catalog{}).
			Where("id = ?", listing.CatalogID).
			Update("status", models.CatalogStatusClosed).Error; err != nil {
			return fmt.Errorf("failed to update catalog: %w", err)
		}

		catalogID = listing.CatalogID
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.revalidation.Revalidate(fmt.Sprintf("/catalog/%s", catalogID), "/portfolio")

	return position, nil
}

func (s *ListingService) GetListing(listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.Preload("Catalog").Preload("Bids", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &listing, nil
}

func (s *ListingService) GetSellerListings(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{}).Where("seller_id = ?", sellerID).Preload("Catalog")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "end_time"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

// GetPendingApproval feeds the admin approval queue.
func (s *ListingService) GetPendingApproval(params utils.PaginationParams) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{}).
		Where("status = ?", models.ListingStatusPendingApproval).
		Preload("Catalog").Preload("Seller")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

// CloseExpiredAuctions ends every ACTIVE auction whose end time has passed.
// A highest bid at or above the reserve settles like buy-now: position for
// the winner, listing ENDED, catalog CLOSED. Reserve not met ends the
// listing with no position and returns the catalog to LISTED so the owner
// can relist. Returns how many listings were settled and how many ended
// unsold.
func (s *ListingService) CloseExpiredAuctions(now time.Time) (settled int, unsold int, err error) {
	var expired []models.Listing
	if err := s.db.Where("status = ? AND mode = ? AND end_time IS NOT NULL AND end_time <= ?",
		models.ListingStatusActive, models.ListingModeAuction, now).
		Preload("Catalog").
		Find(&expired).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to fetch expired auctions: %w", err)
	}

	for i := range expired {
		listing := expired[i]

		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			// Re-read inside the transaction; another sweep or a buy-now may
			// have closed it already.
			var current models.Listing
			if err := tx.First(&current, "id = ?", listing.ID).Error; err != nil {
				return err
			}
			if current.Status != models.ListingStatusActive {
				return nil
			}

			won := current.CurrentHighestBid != nil &&
				current.CurrentHighestBidderID != nil &&
				current.CurrentHighestBid.GreaterThanOrEqual(current.ReservePrice)

			if won {
				position := &models.Position{
					InvestorID:       *current.CurrentHighestBidderID,
					CatalogID:        current.CatalogID,
					SharePercentage:  fullShare,
					AcquisitionPrice: *current.CurrentHighestBid,
					AcquiredAt:       now,
					TermType:         listing.Catalog.TermType,
					TermEndDate:      listing.Catalog.TermEndDate,
				}
				if err := tx.Create(position).Error; err != nil {
					return fmt.Errorf("failed to create position: %w", err)
				}
			}

			if err := tx.Model(&current).Update("status", models.ListingStatusEnded).Error; err != nil {
				return fmt.Errorf("failed to update listing: %w", err)
			}

			catalogStatus := models.CatalogStatusListed
			if won {
				catalogStatus = models.CatalogStatusClosed
			}
			if err := tx.Model(&models.Catalog{}).
				Where("id = ?", current.CatalogID).
				Update("status", catalogStatus).Error; err != nil {
				return fmt.Errorf("failed to update catalog: %w", err)
			}

			if won {
				settled++
			} else {
				unsold++
			}
			return nil
		})

		if txErr != nil {
			return settled, unsold, txErr
		}

		s.revalidation.Revalidate(fmt.Sprintf("/catalog/%s", listing.CatalogID), "/catalog", "/portfolio")
	}

	return settled, unsold, nil
}
