// internal/services/cashflow_service.go
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

var hundred = decimal.NewFromInt(100)

type CashflowService struct {
	db           *gorm.DB
	revalidation *RevalidationService
}

type CreateCashflowRequest struct {
	CatalogID             uuid.UUID       `json:"catalog_id" validate:"required"`
	PeriodStart           time.Time       `json:"period_start" validate:"required"`
	PeriodEnd             time.Time       `json:"period_end" validate:"required"`
	GrossRoyaltyAmount    decimal.Decimal `json:"gross_royalty_amount" validate:"nonnegative_amount"`
	PlatformFeePercentage decimal.Decimal `json:"platform_fee_percentage" validate:"fee_percentage"`
	Currency              string          `json:"currency" validate:"required,currency_code"`
}

type MarkPaidRequest struct {
	PayoutReference string `json:"payout_reference,omitempty" validate:"omitempty,max=100"`
}

func NewCashflowService(db *gorm.DB, revalidation *RevalidationService) *CashflowService {
	return &CashflowService{
		db:           db,
		revalidation: revalidation,
	}
}

// CreateCashflow records one royalty receipt and distributes the net amount
// across the catalog's positions in the same transaction. Each position's
// payout is its share of the catalog normalized by the total shares held, so
// the payouts always sum to the net amount even when positions cover less
// than 100% of the catalog.
func (s *CashflowService) CreateCashflow(adminUserID uuid.UUID, req *CreateCashflowRequest) (*models.Cashflow, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, errors.New("period end must be after period start")
	}

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

	feeAmount := req.GrossRoyaltyAmount.Mul(req.PlatformFeePercentage).Div(hundred).Round(2)
	netAmount := req.GrossRoyaltyAmount.Sub(feeAmount)

	cashflow := &models.Cashflow{
		CatalogID:              req.CatalogID,
		PeriodStart:            req.PeriodStart,
		PeriodEnd:              req.PeriodEnd,
		GrossRoyaltyAmount:     req.GrossRoyaltyAmount,
		PlatformFeePercentage:  req.PlatformFeePercentage,
		PlatformFeeAmount:      feeAmount,
		NetDistributableAmount: netAmount,
		Currency:               req.Currency,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var catalog models.Catalog
		if err := tx.First(&catalog, "id = ?", req.CatalogID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("catalog not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Create(cashflow).Error; err != nil {
			return fmt.Errorf("failed to create cashflow: %w", err)
		}

		var positions []models.Position
		if err := tx.Where("catalog_id = ?", req.CatalogID).Find(&positions).Error; err != nil {
			return fmt.Errorf("failed to fetch positions: %w", err)
		}

		totalShares := decimal.Zero
		for _, p := range positions {
			totalShares = totalShares.Add(p.SharePercentage)
		}

		// Nothing to distribute without holders; the receipt itself still
		// stands so the catalog's history is complete.
		if len(positions) == 0 || totalShares.IsZero() {
			return nil
		}

		// The last position absorbs any rounding remainder so the payouts
		// always sum to the net amount exactly.
		distributed := decimal.Zero
		for i, p := range positions {
			var payout decimal.Decimal
			if i == len(positions)-1 {
				payout = netAmount.Sub(distributed)
			} else {
				payout = netAmount.Mul(p.SharePercentage).Div(totalShares).Round(2)
			}
			distributed = distributed.Add(payout)

			entry := &models.InvestorCashflow{
				CashflowID:   cashflow.ID,
				PositionID:   p.ID,
				CatalogID:    req.CatalogID,
				InvestorID:   p.InvestorID,
				PeriodStart:  req.PeriodStart,
				PeriodEnd:    req.PeriodEnd,
				PayoutAmount: payout,
				Currency:     req.Currency,
				PayoutStatus: models.PayoutStatusPending,
			}

			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to create investor cashflow: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.revalidation.Revalidate(fmt.Sprintf("/catalog/%s", req.CatalogID), "/portfolio", "/admin")

	return cashflow, nil
}

// MarkAsPaid transitions one investor payout PENDING -> SENT. The update is
// conditional on the current status so two admins cannot both record the
// same payout.
func (s *CashflowService) MarkAsPaid(investorCashflowID, adminUserID uuid.UUID, req *MarkPaidRequest) (*models.InvestorCashflow, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

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

	var entry models.InvestorCashflow
	if err := s.db.First(&entry, "id = ?", investorCashflowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("investor cashflow not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	result := s.db.Model(&models.InvestorCashflow{}).
		Where("id = ? AND payout_status = ?", investorCashflowID, models.PayoutStatusPending).
		Updates(map[string]interface{}{
			"payout_status":    models.PayoutStatusSent,
			"payout_date":      now,
			"payout_reference": req.PayoutReference,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update payout: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("payout is not pending")
	}

	entry.PayoutStatus = models.PayoutStatusSent
	entry.PayoutDate = &now
	entry.PayoutReference = req.PayoutReference

	s.revalidation.Revalidate("/portfolio", "/admin")

	return &entry, nil
}

// ListCatalogCashflows returns a catalog's receipts, most recent period first.
func (s *CashflowService) ListCatalogCashflows(catalogID uuid.UUID, limit int) ([]models.Cashflow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var cashflows []models.Cashflow
	if err := s.db.Where("catalog_id = ?", catalogID).
		Order("period_end DESC").
		Limit(limit).
		Find(&cashflows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cashflows: %w", err)
	}

	return cashflows, nil
}

// ListInvestorCashflows returns an investor's payout rows, optionally
// filtered by status.
func (s *CashflowService) ListInvestorCashflows(investorID uuid.UUID, status string, params utils.PaginationParams) ([]models.InvestorCashflow, int64, error) {
	query := s.db.Model(&models.InvestorCashflow{}).
		Where("investor_id = ?", investorID).
		Preload("Cashflow")

	if status != "" {
		query = query.Where("payout_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count investor cashflows: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "period_end", "payout_amount"})
	query = utils.ApplyPagination(query, params)

	var entries []models.InvestorCashflow
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch investor cashflows: %w", err)
	}

	return entries, total, nil
}

// PendingPayouts feeds the admin payout queue.
func (s *CashflowService) PendingPayouts(params utils.PaginationParams) ([]models.InvestorCashflow, int64, error) {
	query := s.db.Model(&models.InvestorCashflow{}).
		Where("payout_status = ?", models.PayoutStatusPending).
		Preload("Investor")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending payouts: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "payout_amount"})
	query = utils.ApplyPagination(query, params)

	var entries []models.InvestorCashflow
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pending payouts: %w", err)
	}

	return entries, total, nil
}
