// internal/services/position_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/models"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type PositionService struct {
	db *gorm.DB
}

// Holding is one position with its payout totals broken out by status.
type Holding struct {
	Position      models.Position `json:"position"`
	TotalReceived decimal.Decimal `json:"total_received"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// PortfolioSummary aggregates an investor's holdings and payout totals.
type PortfolioSummary struct {
	Holdings       []Holding       `json:"holdings"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	PendingPayouts decimal.Decimal `json:"pending_payouts"`
}

func NewPositionService(db *gorm.DB) *PositionService {
	return &PositionService{db: db}
}

func (s *PositionService) GetPosition(positionID, investorID uuid.UUID) (*models.Position, error) {
	var position models.Position
	if err := s.db.Where("id = ? AND investor_id = ?", positionID, investorID).
		Preload("Catalog").
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("position not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &position, nil
}

func (s *PositionService) GetInvestorPositions(investorID uuid.UUID, params utils.PaginationParams) ([]models.Position, int64, error) {
	query := s.db.Model(&models.Position{}).
		Where("investor_id = ?", investorID).
		Preload("Catalog")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count positions: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"acquired_at", "created_at", "acquisition_price"})
	query = utils.ApplyPagination(query, params)

	var positions []models.Position
	if err := query.Find(&positions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch positions: %w", err)
	}

	return positions, total, nil
}

// GetPortfolio returns everything the portfolio page needs in one call:
// holdings with their catalogs and per-position payout totals, total capital
// deployed, and overall payout totals split by status.
func (s *PositionService) GetPortfolio(investorID uuid.UUID) (*PortfolioSummary, error) {
	var positions []models.Position
	if err := s.db.Where("investor_id = ?", investorID).
		Preload("Catalog").
		Order("acquired_at DESC").
		Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}

	var entries []models.InvestorCashflow
	if err := s.db.Where("investor_id = ?", investorID).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payouts: %w", err)
	}

	receivedByPosition := map[uuid.UUID]decimal.Decimal{}
	pendingByPosition := map[uuid.UUID]decimal.Decimal{}
	for _, e := range entries {
		switch e.PayoutStatus {
		case models.PayoutStatusSent:
			receivedByPosition[e.PositionID] = receivedByPosition[e.PositionID].Add(e.PayoutAmount)
		case models.PayoutStatusPending:
			pendingByPosition[e.PositionID] = pendingByPosition[e.PositionID].Add(e.PayoutAmount)
		}
	}

	summary := &PortfolioSummary{
		Holdings:       make([]Holding, 0, len(positions)),
		TotalInvested:  decimal.Zero,
		TotalReceived:  decimal.Zero,
		PendingPayouts: decimal.Zero,
	}

	for _, p := range positions {
		received := receivedByPosition[p.ID]
		pending := pendingByPosition[p.ID]

		summary.Holdings = append(summary.Holdings, Holding{
			Position:      p,
			TotalReceived: received,
			PendingAmount: pending,
		})
		summary.TotalInvested = summary.TotalInvested.Add(p.AcquisitionPrice)
		summary.TotalReceived = summary.TotalReceived.Add(received)
		summary.PendingPayouts = summary.PendingPayouts.Add(pending)
	}

	return summary, nil
}
