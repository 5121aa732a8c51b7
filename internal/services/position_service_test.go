// internal/services/position_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroyalty/marketplace-backend/internal/models"
)

func TestGetPortfolio_Totals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPositionService(db)

	owner := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	investor := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalogA := createTestCatalog(t, db, owner.ID, models.CatalogStatusClosed)
	catalogB := createTestCatalog(t, db, owner.ID, models.CatalogStatusClosed)

	posA := createTestPosition(t, db, investor.ID, catalogA.ID, decimal.NewFromInt(100))
	posB := createTestPosition(t, db, investor.ID, catalogB.ID, decimal.NewFromInt(100))

	now := time.Now()
	entries := []models.InvestorCashflow{
		{
			CashflowID: posA.ID, PositionID: posA.ID, CatalogID: catalogA.ID, InvestorID: investor.ID,
			PeriodStart: now.AddDate(0, -3, 0), PeriodEnd: now,
			PayoutAmount: decimal.NewFromInt(900), Currency: "USD",
			PayoutStatus: models.PayoutStatusSent, PayoutDate: &now,
		},
		{
			CashflowID: posB.ID, PositionID: posB.ID, CatalogID: catalogB.ID, InvestorID: investor.ID,
			PeriodStart: now.AddDate(0, -3, 0), PeriodEnd: now,
			PayoutAmount: decimal.NewFromInt(450), Currency: "USD",
			PayoutStatus: models.PayoutStatusPending,
		},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}

	summary, err := svc.GetPortfolio(investor.ID)
	require.NoError(t, err)

	require.Len(t, summary.Holdings, 2)
	assert.True(t, summary.TotalInvested.Equal(decimal.NewFromInt(200000)))
	assert.True(t, summary.TotalReceived.Equal(decimal.NewFromInt(900)))
	assert.True(t, summary.PendingPayouts.Equal(decimal.NewFromInt(450)))

	byPosition := map[string]Holding{}
	for _, h := range summary.Holdings {
		byPosition[h.Position.ID.String()] = h
	}
	assert.True(t, byPosition[posA.ID.String()].TotalReceived.Equal(decimal.NewFromInt(900)))
	assert.True(t, byPosition[posA.ID.String()].PendingAmount.IsZero())
	assert.True(t, byPosition[posB.ID.String()].PendingAmount.Equal(decimal.NewFromInt(450)))
	assert.True(t, byPosition[posB.ID.String()].TotalReceived.IsZero())
}

func TestGetPortfolio_EmptyIsZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPositionService(db)

	investor := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)

	summary, err := svc.GetPortfolio(investor.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Holdings)
	assert.True(t, summary.TotalInvested.IsZero())
	assert.True(t, summary.TotalReceived.IsZero())
	assert.True(t, summary.PendingPayouts.IsZero())
}

func TestGetPosition_ScopedToInvestor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPositionService(db)

	owner := createTestUser(t, db, []string{"CREATOR"}, models.KYCStatusApproved)
	investor := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	stranger := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)
	catalog := createTestCatalog(t, db, owner.ID, models.CatalogStatusClosed)
	position := createTestPosition(t, db, investor.ID, catalog.ID, decimal.NewFromInt(100))

	found, err := svc.GetPosition(position.ID, investor.ID)
	require.NoError(t, err)
	assert.Equal(t, position.ID, found.ID)

	_, err = svc.GetPosition(position.ID, stranger.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
