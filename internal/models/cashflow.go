// internal/models/cashflow.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cashflow is one admin-submitted royalty receipt for a catalog and period.
// Immutable after creation.
type Cashflow struct {
	BaseModel
	CatalogID   uuid.UUID `json:"catalog_id" gorm:"type:uuid;not null;index"`
	PeriodStart time.Time `json:"period_start" gorm:"not null"`
	PeriodEnd   time.Time `json:"period_end" gorm:"not null"`

	GrossRoyaltyAmount    decimal.Decimal `json:"gross_royalty_amount" gorm:"type:numeric(14,2);not null"`
	PlatformFeePercentage decimal.Decimal `json:"platform_fee_percentage" gorm:"type:numeric(5,2);not null"`
	PlatformFeeAmount     decimal.Decimal `json:"platform_fee_amount" gorm:"type:numeric(14,2);not null"`
	NetDistributableAmount decimal.Decimal `json:"net_distributable_amount" gorm:"type:numeric(14,2);not null"`
	Currency              string          `json:"currency" gorm:"size:3;not null"`

	// Relationships
	Catalog           Catalog            `json:"catalog,omitempty" gorm:"foreignKey:CatalogID"`
	InvestorCashflows []InvestorCashflow `json:"investor_cashflows,omitempty" gorm:"foreignKey:CashflowID"`
}

// InvestorCashflow is one investor's proportional share of a cashflow's net
// distributable amount, one row per (position, cashflow) pair.
type InvestorCashflow struct {
	BaseModel
	CashflowID uuid.UUID `json:"cashflow_id" gorm:"type:uuid;not null;index"`
	PositionID uuid.UUID `json:"position_id" gorm:"type:uuid;not null;index"`
	CatalogID  uuid.UUID `json:"catalog_id" gorm:"type:uuid;not null;index"`
	InvestorID uuid.UUID `json:"investor_id" gorm:"type:uuid;not null;index"`

	PeriodStart time.Time `json:"period_start" gorm:"not null"`
	PeriodEnd   time.Time `json:"period_end" gorm:"not null"`

	PayoutAmount decimal.Decimal `json:"payout_amount" gorm:"type:numeric(14,2);not null"`
	Currency     string          `json:"currency" gorm:"size:3;not null"`
	PayoutStatus PayoutStatus    `json:"payout_status" gorm:"type:varchar(20);default:'PENDING';index"`
	PayoutDate   *time.Time      `json:"payout_date,omitempty"`
	PayoutReference string       `json:"payout_reference,omitempty" gorm:"size:100"`

	// Relationships
	Cashflow Cashflow `json:"cashflow,omitempty" gorm:"foreignKey:CashflowID"`
	Position Position `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	Investor User     `json:"investor,omitempty" gorm:"foreignKey:InvestorID"`
}
