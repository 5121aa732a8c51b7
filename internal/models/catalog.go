// internal/models/catalog.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Catalog struct {
	BaseModel
	OwnerID     uuid.UUID   `json:"owner_id" gorm:"type:uuid;not null;index"`
	Type        CatalogType `json:"type" gorm:"type:varchar(20);not null;index"`
	Title       string      `json:"title" gorm:"size:200;not null"`
	Description string      `json:"description" gorm:"type:text;not null"`
	ArtworkURL  string      `json:"artwork_url,omitempty" gorm:"size:500"`
	PreviewURL  string      `json:"preview_url,omitempty" gorm:"size:500"`
	RightsType  RightsType  `json:"rights_type" gorm:"type:varchar(20);not null"`
	TermType    TermType    `json:"term_type" gorm:"type:varchar(20);not null"`
	TermEndDate *time.Time  `json:"term_end_date,omitempty"`
	Status      CatalogStatus `json:"status" gorm:"type:varchar(20);default:'DRAFT';index"`

	Trailing12MonthsEarnings decimal.Decimal `json:"trailing_12_months_earnings" gorm:"column:trailing12_months_earnings;type:numeric(14,2);default:0"`
	AvgAnnualEarnings        decimal.Decimal `json:"avg_annual_earnings" gorm:"type:numeric(14,2);default:0"`
	Currency                 string          `json:"currency" gorm:"size:3;not null"`

	// Relationships
	Owner     User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Listings  []Listing  `json:"listings,omitempty" gorm:"foreignKey:CatalogID"`
	Positions []Position `json:"positions,omitempty" gorm:"foreignKey:CatalogID"`
	Cashflows []Cashflow `json:"cashflows,omitempty" gorm:"foreignKey:CatalogID"`
}
