// internal/models/position.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position is an investor's fractional stake in a catalog. Created exactly
// once per successful purchase (buy-now or auction settlement) and never
// deleted while the term is live.
type Position struct {
	BaseModel
	InvestorID uuid.UUID `json:"investor_id" gorm:"type:uuid;not null;index"`
	CatalogID  uuid.UUID `json:"catalog_id" gorm:"type:uuid;not null;index"`

	SharePercentage  decimal.Decimal `json:"share_percentage" gorm:"type:numeric(7,4);not null"`
	AcquisitionPrice decimal.Decimal `json:"acquisition_price" gorm:"type:numeric(14,2);not null"`
	AcquiredAt       time.Time       `json:"acquired_at" gorm:"not null"`

	// Term fields are copied from the catalog at acquisition time.
	TermType    TermType   `json:"term_type" gorm:"type:varchar(20);not null"`
	TermEndDate *time.Time `json:"term_end_date,omitempty"`

	// Relationships
	Investor User    `json:"investor,omitempty" gorm:"foreignKey:InvestorID"`
	Catalog  Catalog `json:"catalog,omitempty" gorm:"foreignKey:CatalogID"`
}
