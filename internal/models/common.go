// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns IDs in the application so the same models run against
// Postgres and the in-memory SQLite databases used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleCreator  UserRole = "CREATOR"
	UserRoleInvestor UserRole = "INVESTOR"
	UserRoleAdmin    UserRole = "ADMIN"
)

type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusApproved KYCStatus = "APPROVED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

type CatalogType string

const (
	CatalogTypeMusic CatalogType = "MUSIC"
	CatalogTypeFilm  CatalogType = "FILM"
	CatalogTypeBook  CatalogType = "BOOK"
	CatalogTypeOther CatalogType = "OTHER"
)

type RightsType string

const (
	RightsTypeMaster      RightsType = "MASTER"
	RightsTypePublishing  RightsType = "PUBLISHING"
	RightsTypeSync        RightsType = "SYNC"
	RightsTypePerformance RightsType = "PERFORMANCE"
	RightsTypeMechanical  RightsType = "MECHANICAL"
)

type TermType string

const (
	TermTypeTerm      TermType = "TERM"
	TermTypePerpetual TermType = "PERPETUAL"
)

type CatalogStatus string

const (
	CatalogStatusDraft       CatalogStatus = "DRAFT"
	CatalogStatusUnderReview CatalogStatus = "UNDER_REVIEW"
	CatalogStatusListed      CatalogStatus = "LISTED"
	CatalogStatusLive        CatalogStatus = "LIVE"
	CatalogStatusClosed      CatalogStatus = "CLOSED"
)

type ListingMode string

const (
	ListingModeAuction    ListingMode = "AUCTION"
	ListingModeFixedPrice ListingMode = "FIXED_PRICE"
)

type ListingStatus string

const (
	ListingStatusDraft           ListingStatus = "DRAFT"
	ListingStatusPendingApproval ListingStatus = "PENDING_APPROVAL"
	ListingStatusActive          ListingStatus = "ACTIVE"
	ListingStatusEnded           ListingStatus = "ENDED"
	ListingStatusCancelled       ListingStatus = "CANCELLED"
)

type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "PENDING"
	PayoutStatusSent    PayoutStatus = "SENT"
	PayoutStatusFailed  PayoutStatus = "FAILED"
)
