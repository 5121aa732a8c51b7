// internal/models/listing.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Listing struct {
	BaseModel
	CatalogID uuid.UUID     `json:"catalog_id" gorm:"type:uuid;not null;index"`
	SellerID  uuid.UUID     `json:"seller_id" gorm:"type:uuid;not null;index"`
	Mode      ListingMode   `json:"mode" gorm:"type:varchar(20);not null"`
	Status    ListingStatus `json:"status" gorm:"type:varchar(20);default:'DRAFT';index"`
	StartTime *time.Time    `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`

	ReservePrice    decimal.Decimal  `json:"reserve_price" gorm:"type:numeric(14,2);not null"`
	BuyNowPrice     *decimal.Decimal `json:"buy_now_price,omitempty" gorm:"type:numeric(14,2)"`
	MinBidIncrement decimal.Decimal  `json:"min_bid_increment" gorm:"type:numeric(14,2);not null"`
	Currency        string           `json:"currency" gorm:"size:3;not null"`

	// Auction state. CurrentHighestBid is non-decreasing once set; both fields
	// only ever advance inside the same transaction that records the bid row.
	CurrentHighestBid      *decimal.Decimal `json:"current_highest_bid,omitempty" gorm:"type:numeric(14,2)"`
	CurrentHighestBidderID *uuid.UUID       `json:"current_highest_bidder_id,omitempty" gorm:"type:uuid"`

	// Relationships
	Catalog Catalog `json:"catalog,omitempty" gorm:"foreignKey:CatalogID"`
	Seller  User    `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Bids    []Bid   `json:"bids,omitempty" gorm:"foreignKey:ListingID"`
}

// Bid is immutable once created: no updates, no deletes.
type Bid struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID       `json:"listing_id" gorm:"type:uuid;not null;index"`
	BidderID  uuid.UUID       `json:"bidder_id" gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`

	IsMaxProxyBid  bool             `json:"is_max_proxy_bid" gorm:"default:false"`
	MaxProxyAmount *decimal.Decimal `json:"max_proxy_amount,omitempty" gorm:"type:numeric(14,2)"`

	CreatedAt time.Time `json:"created_at"`

	Bidder User `json:"bidder,omitempty" gorm:"foreignKey:BidderID"`
}

func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
