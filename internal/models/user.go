// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email           string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name            string         `json:"name" gorm:"size:100;not null"`
	Roles           pq.StringArray `json:"roles" gorm:"type:text[];not null"`
	KYCStatus       KYCStatus      `json:"kyc_status" gorm:"type:varchar(20);default:'PENDING';index"`
	PayoutAccountID string         `json:"payout_account_id,omitempty" gorm:"size:100"`
	ProfileData     JSONB          `json:"profile_data" gorm:"type:jsonb"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	LastLoginAt     *time.Time     `json:"last_login_at"`

	// Relationships
	Catalogs  []Catalog  `json:"catalogs,omitempty" gorm:"foreignKey:OwnerID"`
	Positions []Position `json:"positions,omitempty" gorm:"foreignKey:InvestorID"`
	Bids      []Bid      `json:"bids,omitempty" gorm:"foreignKey:BidderID"`
}

func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(UserRoleAdmin)
}

// LoginCode is one emailed sign-in code. The code itself is never stored,
// only a bcrypt hash of it.
type LoginCode struct {
	BaseModel
	Email      string     `json:"email" gorm:"size:255;not null;index"`
	CodeHash   string     `json:"-" gorm:"size:255;not null"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	ConsumedAt *time.Time `json:"consumed_at"`
}

func (lc *LoginCode) SetCode(code string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	lc.CodeHash = string(hashed)
	return nil
}

func (lc *LoginCode) CheckCode(code string) error {
	return bcrypt.CompareHashAndPassword([]byte(lc.CodeHash), []byte(code))
}
