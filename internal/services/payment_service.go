// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/account"
	"github.com/stripe/stripe-go/v74/accountlink"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/config"
	"github.com/openroyalty/marketplace-backend/internal/models"
)

// PaymentService manages payout account onboarding with Stripe Connect.
// Purchases themselves settle off-session; the platform never captures a
// charge through this service.
type PaymentService struct {
	db  *gorm.DB
	cfg *config.Config
}

type PayoutAccountStatus struct {
	AccountID        string `json:"account_id"`
	DetailsSubmitted bool   `json:"details_submitted"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
}

func NewPaymentService(db *gorm.DB, cfg *config.Config) *PaymentService {
	if cfg.Payment.StripeSecretKey != "" {
		stripe.Key = cfg.Payment.StripeSecretKey
	}

	return &PaymentService{
		db:  db,
		cfg: cfg,
	}
}

func (s *PaymentService) configured() bool {
	return s.cfg.Payment.StripeSecretKey != ""
}

// CreateOnboardingLink provisions a connected payout account for the user if
// they do not have one yet and returns a hosted onboarding URL.
func (s *PaymentService) CreateOnboardingLink(userID uuid.UUID) (string, error) {
	if !s.configured() {
		return "", errors.New("payment provider not configured")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("user not found")
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	accountID := user.PayoutAccountID
	if accountID == "" {
		params := &stripe.AccountParams{
			Type:  stripe.String(string(stripe.AccountTypeExpress)),
			Email: stripe.String(user.Email),
		}

		acct, err := account.New(params)
		if err != nil {
			return "", fmt.Errorf("failed to create payout account: %w", err)
		}

		accountID = acct.ID
		if err := s.db.Model(&user).Update("payout_account_id", accountID).Error; err != nil {
			return "", fmt.Errorf("failed to save payout account: %w", err)
		}
	}

	linkParams := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.cfg.Frontend.BaseURL + "/settings/payouts?refresh=true"),
		ReturnURL:  stripe.String(s.cfg.Frontend.BaseURL + "/settings/payouts?complete=true"),
		Type:       stripe.String("account_onboarding"),
	}

	link, err := accountlink.New(linkParams)
	if err != nil {
		return "", fmt.Errorf("failed to create onboarding link: %w", err)
	}

	return link.URL, nil
}

// GetPayoutAccountStatus reports whether the user's payout account is ready
// to receive transfers.
func (s *PaymentService) GetPayoutAccountStatus(userID uuid.UUID) (*PayoutAccountStatus, error) {
	if !s.configured() {
		return nil, errors.New("payment provider not configured")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.PayoutAccountID == "" {
		return nil, errors.New("no payout account found")
	}

	acct, err := account.GetByID(user.PayoutAccountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payout account: %w", err)
	}

	return &PayoutAccountStatus{
		AccountID:        acct.ID,
		DetailsSubmitted: acct.DetailsSubmitted,
		PayoutsEnabled:   acct.PayoutsEnabled,
	}, nil
}
