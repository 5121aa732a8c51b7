// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/models"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalUsers              int64 `json:"total_users"`
	PendingKYC              int64 `json:"pending_kyc"`
	TotalCatalogs           int64 `json:"total_catalogs"`
	CatalogsUnderReview     int64 `json:"catalogs_under_review"`
	ActiveListings          int64 `json:"active_listings"`
	ListingsPendingApproval int64 `json:"listings_pending_approval"`
	TotalPositions          int64 `json:"total_positions"`
	PendingPayouts          int64 `json:"pending_payouts"`

	TotalDistributed    decimal.Decimal `json:"total_distributed"`
	PendingPayoutAmount decimal.Decimal `json:"pending_payout_amount"`
}

type UserSearchParams struct {
	Role      string
	KYCStatus string
}

type UpdateKYCRequest struct {
	Status models.KYCStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Reason string           `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=CREATOR INVESTOR ADMIN"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.Model(&models.User{})},
		{&stats.PendingKYC, s.db.Model(&models.User{}).Where("kyc_status = ?", models.KYCStatusPending)},
		{&stats.TotalCatalogs, s.db.Model(&models.Catalog{})},
		{&stats.CatalogsUnderReview, s.db.Model(&models.Catalog{}).Where("status = ?", models.CatalogStatusUnderReview)},
		{&stats.ActiveListings, s.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusActive)},
		{&stats.ListingsPendingApproval, s.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusPendingApproval)},
		{&stats.TotalPositions, s.db.Model(&models.Position{})},
		{&stats.PendingPayouts, s.db.Model(&models.InvestorCashflow{}).Where("payout_status = ?", models.PayoutStatusPending)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to gather stats: %w", err)
		}
	}

	var err error
	if stats.TotalDistributed, err = s.sumPayoutAmount(models.PayoutStatusSent); err != nil {
		return nil, err
	}
	if stats.PendingPayoutAmount, err = s.sumPayoutAmount(models.PayoutStatusPending); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *AdminService) sumPayoutAmount(status models.PayoutStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.Model(&models.InvestorCashflow{}).
		Where("payout_status = ?", status).
		Select("COALESCE(SUM(payout_amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payouts: %w", err)
	}

	return total, nil
}

func (s *AdminService) SearchUsers(filters UserSearchParams, params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filters.Role != "" {
		query = query.Where("? = ANY(roles)", filters.Role)
	}
	if filters.KYCStatus != "" {
		query = query.Where("kyc_status = ?", filters.KYCStatus)
	}
	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("email ILIKE ? OR name ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "email", "name", "last_login_at"})
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// UpdateKYCStatus resolves a user's verification. Only PENDING users can be
// decided; re-review after a decision requires resetting through support.
func (s *AdminService) UpdateKYCStatus(userID uuid.UUID, req *UpdateKYCRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.KYCStatus != models.KYCStatusPending {
		return nil, errors.New("KYC status has already been decided")
	}

	if err := s.db.Model(&user).Update("kyc_status", req.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"status":  req.Status,
		"reason":  req.Reason,
	}).Info("KYC status updated")

	return &user, nil
}

// UpdateRoles replaces a user's role set.
func (s *AdminService) UpdateRoles(userID uuid.UUID, req *UpdateRolesRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("roles", pq.StringArray(req.Roles)).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.Roles = req.Roles
	return &user, nil
}

func (s *AdminService) GetAuditLogs(params utils.PaginationParams, action, resourceType string) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if action != "" {
		query = query.Where("action = ?", action)
	}
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "action"})
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}
