// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/models"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type CatalogService struct {
	db           *gorm.DB
	revalidation *RevalidationService
}

type CreateCatalogRequest struct {
	Type        models.CatalogType `json:"type" validate:"required,oneof=MUSIC FILM BOOK OTHER"`
	Title       string             `json:"title" validate:"required,min=1,max=200"`
	Description string             `json:"description" validate:"required,min=10"`
	ArtworkURL  string             `json:"artwork_url,omitempty" validate:"omitempty,url,max=500"`
	PreviewURL  string             `json:"preview_url,omitempty" validate:"omitempty,url,max=500"`
	RightsType  models.RightsType  `json:"rights_type" validate:"required,oneof=MASTER PUBLISHING SYNC PERFORMANCE MECHANICAL"`
	TermType    models.TermType    `json:"term_type" validate:"required,oneof=TERM PERPETUAL"`
	TermEndDate *time.Time         `json:"term_end_date,omitempty"`

	Trailing12MonthsEarnings decimal.Decimal `json:"trailing_12_months_earnings" validate:"nonnegative_amount"`
	AvgAnnualEarnings        decimal.Decimal `json:"avg_annual_earnings" validate:"nonnegative_amount"`
	Currency                 string          `json:"currency" validate:"required,currency_code"`
}

type UpdateCatalogRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=10"`
	ArtworkURL  *string    `json:"artwork_url,omitempty" validate:"omitempty,url,max=500"`
	PreviewURL  *string    `json:"preview_url,omitempty" validate:"omitempty,url,max=500"`
	TermEndDate *time.Time `json:"term_end_date,omitempty"`

	Trailing12MonthsEarnings *decimal.Decimal `json:"trailing_12_months_earnings,omitempty"`
	AvgAnnualEarnings        *decimal.Decimal `json:"avg_annual_earnings,omitempty"`
}

type CatalogSearchParams struct {
	Type       string
	RightsType string
	Status     string
	OwnerID    *uuid.UUID
}

func NewCatalogService(db *gorm.DB, revalidation *RevalidationService) *CatalogService {
	return &CatalogService{
		db:           db,
		revalidation: revalidation,
	}
}

func (s *CatalogService) CreateCatalog(ownerID uuid.UUID, req *CreateCatalogRequest) (*models.Catalog, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.TermType == models.TermTypeTerm && req.TermEndDate == nil {
		return nil, errors.New("term catalogs must have a term end date")
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !owner.HasRole(models.UserRoleCreator) {
		return nil, errors.New("only creators can list catalogs")
	}

	catalog := &models.Catalog{
		OwnerID:     ownerID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		ArtworkURL:  req.ArtworkURL,
		PreviewURL:  req.PreviewURL,
		RightsType:  req.RightsType,
		TermType:    req.TermType,
		TermEndDate: req.TermEndDate,
		Status:      models.CatalogStatusDraft,

		Trailing12MonthsEarnings: req.Trailing12MonthsEarnings,
		AvgAnnualEarnings:        req.AvgAnnualEarnings,
		Currency:                 req.Currency,
	}

	if err := s.db.Create(catalog).Error; err != nil {
		return nil, fmt.Errorf("failed to create catalog: %w", err)
	}

	s.revalidation.Revalidate("/sell")

	return catalog, nil
}

// UpdateCatalog edits a draft. Anything past DRAFT is frozen for the owner;
// changes would invalidate what the admin reviewed.
func (s *CatalogService) UpdateCatalog(catalogID, ownerID uuid.UUID, req *UpdateCatalogRequest) (*models.Catalog, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var catalog models.Catalog
	if err := s.db.Where("id = ? AND owner_id = ?", catalogID, ownerID).First(&catalog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("catalog not found or you do not have permission")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if catalog.Status != models.CatalogStatusDraft {
		return nil, errors.New("only draft catalogs can be edited")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ArtworkURL != nil {
		updates["artwork_url"] = *req.ArtworkURL
	}
	if req.PreviewURL != nil {
		updates["preview_url"] = *req.PreviewURL
	}
	if req.TermEndDate != nil {
		updates["term_end_date"] = *req.TermEndDate
	}
	if req.Trailing12MonthsEarnings != nil {
		if req.Trailing12MonthsEarnings.IsNegative() {
			return nil, errors.New("earnings cannot be negative")
		}
		updates["trailing12_months_earnings"] = *req.Trailing12MonthsEarnings
	}
	if req.AvgAnnualEarnings != nil {
		if req.AvgAnnualEarnings.IsNegative() {
			return nil, errors.New("earnings cannot be negative")
		}
		updates["avg_annual_earnings"] = *req.AvgAnnualEarnings
	}

	if len(updates) == 0 {
		return &catalog, nil
	}

	if err := s.db.Model(&catalog).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update catalog: %w", err)
	}

	s.revalidation.Revalidate("/sell", fmt.Sprintf("/catalog/%s", catalog.ID))

	return &catalog, nil
}

func (s *CatalogService) SubmitForReview(catalogID, ownerID uuid.UUID) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := s.db.Where("id = ? AND owner_id = ?", catalogID, ownerID).First(&catalog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("catalog not found or you do not have permission")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if catalog.Status != models.CatalogStatusDraft {
		return nil, errors.New("only draft catalogs can be submitted for review")
	}

	if err := s.db.Model(&catalog).Update("status", models.CatalogStatusUnderReview).Error; err != nil {
		return nil, fmt.Errorf("failed to update catalog: %w", err)
	}

	s.revalidation.Revalidate("/sell", "/admin")

	return &catalog, nil
}

// ReviewCatalog is the admin decision on a submitted catalog: approve moves
// it to LISTED, reject sends it back to DRAFT for rework.
func (s *CatalogService) ReviewCatalog(catalogID, adminUserID uuid.UUID, approve bool) (*models.Catalog, error) {
	var admin models.User
	if err := s.db.First(&admin, "id = ?", adminUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("admin access required")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !admin.IsAdmin() {
		return nil, errors.New("admin access required")
	}

	var catalog models.Catalog
	if err := s.db.First(&catalog, "id = ?", catalogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("catalog not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if catalog.Status != models.CatalogStatusUnderReview {
		return nil, errors.New("catalog is not under review")
	}

	status := models.CatalogStatusDraft
	if approve {
		status = models.CatalogStatusListed
	}

	if err := s.db.Model(&catalog).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update catalog: %w", err)
	}

	s.revalidation.Revalidate("/admin", "/catalog")

	return &catalog, nil
}

func (s *CatalogService) GetCatalog(catalogID uuid.UUID) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := s.db.Preload("Owner").Preload("Listings", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).First(&catalog, "id = ?", catalogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("catalog not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &catalog, nil
}

// SearchCatalogs powers the public browse page. Without an owner filter only
// publicly visible catalogs (LISTED, LIVE, CLOSED) are returned.
func (s *CatalogService) SearchCatalogs(filters CatalogSearchParams, params utils.PaginationParams) ([]models.Catalog, int64, error) {
	query := s.db.Model(&models.Catalog{}).Preload("Owner")

	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	} else {
		query = query.Where("status IN ?", []models.CatalogStatus{
			models.CatalogStatusListed,
			models.CatalogStatusLive,
			models.CatalogStatusClosed,
		})
	}

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.RightsType != "" {
		query = query.Where("rights_type = ?", filters.RightsType)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count catalogs: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "trailing12_months_earnings", "avg_annual_earnings"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var catalogs []models.Catalog
	if err := query.Find(&catalogs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch catalogs: %w", err)
	}

	return catalogs, total, nil
}

// GetUnderReview feeds the admin review queue.
func (s *CatalogService) GetUnderReview(params utils.PaginationParams) ([]models.Catalog, int64, error) {
	query := s.db.Model(&models.Catalog{}).
		Where("status = ?", models.CatalogStatusUnderReview).
		Preload("Owner")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count catalogs: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var catalogs []models.Catalog
	if err := query.Find(&catalogs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch catalogs: %w", err)
	}

	return catalogs, total, nil
}
