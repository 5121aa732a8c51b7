// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openroyalty/marketplace-backend/internal/services"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateCatalog handles POST /v1/catalogs
func (h *CatalogHandler) CreateCatalog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	catalog, err := h.catalogService.CreateCatalog(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, catalog)
}

// UpdateCatalog handles PATCH /v1/catalogs/:id
func (h *CatalogHandler) UpdateCatalog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	catalogID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	catalog, err := h.catalogService.UpdateCatalog(catalogID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, catalog)
}

// SubmitForReview handles POST /v1/catalogs/:id/submit
func (h *CatalogHandler) SubmitForReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	catalogID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	catalog, err := h.catalogService.SubmitForReview(catalogID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, catalog)
}

// ReviewCatalog handles POST /v1/admin/catalogs/:id/review
func (h *CatalogHandler) ReviewCatalog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	catalogID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	catalog, err := h.catalogService.ReviewCatalog(catalogID, userID, req.Approve)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, catalog)
}

// GetCatalog handles GET /v1/catalogs/:id
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	catalogID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	catalog, err := h.catalogService.GetCatalog(catalogID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, catalog)
}

// SearchCatalogs handles GET /v1/catalogs
func (h *CatalogHandler) SearchCatalogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filters := services.CatalogSearchParams{
		Type:       c.Query("type"),
		RightsType: c.Query("rights_type"),
		Status:     c.Query("status"),
	}

	catalogs, total, err := h.catalogService.SearchCatalogs(filters, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(catalogs, total, params))
}

// GetMyCatalogs handles GET /v1/catalogs/mine
func (h *CatalogHandler) GetMyCatalogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	filters := services.CatalogSearchParams{
		Type:    c.Query("type"),
		Status:  c.Query("status"),
		OwnerID: &userID,
	}

	catalogs, total, err := h.catalogService.SearchCatalogs(filters, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(catalogs, total, params))
}
