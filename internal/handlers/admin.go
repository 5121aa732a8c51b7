// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openroyalty/marketplace-backend/internal/services"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type AdminHandler struct {
	adminService   *services.AdminService
	catalogService *services.CatalogService
}

func NewAdminHandler(adminService *services.AdminService, catalogService *services.CatalogService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		catalogService: catalogService,
	}
}

// GetDashboard handles GET /v1/admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// SearchUsers handles GET /v1/admin/users
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filters := services.UserSearchParams{
		Role:      c.Query("role"),
		KYCStatus: c.Query("kyc_status"),
	}

	users, total, err := h.adminService.SearchUsers(filters, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// UpdateKYCStatus handles POST /v1/admin/users/:id/kyc
func (h *AdminHandler) UpdateKYCStatus(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	user, err := h.adminService.UpdateKYCStatus(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// UpdateRoles handles PUT /v1/admin/users/:id/roles
func (h *AdminHandler) UpdateRoles(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	user, err := h.adminService.UpdateRoles(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// GetCatalogsUnderReview handles GET /v1/admin/catalogs/under-review
func (h *AdminHandler) GetCatalogsUnderReview(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	catalogs, total, err := h.catalogService.GetUnderReview(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(catalogs, total, params))
}

// GetAuditLogs handles GET /v1/admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.GetAuditLogs(params, c.Query("action"), c.Query("resource_type"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}
