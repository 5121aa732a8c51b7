// internal/handlers/cashflow.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openroyalty/marketplace-backend/internal/services"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type CashflowHandler struct {
	cashflowService *services.CashflowService
}

func NewCashflowHandler(cashflowService *services.CashflowService) *CashflowHandler {
	return &CashflowHandler{cashflowService: cashflowService}
}

// CreateCashflow handles POST /v1/admin/cashflows
func (h *CashflowHandler) CreateCashflow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateCashflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	cashflow, err := h.cashflowService.CreateCashflow(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, cashflow)
}

// MarkAsPaid handles POST /v1/admin/payouts/:id/mark-paid
func (h *CashflowHandler) MarkAsPaid(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	payoutID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	entry, err := h.cashflowService.MarkAsPaid(payoutID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, entry)
}

// ListCatalogCashflows handles GET /v1/catalogs/:id/cashflows
func (h *CashflowHandler) ListCatalogCashflows(c *gin.Context) {
	catalogID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	cashflows, err := h.cashflowService.ListCatalogCashflows(catalogID, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, cashflows)
}

// ListMyCashflows handles GET /v1/portfolio/cashflows
func (h *CashflowHandler) ListMyCashflows(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	status := c.Query("status")

	entries, total, err := h.cashflowService.ListInvestorCashflows(userID, status, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params))
}

// PendingPayouts handles GET /v1/admin/payouts/pending
func (h *CashflowHandler) PendingPayouts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.cashflowService.PendingPayouts(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params))
}
