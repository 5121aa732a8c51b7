// internal/handlers/portfolio.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openroyalty/marketplace-backend/internal/services"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type PortfolioHandler struct {
	positionService *services.PositionService
}

func NewPortfolioHandler(positionService *services.PositionService) *PortfolioHandler {
	return &PortfolioHandler{positionService: positionService}
}

// GetPortfolio handles GET /v1/portfolio
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.positionService.GetPortfolio(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// GetPositions handles GET /v1/portfolio/positions
func (h *PortfolioHandler) GetPositions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	positions, total, err := h.positionService.GetInvestorPositions(userID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(positions, total, params))
}

// GetPosition handles GET /v1/portfolio/positions/:id
func (h *PortfolioHandler) GetPosition(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	positionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	position, err := h.positionService.GetPosition(positionID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, position)
}
