// internal/handlers/bid.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openroyalty/marketplace-backend/internal/i18n"
	"github.com/openroyalty/marketplace-backend/internal/services"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type BidHandler struct {
	bidService *services.BidService
}

func NewBidHandler(bidService *services.BidService) *BidHandler {
	return &BidHandler{bidService: bidService}
}

// PlaceBid handles POST /v1/listings/:id/bids
func (h *BidHandler) PlaceBid(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}
	req.ListingID = listingID

	bid, err := h.bidService.PlaceBid(userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "KYC verification") {
			lang := utils.GetLangFromContext(c)
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyUserKYCRequired))
			return
		}
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, bid)
}

// GetBidHistory handles GET /v1/listings/:id/bids
func (h *BidHandler) GetBidHistory(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	bids, err := h.bidService.GetBidHistory(listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, bids)
}
