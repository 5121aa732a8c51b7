// internal/handlers/listing.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openroyalty/marketplace-backend/internal/services"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListing handles POST /v1/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	listing, err := h.listingService.CreateListing(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, listing)
}

// SubmitForApproval handles POST /v1/listings/:id/submit
func (h *ListingHandler) SubmitForApproval(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.SubmitForApproval(listingID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, listing)
}

// ApproveListing handles POST /v1/admin/listings/:id/approve
func (h *ListingHandler) ApproveListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.ApproveListing(listingID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, listing)
}

// CancelListing handles POST /v1/listings/:id/cancel
func (h *ListingHandler) CancelListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.CancelListing(listingID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, listing)
}

// BuyNow handles POST /v1/listings/:id/buy-now
func (h *ListingHandler) BuyNow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	position, err := h.listingService.BuyNow(listingID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, position)
}

// GetListing handles GET /v1/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.GetListing(listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, listing)
}

// GetMyListings handles GET /v1/listings/mine
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingService.GetSellerListings(userID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(listings, total, params))
}

// GetPendingApproval handles GET /v1/admin/listings/pending
func (h *ListingHandler) GetPendingApproval(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingService.GetPendingApproval(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(listings, total, params))
}
