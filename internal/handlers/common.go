// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/openroyalty/marketplace-backend/internal/utils"
)

// handleServiceError maps a service-layer error onto an HTTP status. Business
// errors carry lowercase sentences; infrastructure errors are wrapped and hit
// the 500 branch.
func handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
		return
	}

	msg := err.Error()

	switch {
	case strings.Contains(msg, "not found"):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", msg, nil)
	case strings.Contains(msg, "admin access"),
		strings.Contains(msg, "permission"),
		strings.Contains(msg, "KYC verification"),
		strings.Contains(msg, "your own"),
		strings.Contains(msg, "only creators"):
		utils.ForbiddenResponse(c, msg)
	case strings.Contains(msg, "same time"),
		strings.Contains(msg, "already"),
		strings.Contains(msg, "is not pending"),
		strings.Contains(msg, "is not under review"):
		utils.ConflictResponse(c, msg)
	case strings.Contains(msg, "database error"),
		strings.Contains(msg, "failed to"):
		utils.InternalErrorResponse(c, "")
	default:
		utils.BadRequestResponse(c, msg, nil)
	}
}

// currentUserID returns the authenticated user's id from the request context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	return id, true
}

// pathUUID parses a :param path segment as a UUID.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+param, nil)
		return uuid.Nil, false
	}

	return id, true
}
