// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openroyalty/marketplace-backend/internal/models"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

// AuthRequired validates the bearer token and stores the caller's identity
// in the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractClaims(c)
		if !ok {
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// AdminRequired assumes AuthRequired already ran on the group.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := utils.GetRolesFromContext(c)
		if !ok || !hasRole(roles, string(models.UserRoleAdmin)) {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth sets the caller's identity when a valid token is present but
// lets anonymous requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := utils.ValidateJWT(tokenString); err == nil {
				setClaims(c, claims)
			}
		}

		c.Next()
	}
}

func extractClaims(c *gin.Context) (*utils.JWTClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	return claims, true
}

func setClaims(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("roles", claims.Roles)
	c.Set("kyc_status", claims.KYCStatus)
}

func hasRole(roles, role string) bool {
	for _, r := range strings.Split(roles, ",") {
		if r == role {
			return true
		}
	}
	return false
}
