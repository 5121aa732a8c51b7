// internal/middleware/logging.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/models"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

// RequestLogger emits one structured log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		}

		if userID, ok := utils.GetUserIDFromContext(c); ok {
			fields["user_id"] = userID
		}

		entry := logrus.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request completed")
		}
	}
}

// AuditLogger records successful mutations to the audit trail. The write is
// asynchronous; a lost audit row never fails the request that caused it.
func AuditLogger(db *gorm.DB, action, resourceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}

		if userIDStr, ok := utils.GetUserIDFromContext(c); ok {
			if userID, err := uuid.Parse(userIDStr); err == nil {
				entry.UserID = &userID
			}
		}

		if idParam := c.Param("id"); idParam != "" {
			if resourceID, err := uuid.Parse(idParam); err == nil {
				entry.ResourceID = &resourceID
			}
		}

		go func() {
			if err := db.Create(entry).Error; err != nil {
				logrus.WithError(err).WithField("action", action).Warn("Failed to write audit log")
			}
		}()
	}
}
