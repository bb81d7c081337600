//go:build unit

package api_test

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const bearer = "bearer-token"

// fakeTenantAuth stands in for RequireTenant so handlers see a fixed tenant.
func fakeTenantAuth(tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("tenant_id", tenantID)
		c.Next()
	}
}
