package middleware

import (
	"net/http"
	"strings"

	"venue-backend/tenant"

	"github.com/gin-gonic/gin"
)

// SecretHeader carries the venue's shared secret. It doubles as the tenant
// key: every row a request touches is partitioned by the id derived from it.
const SecretHeader = "X-Venue-Secret"

const tenantKey = "tenantID"

// MinSecretLength rejects obviously unusable secrets; anything longer is a
// valid tenant by construction.
const MinSecretLength = 8

// RequireSecret rejects requests without a usable shared secret and stores
// the resolved tenant id in the request context.
func RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(c.GetHeader(SecretHeader))
		if len(secret) < MinSecretLength {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "missing or invalid venue secret",
			})
			return
		}
		c.Set(tenantKey, tenant.Resolve(secret))
		c.Next()
	}
}

// TenantID returns the tenant id resolved by RequireSecret.
func TenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}
