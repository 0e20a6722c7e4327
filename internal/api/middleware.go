package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zonewarden.io/internal/logging"
)

// TenantHeader carries the caller's tenant id. Authenticating it is the caller's job.
const TenantHeader = "X-Tenant-ID"

const tenantKey = "tenant"

func requireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := c.GetHeader(TenantHeader)
		if tenant == "" {
			abortWithError(c, http.StatusBadRequest, "missing_tenant", TenantHeader+" header is required", "")
			return
		}
		c.Set(tenantKey, tenant)
		c.Next()
	}
}

func tenantOf(c *gin.Context) string {
	return c.GetString(tenantKey)
}

func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logging.Debug("api", "Request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"tenant", c.GetHeader(TenantHeader),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
