package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallretail/fieldsync/internal/vendorctx"
)

const headerVendorID = "X-Vendor-Id"

// VendorIdentity resolves the calling vendor from the X-Vendor-Id header and
// stashes it in the request context. The header is optional: batch bodies
// carry a vendor_id fallback, so an absent or malformed header just means no
// override.
func (s *Server) VendorIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerVendorID))
		if raw == "" {
			c.Next()
			return
		}

		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			AbortWithError(c, newValidationError("vendor_id", "invalid_vendor_id", "invalid vendor id"))
			return
		}

		ctx := vendorctx.WithVendorID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SyncRateLimit throttles batch submissions per vendor. When the limiter is
// not configured every request passes; when redis is unreachable the request
// is allowed and the failure logged, sync availability wins over throttling.
func (s *Server) SyncRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.syncLimiter.Enabled() {
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader(headerVendorID))
		if key == "" {
			key = c.ClientIP()
		}

		allowed, err := s.syncLimiter.AllowVendor(c.Request.Context(), key)
		if err != nil {
			s.log.Warn("sync rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}
