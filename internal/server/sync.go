package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	syncerdomain "github.com/smallretail/fieldsync/internal/syncer/domain"
)

type syncRequest struct {
	VendorID   string                         `json:"vendor_id"`
	LastSyncAt string                         `json:"last_sync_at"`
	Orders     []syncerdomain.OrderSubmission `json:"orders"`
	Visits     []syncerdomain.VisitSubmission `json:"visits"`
}

// Sync ingests one offline batch. The response always carries a per-item
// verdict plus the change feed; only an unparseable body fails the request.
func (s *Server) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	batch := syncerdomain.Batch{
		LastSyncAt: parseLastSyncAt(req.LastSyncAt),
		Orders:     req.Orders,
		Visits:     req.Visits,
	}

	if raw := strings.TrimSpace(req.VendorID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			AbortWithError(c, newValidationError("vendor_id", "invalid_vendor_id", "invalid vendor id"))
			return
		}
		batch.VendorID = id
	}

	result, err := s.syncSvc.Process(c.Request.Context(), batch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseLastSyncAt accepts RFC 3339; anything else falls back to the epoch so
// a device with a corrupt cursor receives the full feed rather than a gap.
func parseLastSyncAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Unix(0, 0).UTC()
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return parsed.UTC()
}
