package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	changefeeddomain "github.com/smallretail/fieldsync/internal/changefeed/domain"
	"github.com/smallretail/fieldsync/internal/config"
	obsmetrics "github.com/smallretail/fieldsync/internal/observability/metrics"
	syncerdomain "github.com/smallretail/fieldsync/internal/syncer/domain"
	"github.com/smallretail/fieldsync/internal/vendorctx"
)

type stubSyncService struct {
	gotBatch     syncerdomain.Batch
	gotCtxVendor snowflake.ID
	result       *syncerdomain.Result
	err          error
}

func (s *stubSyncService) Process(ctx context.Context, batch syncerdomain.Batch) (*syncerdomain.Result, error) {
	s.gotBatch = batch
	if id, ok := vendorctx.VendorIDFromContext(ctx); ok {
		s.gotCtxVendor = id
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestServer(t *testing.T, stub *stubSyncService) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := NewEngine(zap.NewNop(), obsmetrics.HTTP())
	NewServer(ServerParams{
		Gin:     engine,
		Cfg:     config.Config{},
		Log:     zap.NewNop(),
		SyncSvc: stub,
	})
	return engine
}

func defaultResult() *syncerdomain.Result {
	return &syncerdomain.Result{
		ServerTime: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Results: []syncerdomain.ItemResult{
			{Type: "order", LocalID: "order-1", OK: true, ServerID: "42", InvoiceNumber: 7},
		},
		Changes: changefeeddomain.Changes{},
	}
}

func TestSyncParsesBatch(t *testing.T) {
	stub := &stubSyncService{result: defaultResult()}
	engine := newTestServer(t, stub)

	body := `{
		"vendor_id": "1234567890123456789",
		"last_sync_at": "2026-03-13T08:00:00Z",
		"orders": [{"local_id": "order-1", "customer_name": "Walk-in", "items": []}],
		"visits": [{"local_id": "visit-1", "customer_name": "Corner Shop"}]
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, snowflake.ID(1234567890123456789), stub.gotBatch.VendorID)
	require.Equal(t, time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC), stub.gotBatch.LastSyncAt)
	require.Len(t, stub.gotBatch.Orders, 1)
	require.Len(t, stub.gotBatch.Visits, 1)

	var resp syncerdomain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	require.Equal(t, "order-1", resp.Results[0].LocalID)
}

func TestSyncVendorHeaderOverridesBody(t *testing.T) {
	stub := &stubSyncService{result: defaultResult()}
	engine := newTestServer(t, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"orders": []}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Vendor-Id", "987654321098765432")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, snowflake.ID(987654321098765432), stub.gotCtxVendor)
}

func TestSyncRejectsMalformedBody(t *testing.T) {
	stub := &stubSyncService{result: defaultResult()}
	engine := newTestServer(t, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"orders": "nope"`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "validation_error")
}

func TestSyncRejectsMalformedVendorHeader(t *testing.T) {
	stub := &stubSyncService{result: defaultResult()}
	engine := newTestServer(t, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Vendor-Id", "not-a-vendor")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_vendor_id")
}

func TestParseLastSyncAtFallsBackToEpoch(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()

	require.Equal(t, epoch, parseLastSyncAt(""))
	require.Equal(t, epoch, parseLastSyncAt("yesterday-ish"))
	require.Equal(t,
		time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC),
		parseLastSyncAt("2026-03-13T08:00:00Z"),
	)
}
