package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "fieldsync", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 15*time.Second, cfg.Sync.ItemTimeout)
	require.True(t, cfg.Sync.AllowNegativeStock)
	require.Equal(t, 3, cfg.Sync.InvoiceNumberRetries)
	require.False(t, cfg.RateLimit.Enabled)
	require.True(t, cfg.Bootstrap.EnsureDefaultVendor)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SYNC_ITEM_TIMEOUT_MS", "2500")
	t.Setenv("SYNC_ALLOW_NEGATIVE_STOCK", "false")
	t.Setenv("SYNC_INVOICE_NUMBER_RETRIES", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_SYNC_RATE", "2.5")

	cfg := Load()

	require.Equal(t, 2500*time.Millisecond, cfg.Sync.ItemTimeout)
	require.False(t, cfg.Sync.AllowNegativeStock)
	require.Equal(t, 5, cfg.Sync.InvoiceNumberRetries)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 2.5, cfg.RateLimit.SyncRate)
}

func TestGetenvBoolUnparseableFallsBack(t *testing.T) {
	t.Setenv("SYNC_ALLOW_NEGATIVE_STOCK", "maybe")

	cfg := Load()
	require.True(t, cfg.Sync.AllowNegativeStock)
}
