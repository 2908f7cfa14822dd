package vendorctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// VendorContextKey is the request context key for the authenticated vendor ID.
type VendorContextKey struct{}

// WithVendorID stores the vendor ID in the context.
func WithVendorID(ctx context.Context, vendorID snowflake.ID) context.Context {
	return context.WithValue(ctx, VendorContextKey{}, vendorID)
}

// VendorIDFromContext returns the vendor ID from context, if set.
func VendorIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(VendorContextKey{})
	if value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
