package observability

import (
	"github.com/smallretail/fieldsync/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(metrics.HTTP),
	fx.Provide(metrics.Sync),
)
