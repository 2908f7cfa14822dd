package changefeed

import (
	"github.com/smallretail/fieldsync/internal/changefeed/service"
	"go.uber.org/fx"
)

var Module = fx.Module("changefeed.provider",
	fx.Provide(service.New),
)
