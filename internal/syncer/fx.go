package syncer

import (
	"github.com/smallretail/fieldsync/internal/syncer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sync.service",
	fx.Provide(service.New),
)
