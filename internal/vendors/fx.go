package vendor

import (
	"github.com/smallretail/fieldsync/internal/vendors/repository"
	"github.com/smallretail/fieldsync/internal/vendors/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vendor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
