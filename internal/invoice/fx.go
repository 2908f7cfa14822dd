package invoice

import (
	"github.com/smallretail/fieldsync/internal/invoice/repository"
	"github.com/smallretail/fieldsync/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
