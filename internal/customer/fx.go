package customer

import (
	"github.com/smallretail/fieldsync/internal/customer/repository"
	"github.com/smallretail/fieldsync/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
