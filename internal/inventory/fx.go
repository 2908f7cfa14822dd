package inventory

import (
	"github.com/smallretail/fieldsync/internal/inventory/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.ledger",
	fx.Provide(repository.Provide),
)
