package idempotency

import (
	"github.com/smallretail/fieldsync/internal/idempotency/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("idempotency.ledger",
	fx.Provide(repository.Provide),
)
