package visit

import (
	"github.com/smallretail/fieldsync/internal/visit/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("visit.store",
	fx.Provide(repository.Provide),
)
