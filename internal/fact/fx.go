package fact

import (
	"github.com/brandwell/revenuehub/internal/fact/repository"
	"github.com/brandwell/revenuehub/internal/fact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fact",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
