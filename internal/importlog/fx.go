package importlog

import (
	"github.com/brandwell/revenuehub/internal/importlog/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("importlog",
	fx.Provide(repository.Provide),
)
