package importer

import (
	"github.com/brandwell/revenuehub/internal/importer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("importer",
	fx.Provide(service.New),
)
