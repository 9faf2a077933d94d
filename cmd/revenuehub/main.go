package main

import (
	"github.com/brandwell/revenuehub/internal/catalog"
	"github.com/brandwell/revenuehub/internal/config"
	"github.com/brandwell/revenuehub/internal/fact"
	"github.com/brandwell/revenuehub/internal/importer"
	"github.com/brandwell/revenuehub/internal/importlog"
	"github.com/brandwell/revenuehub/internal/migration"
	"github.com/brandwell/revenuehub/internal/observability"
	"github.com/brandwell/revenuehub/internal/scheduler"
	"github.com/brandwell/revenuehub/internal/server"
	"github.com/brandwell/revenuehub/internal/warehouse"
	"github.com/brandwell/revenuehub/pkg/db"
	"github.com/brandwell/revenuehub/pkg/log"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		observability.Module,
		migration.Module,

		// Functional domains
		catalog.Module,
		fact.Module,
		importlog.Module,
		importer.Module,
		warehouse.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
