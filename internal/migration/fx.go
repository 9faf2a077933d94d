package migration

import (
	"strings"

	catalogdomain "github.com/brandwell/revenuehub/internal/catalog/domain"
	"github.com/brandwell/revenuehub/internal/config"
	factdomain "github.com/brandwell/revenuehub/internal/fact/domain"
	logdomain "github.com/brandwell/revenuehub/internal/importlog/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations target postgres. Other dialects
		// (sqlite for local work, mysql) take the model-derived schema.
		if !strings.EqualFold(cfg.DBType, "postgres") {
			if err := conn.AutoMigrate(
				&catalogdomain.Brand{},
				&catalogdomain.Channel{},
				&catalogdomain.Customer{},
				&catalogdomain.Item{},
				&catalogdomain.ChannelItem{},
				&factdomain.RevenueFact{},
				&logdomain.ImportError{},
			); err != nil {
				return err
			}
			return EnsureFactNaturalKeyIndexes(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
