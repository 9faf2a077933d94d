package scheduler

import (
	"context"
	"time"

	"github.com/brandwell/revenuehub/internal/config"
	importdomain "github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/warehouse"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	LC        fx.Lifecycle
	Log       *zap.Logger
	Config    config.Config
	Warehouse *warehouse.Service
}

// Register starts the periodic incremental warehouse import when the
// scheduler is enabled. Runs are serialized by construction: one
// goroutine, one run at a time.
func Register(p Params) {
	if !p.Config.Scheduler.Enabled {
		return
	}
	log := p.Log.Named("scheduler")
	interval := p.Config.Scheduler.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				log.Info("warehouse import scheduled", zap.Duration("interval", interval))
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						sum, err := p.Warehouse.Import(ctx, importdomain.Options{}, false)
						if err != nil {
							log.Error("scheduled warehouse import failed", zap.Error(err))
							continue
						}
						log.Info("scheduled warehouse import finished",
							zap.Int("processed", sum.Processed),
							zap.Int("created", sum.Created),
							zap.Int("updated", sum.Updated),
							zap.Int("errors", sum.ErrorCount))
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

var Module = fx.Module("scheduler",
	fx.Invoke(Register),
)
