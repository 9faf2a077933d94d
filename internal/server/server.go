package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandwell/revenuehub/internal/config"
	factservice "github.com/brandwell/revenuehub/internal/fact/service"
	importservice "github.com/brandwell/revenuehub/internal/importer/service"
	logdomain "github.com/brandwell/revenuehub/internal/importlog/domain"
	"github.com/brandwell/revenuehub/internal/observability"
	"github.com/brandwell/revenuehub/internal/warehouse"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *observability.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	healthz := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/health", healthz)
	r.GET("/healthz", healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	importSvc    *importservice.Service
	warehouseSvc *warehouse.Service
	factSvc      *factservice.Service
	errorRepo    logdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	ImportSvc    *importservice.Service
	WarehouseSvc *warehouse.Service
	FactSvc      *factservice.Service
	ErrorRepo    logdomain.Repository
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		importSvc:    p.ImportSvc,
		warehouseSvc: p.WarehouseSvc,
		factSvc:      p.FactSvc,
		errorRepo:    p.ErrorRepo,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")

	imports := api.Group("/imports")
	imports.POST("/upload", s.uploadImport)
	imports.POST("/warehouse", s.warehouseImport)
	imports.POST("/warehouse/cron", s.warehouseCronImport)

	api.GET("/import-errors", s.listImportErrors)
	api.GET("/import-errors/:id", s.getImportError)

	facts := api.Group("/facts")
	facts.GET("/unlinked", s.listUnlinkedFacts)
	facts.POST("/unlinked/link", s.linkUnlinkedFacts)
}
