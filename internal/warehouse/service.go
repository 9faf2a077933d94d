package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brandwell/revenuehub/internal/config"
	factdomain "github.com/brandwell/revenuehub/internal/fact/domain"
	importdomain "github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/normalize"
	importsvc "github.com/brandwell/revenuehub/internal/importer/service"
	"github.com/brandwell/revenuehub/pkg/retry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const source = "warehouse"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	Facts    factdomain.Repository
	Importer *importsvc.Service
	Querier  Querier
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	facts    factdomain.Repository
	importer *importsvc.Service
	querier  Querier
	policy   retry.Policy
}

func New(p Params) *Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("warehouse.service"),
		facts:    p.Facts,
		importer: p.Importer,
		querier:  p.Querier,
		policy: retry.Policy{
			MaxAttempts: p.Config.Import.RetryAttempts,
			BaseDelay:   p.Config.Import.RetryBaseDelay,
			Retryable:   IsTransient,
		},
	}
}

// Import pulls rows from the warehouse and runs them through the
// standard pipeline. The pull is incremental when facts already exist:
// only rows after the latest fact date are requested. full forces a
// whole-history pull regardless.
func (s *Service) Import(ctx context.Context, opts importdomain.Options, full bool) (*importdomain.Summary, error) {
	var since *time.Time
	if !full {
		var err error
		since, err = s.facts.LatestDate(ctx, s.db)
		if err != nil {
			return nil, err
		}
	}
	if since != nil {
		s.log.Info("incremental warehouse pull", zap.Time("since", *since))
	} else {
		s.log.Info("full-history warehouse pull")
	}

	var records []Record
	fetchErr := s.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.querier.Fetch(ctx, since)
		return err
	})
	if fetchErr != nil {
		return nil, &importdomain.TransportError{Cause: fetchErr}
	}

	inputs := make([]importsvc.Input, 0, len(records))
	for _, rec := range records {
		row, err := normalizeRecord(rec)
		inputs = append(inputs, importsvc.Input{
			Row: row,
			Raw: rawPayload(rec),
			Err: err,
		})
	}

	return s.importer.Run(ctx, source, importsvc.NewSliceFeed(inputs), opts)
}

// normalizeRecord maps one warehouse record onto the pipeline's row
// shape. The select list is fixed, so no header detection applies.
func normalizeRecord(rec Record) (*importdomain.Row, error) {
	date, err := normalize.WarehouseDate(rec.Date)
	if err != nil {
		return nil, &importdomain.RowValidationError{Field: "date", Cause: err}
	}
	revenue, err := normalize.Currency(rec.Revenue)
	if err != nil {
		return nil, &importdomain.RowValidationError{Field: "revenue", Cause: err}
	}
	units, err := normalize.Integer(rec.Units)
	if err != nil {
		return nil, &importdomain.RowValidationError{Field: "units", Cause: err}
	}

	row := &importdomain.Row{
		Date:        date,
		ChannelName: strings.TrimSpace(rec.Channel),
		Revenue:     revenue,
		Units:       units,
	}
	if v := strings.TrimSpace(rec.Brand); v != "" {
		row.BrandName = &v
	}
	if v := strings.TrimSpace(rec.ItemCode); v != "" {
		row.ItemCode = &v
	}
	if v := strings.TrimSpace(rec.Customer); v != "" {
		row.CustomerName = &v
	}
	return row, nil
}

func rawPayload(rec Record) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s",
		rec.Revenue, rec.Units, rec.Brand, rec.Date, rec.ItemCode, rec.Channel, rec.Customer)
}

// IsTransient reports whether a fetch failure is worth retrying:
// rate limiting, server-side errors, gateway timeouts, or the
// warehouse's own busy signal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"too many requests",
		"429",
		"internal server error",
		"500",
		"bad gateway",
		"502",
		"service unavailable",
		"503",
		"gateway timeout",
		"504",
		"system busy",
		"connection reset",
		"i/o timeout",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var Module = fx.Module("warehouse",
	fx.Provide(NewQuerier),
	fx.Provide(New),
)
