package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	catalogdomain "github.com/brandwell/revenuehub/internal/catalog/domain"
	"github.com/brandwell/revenuehub/internal/config"
	factdomain "github.com/brandwell/revenuehub/internal/fact/domain"
	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/resolver"
	logdomain "github.com/brandwell/revenuehub/internal/importlog/domain"
	"github.com/brandwell/revenuehub/internal/observability"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errDryRunRollback forces the batch transaction to roll back at the
// end of a dry run. It never escapes the pipeline.
var errDryRunRollback = errors.New("dry_run_rollback")

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Config  config.Config
	Catalog catalogdomain.Repository
	Facts   factdomain.Repository
	Errors  logdomain.Repository
	Metrics *observability.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	cfg     config.ImportConfig
	catalog catalogdomain.Repository
	facts   factdomain.Repository
	errLog  logdomain.Repository
	metrics *observability.Metrics
}

func New(p Params) *Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("importer.service"),
		genID:   p.GenID,
		cfg:     p.Config.Import,
		catalog: p.Catalog,
		facts:   p.Facts,
		errLog:  p.Errors,
		metrics: p.Metrics,
	}
}

// Input is one unit of pipeline input: either a normalized row, a
// deliberate skip (nil Row, nil Err), or a per-row failure.
type Input struct {
	Row *domain.Row
	Raw string
	Err error
}

// Feed yields pipeline input until io.EOF.
type Feed interface {
	Next() (Input, error)
}

// SliceFeed adapts an already materialized input set to a Feed.
type SliceFeed struct {
	inputs []Input
	pos    int
}

func NewSliceFeed(inputs []Input) *SliceFeed {
	return &SliceFeed{inputs: inputs}
}

func (f *SliceFeed) Next() (Input, error) {
	if f.pos >= len(f.inputs) {
		return Input{}, io.EOF
	}
	in := f.inputs[f.pos]
	f.pos++
	return in, nil
}

// Run drives rows through resolve and upsert in fixed-size batches.
// Row-level failures are recorded durably and skipped; a failure of the
// batch commit itself aborts the run. In dry-run mode a capped prefix
// of rows is processed and every write is rolled back.
func (s *Service) Run(ctx context.Context, source string, feed Feed, opts domain.Options) (*domain.Summary, error) {
	sum := &domain.Summary{Source: source, DryRun: opts.DryRun, Errors: []string{}}
	res := resolver.New(s.catalog, s.genID)
	runDate := time.Now().UTC()

	limit := -1
	batchSize := s.cfg.BatchSize
	if opts.DryRun {
		limit = s.cfg.DryRunRows
		// The whole preview rides a single transaction; the resolver
		// cache cannot outlive a rolled-back batch.
		if limit > batchSize {
			batchSize = limit
		}
	}

	ordinal := 0
	done := false
	for !done {
		batchErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for n := 0; n < batchSize && !done; n++ {
				if limit >= 0 && ordinal >= limit {
					done = true
					break
				}
				in, err := feed.Next()
				if errors.Is(err, io.EOF) {
					done = true
					break
				}
				if err != nil {
					// The feed itself broke mid-file; nothing sensible
					// can follow.
					return err
				}
				ordinal++

				if in.Err != nil {
					s.recordRowError(ctx, tx, sum, source, runDate, in.Raw, ordinal, in.Err)
					continue
				}
				if in.Row == nil {
					sum.Skipped++
					continue
				}

				createdBefore := res.Created()
				var factCreated, factUpdated bool
				rowErr := tx.Transaction(func(rowTx *gorm.DB) error {
					resolved, err := res.Resolve(ctx, rowTx, in.Row)
					if err != nil {
						return err
					}
					created, err := s.upsertFact(ctx, rowTx, resolved, in.Row)
					if err != nil {
						return err
					}
					factCreated = created
					factUpdated = !created
					return nil
				})
				if rowErr != nil {
					// The savepoint rollback may have discarded entities
					// the resolver already cached.
					res.Forget(createdBefore)
					s.recordRowError(ctx, tx, sum, source, runDate, in.Raw, ordinal, rowErr)
					continue
				}

				sum.Processed++
				if factCreated {
					sum.Created++
				}
				if factUpdated {
					sum.Updated++
				}
			}
			if opts.DryRun {
				return errDryRunRollback
			}
			return nil
		})
		if batchErr != nil && !errors.Is(batchErr, errDryRunRollback) {
			s.log.Error("batch commit failed",
				zap.String("source", source),
				zap.Int("ordinal", ordinal),
				zap.Error(batchErr))
			return nil, fmt.Errorf("commit batch ending at row %d: %w", ordinal, batchErr)
		}
	}

	sum.Created += res.Created()

	// Previews stay out of the counters.
	if !opts.DryRun {
		s.metrics.ObserveRun(source, sum.Processed, sum.Created, sum.Updated, sum.Skipped, sum.ErrorCount)
	}
	s.log.Info("import run finished",
		zap.String("source", source),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("processed", sum.Processed),
		zap.Int("created", sum.Created),
		zap.Int("updated", sum.Updated),
		zap.Int("skipped", sum.Skipped),
		zap.Int("errors", sum.ErrorCount))
	return sum, nil
}

// recordRowError tallies the failure and writes the durable record.
// The record rides the surrounding batch transaction, after the failed
// row's own scope has already been rolled back.
func (s *Service) recordRowError(ctx context.Context, tx *gorm.DB, sum *domain.Summary, source string, runDate time.Time, raw string, ordinal int, cause error) {
	sum.AddError(fmt.Sprintf("row %d: %v", ordinal, cause))

	rowNum := ordinal
	rec := &logdomain.ImportError{
		ID:         s.genID.Generate(),
		Source:     source,
		ImportDate: runDate,
		RawPayload: raw,
		Message:    cause.Error(),
		RowNumber:  &rowNum,
	}
	if err := s.errLog.Insert(ctx, tx, rec); err != nil {
		s.log.Warn("failed to persist import error record",
			zap.Int("ordinal", ordinal),
			zap.Error(err))
	}
}
