package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	catalogdomain "github.com/brandwell/revenuehub/internal/catalog/domain"
	catalogrepo "github.com/brandwell/revenuehub/internal/catalog/repository"
	"github.com/brandwell/revenuehub/internal/config"
	factdomain "github.com/brandwell/revenuehub/internal/fact/domain"
	factrepo "github.com/brandwell/revenuehub/internal/fact/repository"
	"github.com/brandwell/revenuehub/internal/importer/domain"
	logdomain "github.com/brandwell/revenuehub/internal/importlog/domain"
	logrepo "github.com/brandwell/revenuehub/internal/importlog/repository"
	"github.com/brandwell/revenuehub/internal/migration"
	"github.com/brandwell/revenuehub/internal/observability"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	svc, db, _ := newTestServiceWith(t, config.ImportConfig{BatchSize: 100, DryRunRows: 10})
	return svc, db
}

func newTestServiceWith(t *testing.T, imp config.ImportConfig) (*Service, *gorm.DB, *observability.Metrics) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Brand{},
		&catalogdomain.Channel{},
		&catalogdomain.Customer{},
		&catalogdomain.Item{},
		&catalogdomain.ChannelItem{},
		&factdomain.RevenueFact{},
		&logdomain.ImportError{},
	))
	require.NoError(t, migration.EnsureFactNaturalKeyIndexes(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	metrics := observability.New()
	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Config:  config.Config{Import: imp},
		Catalog: catalogrepo.Provide(),
		Facts:   factrepo.Provide(),
		Errors:  logrepo.Provide(),
		Metrics: metrics,
	})
	return svc, db, metrics
}

const genericCSV = `week,channel,brand,item_code,item_name,customer,sales,units,stores
2024-06-03,Sprouts,BrandWell,BW-1001,Elderberry Gummy,Sprouts West,199.99,17,120
2024-06-03,Sprouts,BrandWell,BW-1002,Kids Multi,Sprouts West,84.50,9,120
2024-06-10,Sprouts,BrandWell,BW-1001,Elderberry Gummy,Sprouts West,210.00,18,121
`

func TestImportCSVCreatesFactsAndDimensions(t *testing.T) {
	svc, db := newTestService(t)

	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(genericCSV), domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "generic", sum.Source)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 0, sum.Updated)
	assert.Equal(t, 0, sum.ErrorCount)
	// 3 facts + brand + channel + 2 items + customer
	assert.Equal(t, 8, sum.Created)

	var facts int64
	require.NoError(t, db.Model(&factdomain.RevenueFact{}).Count(&facts).Error)
	assert.Equal(t, int64(3), facts)

	var items int64
	require.NoError(t, db.Model(&catalogdomain.Item{}).Count(&items).Error)
	assert.Equal(t, int64(2), items)
}

func TestImportCSVIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportCSV(ctx, strings.NewReader(genericCSV), domain.Options{})
	require.NoError(t, err)

	sum, err := svc.ImportCSV(ctx, strings.NewReader(genericCSV), domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 0, sum.Created)
	assert.Equal(t, 3, sum.Updated)

	var facts int64
	require.NoError(t, db.Model(&factdomain.RevenueFact{}).Count(&facts).Error)
	assert.Equal(t, int64(3), facts)
}

func TestImportCSVRejectsUnknownFormat(t *testing.T) {
	svc, db := newTestService(t)

	csv := "colour,size,price\nred,large,10\n"
	_, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), domain.Options{})
	require.Error(t, err)
	var fe *domain.FormatError
	assert.ErrorAs(t, err, &fe)

	var errCount int64
	require.NoError(t, db.Model(&logdomain.ImportError{}).Count(&errCount).Error)
	assert.Equal(t, int64(0), errCount)
}

func TestImportCSVIsolatesRowFailures(t *testing.T) {
	svc, db := newTestService(t)

	csv := `week,channel,brand,item_code,sales,units
2024-06-03,Sprouts,BrandWell,BW-1001,100.00,5
not-a-date,Sprouts,BrandWell,BW-1002,50.00,2
2024-06-03,Sprouts,BrandWell,BW-1003,75.00,3
`
	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Processed)
	assert.Equal(t, 1, sum.ErrorCount)
	require.Len(t, sum.Errors, 1)
	assert.Contains(t, sum.Errors[0], "row 2")

	var facts int64
	require.NoError(t, db.Model(&factdomain.RevenueFact{}).Count(&facts).Error)
	assert.Equal(t, int64(2), facts)

	var recs []logdomain.ImportError
	require.NoError(t, db.Find(&recs).Error)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].RowNumber)
	assert.Equal(t, 2, *recs[0].RowNumber)
	assert.Contains(t, recs[0].RawPayload, "not-a-date")
	assert.Equal(t, "generic", recs[0].Source)
}

func TestImportCSVPreservesUnlinkedFacts(t *testing.T) {
	svc, db := newTestService(t)

	// Retailer feed with no matching item on file: the fact lands
	// unlinked, keyed on the channel-local code.
	csv := `fiscal_week,dpci,item_description,sales_dollars,sales_units
Dec Wk 5 2024,049-06-0122,KIDS MULTI 60CT,843.20,64
`
	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.Equal(t, 0, sum.ErrorCount)

	var fact factdomain.RevenueFact
	require.NoError(t, db.First(&fact).Error)
	assert.Nil(t, fact.ItemID)
	require.NotNil(t, fact.RawChannelCode)
	assert.Equal(t, "049-06-0122", *fact.RawChannelCode)
	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), fact.Date.UTC())
}

func TestImportCSVClaimsUnlinkedFactOnLaterLink(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	unlinked := `week,channel,channel_item_code,sales,units
2024-06-03,Sprouts,SP-777,120.00,6
`
	_, err := svc.ImportCSV(ctx, strings.NewReader(unlinked), domain.Options{})
	require.NoError(t, err)

	// Same period re-imported with full item identity: the unlinked
	// fact is claimed, not duplicated.
	linked := `week,channel,brand,item_code,channel_item_code,sales,units
2024-06-03,Sprouts,BrandWell,BW-7777,SP-777,120.00,6
`
	sum, err := svc.ImportCSV(ctx, strings.NewReader(linked), domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)

	var facts []factdomain.RevenueFact
	require.NoError(t, db.Find(&facts).Error)
	require.Len(t, facts, 1)
	require.NotNil(t, facts[0].ItemID)
	assert.Nil(t, facts[0].RawChannelCode)
}

func TestImportCSVDryRunWritesNothing(t *testing.T) {
	svc, db := newTestService(t)

	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(genericCSV), domain.Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, sum.DryRun)
	assert.Equal(t, 3, sum.Processed)

	var facts int64
	require.NoError(t, db.Model(&factdomain.RevenueFact{}).Count(&facts).Error)
	assert.Equal(t, int64(0), facts)

	var brands int64
	require.NoError(t, db.Model(&catalogdomain.Brand{}).Count(&brands).Error)
	assert.Equal(t, int64(0), brands)
}

func TestImportCSVDryRunCapsRows(t *testing.T) {
	svc, _ := newTestService(t)

	var b strings.Builder
	b.WriteString("week,channel,brand,item_code,sales,units\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "2024-06-03,Sprouts,BrandWell,BW-%04d,10.00,1\n", i)
	}

	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(b.String()), domain.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Processed)
}

func TestImportCSVSkipsZeroRevenueRows(t *testing.T) {
	svc, _ := newTestService(t)

	csv := `week,channel,brand,item_code,sales,units
2024-06-03,Sprouts,BrandWell,BW-1001,0,5
2024-06-03,Sprouts,BrandWell,BW-1002,10.00,1
`
	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Processed)
}

func TestImportCSVIsolatesDuplicateKeyFailures(t *testing.T) {
	svc, db := newTestService(t)

	// A brand on file already owns the code the incoming brand name
	// would take, so the insert trips the unique index at write time
	// rather than at parse time.
	code := "Acme"
	require.NoError(t, db.Create(&catalogdomain.Brand{ID: 99, Name: "Acme Health", Code: &code}).Error)

	csv := `week,channel,brand,item_code,sales,units
2024-06-03,Sprouts,BrandWell,BW-1001,100.00,5
2024-06-03,Sprouts,Acme,AC-2002,50.00,2
2024-06-10,Sprouts,BrandWell,BW-1001,75.00,3
`
	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Processed)
	assert.Equal(t, 1, sum.ErrorCount)
	require.Len(t, sum.Errors, 1)
	assert.Contains(t, sum.Errors[0], "row 2")

	var facts int64
	require.NoError(t, db.Model(&factdomain.RevenueFact{}).Count(&facts).Error)
	assert.Equal(t, int64(2), facts)

	var recs []logdomain.ImportError
	require.NoError(t, db.Find(&recs).Error)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].RowNumber)
	assert.Equal(t, 2, *recs[0].RowNumber)
	assert.Contains(t, recs[0].RawPayload, "Acme")

	var brands int64
	require.NoError(t, db.Model(&catalogdomain.Brand{}).Count(&brands).Error)
	assert.Equal(t, int64(2), brands)
}

func TestImportCSVDryRunStaysOutOfMetrics(t *testing.T) {
	svc, _, metrics := newTestServiceWith(t, config.ImportConfig{BatchSize: 100, DryRunRows: 10})
	ctx := context.Background()

	_, err := svc.ImportCSV(ctx, strings.NewReader(genericCSV), domain.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("generic")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RowsProcessed.WithLabelValues("generic")))

	_, err = svc.ImportCSV(ctx, strings.NewReader(genericCSV), domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("generic")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.RowsProcessed.WithLabelValues("generic")))
}

func TestImportCSVDryRunSpansBatchBoundary(t *testing.T) {
	svc, db, _ := newTestServiceWith(t, config.ImportConfig{BatchSize: 2, DryRunRows: 5})

	var b strings.Builder
	b.WriteString("week,channel,brand,item_code,sales,units\n")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "2024-06-03,Sprouts,BrandWell,BW-%04d,10.00,1\n", i)
	}

	sum, err := svc.ImportCSV(context.Background(), strings.NewReader(b.String()), domain.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Processed)
	assert.Equal(t, 0, sum.ErrorCount)

	var facts int64
	require.NoError(t, db.Model(&factdomain.RevenueFact{}).Count(&facts).Error)
	assert.Equal(t, int64(0), facts)
}
