package resolver

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	catalog "github.com/brandwell/revenuehub/internal/catalog/domain"
	catalogrepo "github.com/brandwell/revenuehub/internal/catalog/repository"
	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Brand{},
		&catalog.Channel{},
		&catalog.Customer{},
		&catalog.Item{},
		&catalog.ChannelItem{},
	))
	return db
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(catalogrepo.Provide(), node)
}

func str(s string) *string { return &s }

func baseRow() *domain.Row {
	return &domain.Row{
		Date:        time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		ChannelName: "Sprouts",
		Revenue:     decimal.RequireFromString("100.00"),
		Units:       10,
	}
}

func TestResolveCreatesMissingDimensions(t *testing.T) {
	db := newTestDB(t)
	r := newResolver(t)
	ctx := context.Background()

	row := baseRow()
	row.BrandName = str("BrandWell")
	row.ItemCode = str("BW-1001")
	row.ItemName = str("Elderberry Gummy")
	row.CustomerName = str("Sprouts West")

	resolved, err := r.Resolve(ctx, db, row)
	require.NoError(t, err)
	require.NotNil(t, resolved.ItemID)
	require.NotNil(t, resolved.BrandID)
	require.NotNil(t, resolved.CustomerID)
	assert.Nil(t, resolved.RawChannelCode)
	// brand + channel + item + customer
	assert.Equal(t, 4, r.Created())

	var count int64
	require.NoError(t, db.Model(&catalog.Item{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveReusesCacheWithinRun(t *testing.T) {
	db := newTestDB(t)
	r := newResolver(t)
	ctx := context.Background()

	row := baseRow()
	row.BrandName = str("BrandWell")
	row.ItemCode = str("BW-1001")
	_, err := r.Resolve(ctx, db, row)
	require.NoError(t, err)
	createdFirst := r.Created()

	again := baseRow()
	again.BrandName = str("BrandWell")
	again.ItemCode = str("BW-1001")
	resolved, err := r.Resolve(ctx, db, again)
	require.NoError(t, err)
	require.NotNil(t, resolved.ItemID)
	assert.Equal(t, createdFirst, r.Created())
}

func TestResolveItemViaChannelAlias(t *testing.T) {
	db := newTestDB(t)
	r := newResolver(t)
	ctx := context.Background()

	seeded := baseRow()
	seeded.BrandName = str("BrandWell")
	seeded.ItemCode = str("BW-1001")
	seeded.ChannelItemCode = str("553211470")
	first, err := r.Resolve(ctx, db, seeded)
	require.NoError(t, err)
	require.NotNil(t, first.ItemID)

	// A fresh resolver simulates a later run that only knows the
	// channel-local code.
	r2 := newResolver(t)
	row := baseRow()
	row.ChannelItemCode = str("553211470")
	resolved, err := r2.Resolve(ctx, db, row)
	require.NoError(t, err)
	require.NotNil(t, resolved.ItemID)
	assert.Equal(t, *first.ItemID, *resolved.ItemID)
	require.NotNil(t, resolved.BrandID)
}

func TestResolveUnlinkedKeepsRawCode(t *testing.T) {
	db := newTestDB(t)
	r := newResolver(t)
	ctx := context.Background()

	row := baseRow()
	row.ChannelName = "Walmart"
	row.ChannelItemCode = str("999000111")
	row.ChannelItemName = str("UNKNOWN SKU")

	resolved, err := r.Resolve(ctx, db, row)
	require.NoError(t, err)
	assert.Nil(t, resolved.ItemID)
	require.NotNil(t, resolved.RawChannelCode)
	assert.Equal(t, "999000111", *resolved.RawChannelCode)
}

func TestResolveBackfillsBrandCode(t *testing.T) {
	db := newTestDB(t)
	r := newResolver(t)
	ctx := context.Background()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	require.NoError(t, db.Create(&catalog.Brand{ID: node.Generate(), Name: "BrandWell"}).Error)

	row := baseRow()
	row.BrandName = str("BrandWell")
	row.BrandCode = str("BW")
	row.ItemCode = str("BW-1001")
	_, err = r.Resolve(ctx, db, row)
	require.NoError(t, err)

	var b catalog.Brand
	require.NoError(t, db.Where("name = ?", "BrandWell").First(&b).Error)
	require.NotNil(t, b.Code)
	assert.Equal(t, "BW", *b.Code)
}

func TestResolveNoItemIdentifierFails(t *testing.T) {
	db := newTestDB(t)
	r := newResolver(t)

	row := baseRow()
	_, err := r.Resolve(context.Background(), db, row)
	require.Error(t, err)
	var re *domain.ResolutionError
	assert.ErrorAs(t, err, &re)
}

func TestResolveEmptyChannelFails(t *testing.T) {
	db := newTestDB(t)
	r := newResolver(t)

	row := baseRow()
	row.ChannelName = "  "
	row.ItemCode = str("BW-1001")
	_, err := r.Resolve(context.Background(), db, row)
	require.Error(t, err)
	var re *domain.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "channel", re.Entity)
}
