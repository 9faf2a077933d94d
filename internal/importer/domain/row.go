package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one normalized sales observation, the common shape every
// source schema is reduced to before entity resolution and upsert.
// Pointer fields are absent when the source does not carry them.
type Row struct {
	Date        time.Time
	ChannelName string

	BrandName *string
	BrandCode *string

	ItemCode        *string
	ItemName        *string
	ChannelItemCode *string
	ChannelItemName *string

	CustomerName *string

	Revenue             decimal.Decimal
	Units               int64
	Stores              int64
	DollarsPerStoreWeek *decimal.Decimal
	UnitsPerStoreWeek   *decimal.Decimal
	OutOfStockPercent   *decimal.Decimal
}

// RowProcessor turns one raw CSV record into a normalized Row. Each
// supported schema ships its own processor; the detector picks one per
// file based on the header set.
type RowProcessor interface {
	// Source names the schema, used for error records and summaries.
	Source() string
	// Process maps a header-indexed record into a Row. A nil Row with a
	// nil error means the record is deliberately skipped.
	Process(record map[string]string) (*Row, error)
}
