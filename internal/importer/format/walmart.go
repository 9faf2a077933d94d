package format

import (
	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/normalize"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// walmartProcessor handles the point-of-sale export keyed on a
// six-digit ISO week code. Out-of-stock is derived from the reported
// in-stock percentage.
type walmartProcessor struct{}

func (p *walmartProcessor) Source() string { return "walmart" }

func (p *walmartProcessor) Process(record map[string]string) (*domain.Row, error) {
	date, err := normalize.ISOWeekCode(record["walmart_calendar_week"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "walmart_calendar_week", Cause: err}
	}
	revenue, err := normalize.Currency(record["pos_sales_this_year"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "pos_sales_this_year", Cause: err}
	}
	units, err := normalize.Integer(record["pos_quantity_this_year"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "pos_quantity_this_year", Cause: err}
	}
	stores, err := normalize.Integer(record["traited_store_count_this_year"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "traited_store_count_this_year", Cause: err}
	}
	dpsw, err := normalize.Currency(record["dollar_per_store_per_week_or_per_day_this_year"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "dollar_per_store_per_week_or_per_day_this_year", Cause: err}
	}
	upsw, err := normalize.Decimal(record["units_per_store_per_week_or_per_day_this_year"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "units_per_store_per_week_or_per_day_this_year", Cause: err}
	}
	instock, err := normalize.Percent(record["repl_instock_percentage_this_year"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "repl_instock_percentage_this_year", Cause: err}
	}
	oos := hundred.Sub(instock)

	row := &domain.Row{
		Date:                date,
		ChannelName:         "Walmart",
		ChannelItemCode:     optional(record["walmart_item_number"]),
		ChannelItemName:     optional(record["item_name"]),
		ItemName:            optional(record["item_name"]),
		Revenue:             revenue,
		Units:               units,
		Stores:              stores,
		DollarsPerStoreWeek: &dpsw,
		UnitsPerStoreWeek:   &upsw,
		OutOfStockPercent:   &oos,
	}
	return row, nil
}
