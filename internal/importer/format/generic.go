package format

import (
	"strings"

	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/normalize"
)

// genericProcessor handles the in-house sell-through sheet: ISO dates
// (or spreadsheet serials), explicit channel and optional brand,
// customer and item identifier columns. Zero-revenue rows are skipped
// rather than persisted.
type genericProcessor struct{}

func (p *genericProcessor) Source() string { return "generic" }

func (p *genericProcessor) Process(record map[string]string) (*domain.Row, error) {
	channel := strings.TrimSpace(record["channel"])
	if channel == "" {
		return nil, &domain.RowValidationError{Field: "channel", Cause: errEmpty}
	}
	date, err := normalize.ISODate(record["week"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "week", Cause: err}
	}
	revenue, err := normalize.Currency(record["sales"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "sales", Cause: err}
	}
	if revenue.IsZero() {
		return nil, nil
	}
	units, err := normalize.Integer(record["units"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "units", Cause: err}
	}
	stores, err := normalize.Integer(record["stores"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "stores", Cause: err}
	}

	row := &domain.Row{
		Date:            date,
		ChannelName:     channel,
		BrandName:       optional(record["brand"]),
		BrandCode:       optional(record["brand_code"]),
		ItemCode:        optional(record["item_code"]),
		ItemName:        optional(record["item_name"]),
		ChannelItemCode: optional(record["channel_item_code"]),
		ChannelItemName: optional(record["channel_item_name"]),
		CustomerName:    optional(record["customer"]),
		Revenue:         revenue,
		Units:           units,
		Stores:          stores,
	}
	if raw := strings.TrimSpace(record["oos"]); raw != "" {
		oos, err := normalize.Percent(raw)
		if err != nil {
			return nil, &domain.RowValidationError{Field: "oos", Cause: err}
		}
		row.OutOfStockPercent = &oos
	}
	return row, nil
}
