package format

import (
	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/normalize"
)

// krogerProcessor handles the scan-data export keyed on a
// "Fiscal Week Ending MM-DD-YYYY" label, with items identified by UPC.
type krogerProcessor struct{}

func (p *krogerProcessor) Source() string { return "kroger" }

func (p *krogerProcessor) Process(record map[string]string) (*domain.Row, error) {
	date, err := normalize.FiscalWeekEnding(record["fiscal_week_ending"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "fiscal_week_ending", Cause: err}
	}
	revenue, err := normalize.Currency(record["scanned_dollars"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "scanned_dollars", Cause: err}
	}
	units, err := normalize.Integer(record["scanned_units"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "scanned_units", Cause: err}
	}

	row := &domain.Row{
		Date:            date,
		ChannelName:     "Kroger",
		ChannelItemCode: optional(record["upc"]),
		ChannelItemName: optional(record["item_description"]),
		ItemName:        optional(record["item_description"]),
		Revenue:         revenue,
		Units:           units,
	}
	return row, nil
}
