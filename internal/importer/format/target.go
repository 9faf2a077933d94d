package format

import (
	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/normalize"
)

// targetProcessor handles the export keyed on a "Mon Wk N YYYY" fiscal
// week label, with items identified by DPCI code.
type targetProcessor struct{}

func (p *targetProcessor) Source() string { return "target" }

func (p *targetProcessor) Process(record map[string]string) (*domain.Row, error) {
	date, err := normalize.MonthWeek(record["fiscal_week"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "fiscal_week", Cause: err}
	}
	revenue, err := normalize.Currency(record["sales_dollars"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "sales_dollars", Cause: err}
	}
	units, err := normalize.Integer(record["sales_units"])
	if err != nil {
		return nil, &domain.RowValidationError{Field: "sales_units", Cause: err}
	}

	row := &domain.Row{
		Date:            date,
		ChannelName:     "Target",
		ChannelItemCode: optional(record["dpci"]),
		ChannelItemName: optional(record["item_description"]),
		ItemName:        optional(record["item_description"]),
		Revenue:         revenue,
		Units:           units,
	}
	return row, nil
}
