package format

import (
	"strings"

	"github.com/brandwell/revenuehub/internal/importer/domain"
)

// schema pairs a required header set with the processor that handles
// files matching it. Detection walks the registry in order and picks
// the first schema whose required headers are all present.
type schema struct {
	name     string
	required []string
	build    func() domain.RowProcessor
}

var registry = []schema{
	{
		name: "walmart",
		required: []string{
			"walmart_calendar_week",
			"walmart_item_number",
			"item_name",
			"pos_sales_this_year",
			"pos_quantity_this_year",
			"dollar_per_store_per_week_or_per_day_this_year",
			"units_per_store_per_week_or_per_day_this_year",
			"traited_store_count_this_year",
			"repl_instock_percentage_this_year",
		},
		build: func() domain.RowProcessor { return &walmartProcessor{} },
	},
	{
		name: "target",
		required: []string{
			"fiscal_week",
			"dpci",
			"item_description",
			"sales_dollars",
			"sales_units",
		},
		build: func() domain.RowProcessor { return &targetProcessor{} },
	},
	{
		name: "kroger",
		required: []string{
			"fiscal_week_ending",
			"upc",
			"item_description",
			"scanned_dollars",
			"scanned_units",
		},
		build: func() domain.RowProcessor { return &krogerProcessor{} },
	},
	{
		name: "generic",
		required: []string{
			"week",
			"channel",
			"sales",
			"units",
		},
		build: func() domain.RowProcessor { return &genericProcessor{} },
	},
}

// NormalizeHeader canonicalizes one raw header cell: BOM stripped,
// trimmed, lowercased, spaces collapsed to underscores.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

// Detect classifies a header row against the schema registry. The
// returned processor is ready for the rest of the file; an
// unrecognized header set is a whole-file error.
func Detect(headers []string) (domain.RowProcessor, error) {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[NormalizeHeader(h)] = struct{}{}
	}

	for _, s := range registry {
		if containsAll(present, s.required) {
			return s.build(), nil
		}
	}
	return nil, &domain.FormatError{Reason: "header set matches no supported schema"}
}

func containsAll(present map[string]struct{}, required []string) bool {
	for _, col := range required {
		if _, ok := present[col]; !ok {
			return false
		}
	}
	return true
}
