package service

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/format"
)

// ImportCSV classifies the file by its header row and runs the full
// pipeline over it. An unrecognized header set rejects the file before
// any row is read.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, opts domain.Options) (*domain.Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err != nil {
		return nil, &domain.FormatError{Reason: "file has no readable header row"}
	}

	processor, err := format.Detect(headers)
	if err != nil {
		return nil, err
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = format.NormalizeHeader(h)
	}

	feed := &csvFeed{reader: cr, headers: normalized, processor: processor}
	return s.Run(ctx, processor.Source(), feed, opts)
}

type csvFeed struct {
	reader    *csv.Reader
	headers   []string
	processor domain.RowProcessor
}

func (f *csvFeed) Next() (Input, error) {
	record, err := f.reader.Read()
	if err == io.EOF {
		return Input{}, io.EOF
	}
	raw := strings.Join(record, ",")
	if err != nil {
		// Malformed CSV lines are row errors, not run errors.
		return Input{Raw: raw, Err: &domain.RowValidationError{Field: "row", Cause: err}}, nil
	}

	fields := make(map[string]string, len(f.headers))
	for i, h := range f.headers {
		if i < len(record) {
			fields[h] = record[i]
		}
	}

	row, perr := f.processor.Process(fields)
	return Input{Row: row, Raw: raw, Err: perr}, nil
}
