// Package xlsxparser adapts a single worksheet of an Excel workbook into a
// rowsource.RowSource, streaming rows via excelize's row iterator instead
// of loading the whole sheet into memory.
package xlsxparser

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"mcs-mcp/pkg/rowsource"
)

// Config selects which sheet to read.
type Config struct {
	// Sheet names the worksheet to stream. Empty selects the workbook's
	// first sheet in sheet-list order.
	Sheet string
	// NoHeader marks the sheet as headerless.
	NoHeader bool
}

// Source streams rows from one worksheet of an xlsx/xlsm file.
type Source struct {
	path      string
	sheet     string
	hasHeader bool
	header    []string
}

// New opens path, resolves the target sheet, and reads its header row (when
// present). CreateStream reopens the workbook for each pass.
func New(path string, cfg Config) (*Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsxparser: %w", err)
	}
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}

	s := &Source{path: path, sheet: sheet, hasHeader: !cfg.NoHeader}

	if s.hasHeader {
		rows, err := f.Rows(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsxparser: %w", err)
		}
		if rows.Next() {
			header, err := rows.Columns()
			if err != nil {
				return nil, fmt.Errorf("xlsxparser: reading header: %w", err)
			}
			s.header = header
		}
		rows.Close()
	}
	return s, nil
}

func (s *Source) HasHeader() bool  { return s.hasHeader }
func (s *Source) Header() []string { return s.header }

// CreateStream reopens the workbook and streams every row of the target
// sheet (minus the header, when present) as rowsource.ParsedRow values.
func (s *Source) CreateStream(ctx context.Context) (<-chan rowsource.ParsedRow, <-chan error) {
	out := make(chan rowsource.ParsedRow)
	errs := make(chan error, 1)

	go func() {
		defer close(out)

		f, err := excelize.OpenFile(s.path)
		if err != nil {
			errs <- fmt.Errorf("xlsxparser: %w", err)
			return
		}
		defer f.Close()

		rows, err := f.Rows(s.sheet)
		if err != nil {
			errs <- fmt.Errorf("xlsxparser: %w", err)
			return
		}
		defer rows.Close()

		var idx uint64
		skippedHeader := !s.hasHeader
		for rows.Next() {
			cols, err := rows.Columns()
			if err != nil {
				errs <- fmt.Errorf("xlsxparser: row %d: %w", idx, err)
				return
			}
			if !skippedHeader {
				skippedHeader = true
				continue
			}

			cells := make([]rowsource.Cell, len(cols))
			for i, v := range cols {
				cells[i] = rowsource.TextCell(v)
			}
			row := rowsource.ParsedRow{Index: idx, Data: cells}
			idx++

			select {
			case out <- row:
			case <-ctx.Done():
				return
			}
		}
		if err := rows.Error(); err != nil {
			errs <- fmt.Errorf("xlsxparser: %w", err)
		}
	}()

	return out, errs
}
