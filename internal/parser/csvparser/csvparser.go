// Package csvparser adapts a CSV/TSV file into a rowsource.RowSource,
// streaming records with encoding/csv rather than loading the file whole.
package csvparser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"mcs-mcp/pkg/rowsource"
)

// Config sets the delimiter and whether the file has a header row.
type Config struct {
	// Delimiter defaults to ',' when zero. Pass '\t' for TSV.
	Delimiter rune
	// NoHeader marks the file as headerless. The zero value (false) means
	// the first row is a header, which is the common case.
	NoHeader bool
}

// Source streams rows from a CSV file path.
type Source struct {
	path      string
	delimiter rune
	hasHeader bool
	header    []string
}

// New opens path just long enough to read its header row (when present),
// then closes it; CreateStream reopens the file for each pass.
func New(path string, cfg Config) (*Source, error) {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}
	s := &Source{path: path, delimiter: cfg.Delimiter, hasHeader: !cfg.NoHeader}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvparser: %w", err)
	}
	defer f.Close()

	if s.hasHeader {
		r := csv.NewReader(f)
		r.Comma = s.delimiter
		r.FieldsPerRecord = -1
		header, err := r.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csvparser: reading header: %w", err)
		}
		s.header = header
	}
	return s, nil
}

func (s *Source) HasHeader() bool  { return s.hasHeader }
func (s *Source) Header() []string { return s.header }

// CreateStream reopens the underlying file and streams every row (minus
// the header, when present) as rowsource.ParsedRow values.
func (s *Source) CreateStream(ctx context.Context) (<-chan rowsource.ParsedRow, <-chan error) {
	out := make(chan rowsource.ParsedRow)
	errs := make(chan error, 1)

	go func() {
		defer close(out)

		f, err := os.Open(s.path)
		if err != nil {
			errs <- fmt.Errorf("csvparser: %w", err)
			return
		}
		defer f.Close()

		r := csv.NewReader(f)
		r.Comma = s.delimiter
		r.FieldsPerRecord = -1
		r.ReuseRecord = false

		if s.hasHeader {
			if _, err := r.Read(); err != nil && !errors.Is(err, io.EOF) {
				errs <- fmt.Errorf("csvparser: %w", err)
				return
			}
		}

		var idx uint64
		for {
			record, err := r.Read()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errs <- fmt.Errorf("csvparser: row %d: %w", idx, err)
				}
				return
			}

			cells := make([]rowsource.Cell, len(record))
			for i, v := range record {
				cells[i] = rowsource.TextCell(v)
			}
			row := rowsource.ParsedRow{Index: idx, Data: cells, Raw: ""}
			idx++

			select {
			case out <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}
