// Package parquetparser adapts a flat Parquet file into a
// rowsource.RowSource, reading rows in batches as generic maps rather than
// materializing the whole file.
package parquetparser

import (
	"context"
	"fmt"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"mcs-mcp/pkg/rowsource"
)

const readBatchSize = 1000

// Source streams rows from a Parquet file path.
type Source struct {
	path   string
	header []string
}

// New opens path just long enough to resolve the column order from the
// file's schema, then closes it; CreateStream reopens the file for each
// pass.
func New(path string) (*Source, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("parquetparser: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("parquetparser: %w", err)
	}
	defer pr.ReadStop()

	return &Source{path: path, header: columnNames(pr)}, nil
}

// columnNames derives the flat header order from the schema handler's
// value-column paths, stripping the synthetic root segment parquet-go
// prefixes every path with.
func columnNames(pr *reader.ParquetReader) []string {
	cols := pr.SchemaHandler.ValueColumns
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		parts := strings.Split(c, ".")
		names = append(names, parts[len(parts)-1])
	}
	return names
}

func (s *Source) HasHeader() bool  { return true }
func (s *Source) Header() []string { return s.header }

// CreateStream reopens the file and streams every row as a
// rowsource.ParsedRow, in the column order resolved by New.
func (s *Source) CreateStream(ctx context.Context) (<-chan rowsource.ParsedRow, <-chan error) {
	out := make(chan rowsource.ParsedRow)
	errs := make(chan error, 1)

	go func() {
		defer close(out)

		fr, err := local.NewLocalFileReader(s.path)
		if err != nil {
			errs <- fmt.Errorf("parquetparser: %w", err)
			return
		}
		defer fr.Close()

		pr, err := reader.NewParquetReader(fr, nil, 1)
		if err != nil {
			errs <- fmt.Errorf("parquetparser: %w", err)
			return
		}
		defer pr.ReadStop()

		total := int(pr.GetNumRows())
		var idx uint64
		for read := 0; read < total; {
			n := readBatchSize
			if total-read < n {
				n = total - read
			}
			data := make([]interface{}, n)
			if err := pr.Read(&data); err != nil {
				errs <- fmt.Errorf("parquetparser: batch at row %d: %w", read, err)
				return
			}
			for _, raw := range data {
				m, ok := raw.(map[string]interface{})
				if !ok {
					continue
				}
				row := rowsource.ParsedRow{Index: idx, Data: cellsFrom(m, s.header)}
				idx++
				select {
				case out <- row:
				case <-ctx.Done():
					return
				}
			}
			read += n
		}
	}()

	return out, errs
}

// cellsFrom orders m's values per header and converts each to a Cell,
// preserving native numeric kinds rather than stringifying them.
func cellsFrom(m map[string]interface{}, header []string) []rowsource.Cell {
	cells := make([]rowsource.Cell, len(header))
	for i, name := range header {
		cells[i] = toCell(m[name])
	}
	return cells
}

func toCell(v interface{}) rowsource.Cell {
	switch t := v.(type) {
	case nil:
		return rowsource.NullCell
	case int32:
		return rowsource.Cell{Kind: rowsource.CellInt, Int: int64(t)}
	case int64:
		return rowsource.Cell{Kind: rowsource.CellInt, Int: t}
	case float32:
		return rowsource.Cell{Kind: rowsource.CellFloat, Flt: float64(t)}
	case float64:
		return rowsource.Cell{Kind: rowsource.CellFloat, Flt: t}
	case bool:
		if t {
			return rowsource.TextCell("true")
		}
		return rowsource.TextCell("false")
	case string:
		return rowsource.TextCell(t)
	case []byte:
		return rowsource.TextCell(string(t))
	default:
		return rowsource.TextCell(fmt.Sprint(t))
	}
}
