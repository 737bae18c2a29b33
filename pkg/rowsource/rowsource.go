// Package rowsource defines the upstream parser contract: a lazy, finite,
// ordered sequence of rows that the streaming engine pulls from. The engine
// never parses raw bytes itself; it only consumes this interface.
package rowsource

import "context"

// CellKind tags the concrete representation carried by a Cell.
type CellKind int

const (
	// CellNull marks a missing or empty value. Empty text is always null.
	CellNull CellKind = iota
	CellInt
	CellFloat
	CellText
)

// Cell is one positional value in a row: null, integer, float, or text.
type Cell struct {
	Kind CellKind
	Int  int64
	Flt  float64
	Text string
}

// IsNull reports whether the cell carries no value.
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// NullCell is the canonical empty cell.
var NullCell = Cell{Kind: CellNull}

// TextCell builds a text cell, collapsing empty strings to null per the
// data model's "empty text is treated as null" rule.
func TextCell(s string) Cell {
	if s == "" {
		return NullCell
	}
	return Cell{Kind: CellText, Text: s}
}

// ParsedRow is one row of the stream: a stable index, the ordered cells,
// and (optionally) the raw line for diagnostics.
type ParsedRow struct {
	Index uint64
	Data  []Cell
	Raw   string
}

// RowSource is the external collaborator that delivers typed cells in row
// order. Implementations must be re-readable: CreateStream may be called
// twice in the same process (once for the bounded prefix sample used for
// type detection, once for the main pass) unless the source is buffered by
// the caller.
type RowSource interface {
	// HasHeader reports whether the input has a header row. When Header
	// returns names, the source has already consumed that row and the
	// stream carries data rows only; when Header returns nil, the first
	// row of the stream is the header.
	HasHeader() bool
	// Header returns the declared column names when HasHeader is true, or
	// nil when the header row is left in the stream or headers must be
	// synthesized by the caller.
	Header() []string
	// CreateStream opens a fresh iteration over the rows. The returned
	// channel is closed when the source is exhausted or ctx is canceled;
	// errs receives at most one terminal error before closing.
	CreateStream(ctx context.Context) (rows <-chan ParsedRow, errs <-chan error)
}
