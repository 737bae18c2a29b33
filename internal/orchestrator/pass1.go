package orchestrator

import (
	"context"
	"fmt"
	"strconv"

	"mcs-mcp/internal/analyzers"
	"mcs-mcp/internal/bivariate"
	"mcs-mcp/internal/detect"
	"mcs-mcp/pkg/rowsource"
)

// runPass1 pulls a bounded prefix, builds the header, detects each
// column's type from up to DetectionSampleValues raw values, and
// constructs the per-column and bivariate analyzers.
func (o *Orchestrator) runPass1(ctx context.Context) error {
	rows, errs := o.source.CreateStream(ctx)

	var prefix []rowsource.ParsedRow
	err := streamRows(ctx, rows, errs, func(row rowsource.ParsedRow) bool {
		prefix = append(prefix, row)
		return len(prefix) < o.cfg.DetectionSampleRows
	})
	if err != nil && !isContextErr(err) {
		return fmt.Errorf("orchestrator: pass 1 stream error: %w", err)
	}

	o.buildHeader(prefix)

	width := len(o.header)
	samples := make([][]string, width)
	types := make([]detect.DataType, width)
	semantics := make([]detect.SemanticType, width)

	startRow := 0
	if o.source.HasHeader() && len(o.source.Header()) == 0 {
		startRow = 1
	}
	for r := startRow; r < len(prefix); r++ {
		for c := 0; c < width && c < len(prefix[r].Data); c++ {
			if len(samples[c]) >= o.cfg.DetectionSampleValues {
				continue
			}
			samples[c] = append(samples[c], cellToRawString(prefix[r].Data[c]))
		}
	}

	o.columns = make([]analyzers.ColumnAnalyzer, width)
	for c := 0; c < width; c++ {
		result := detect.DetectColumn(o.header[c], samples[c])
		types[c] = result.DataType
		semantics[c] = result.SemanticType
		seed := uint32(42 + c)
		o.columns[c] = analyzers.NewForType(o.header[c], result.DataType, result.SemanticType, seed)
	}

	o.bv = bivariate.NewAnalyzer(o.header, types, o.cfg.MaxPairs)
	if truncated, dropped := o.bv.Truncated(); truncated {
		o.warnings = append(o.warnings, Warning{
			Severity: SeverityLow,
			Message:  fmt.Sprintf("bivariate pair cap reached; %d candidate pairs were not analyzed", dropped),
		})
	}

	return nil
}

func (o *Orchestrator) buildHeader(prefix []rowsource.ParsedRow) {
	if o.source.HasHeader() {
		if h := o.source.Header(); len(h) > 0 {
			o.header = h
			return
		}
		if len(prefix) > 0 {
			h := make([]string, len(prefix[0].Data))
			for i, cell := range prefix[0].Data {
				h[i] = cellToRawString(cell)
			}
			o.header = h
			return
		}
	}
	width := 0
	if len(prefix) > 0 {
		width = len(prefix[0].Data)
	}
	h := make([]string, width)
	for i := range h {
		h[i] = "Column_" + strconv.Itoa(i+1)
	}
	o.header = h
}

func cellToRawString(cell rowsource.Cell) string {
	switch cell.Kind {
	case rowsource.CellText:
		return cell.Text
	case rowsource.CellInt:
		return strconv.FormatInt(cell.Int, 10)
	case rowsource.CellFloat:
		return strconv.FormatFloat(cell.Flt, 'g', -1, 64)
	default:
		return ""
	}
}
