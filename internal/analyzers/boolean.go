package analyzers

import (
	"strconv"
	"strings"

	"mcs-mcp/internal/detect"
	"mcs-mcp/pkg/rowsource"
)

var booleanTruthy = map[string]bool{
	"true": true, "yes": true, "y": true, "1": true,
	"on": true, "enabled": true, "active": true,
}

var booleanFalsy = map[string]bool{
	"false": true, "no": true, "n": true, "0": true,
	"off": true, "disabled": true, "inactive": true,
}

// BooleanAnalyzer tokenizes cells against the canonical truthy/falsy
// token sets and counts {true, false, null}.
type BooleanAnalyzer struct {
	name         string
	semanticType detect.SemanticType

	counts          Counts
	trueCount       int64
	falseCount      int64
	unrecognized    int64
	finalized       bool
}

func NewBooleanAnalyzer(name string, st detect.SemanticType) *BooleanAnalyzer {
	return &BooleanAnalyzer{name: name, semanticType: st}
}

func (a *BooleanAnalyzer) ProcessValue(cell rowsource.Cell) {
	if a.finalized {
		panic("analyzers: ProcessValue called after Finalize")
	}
	if cell.IsNull() {
		a.counts.observe(true)
		return
	}

	token := strings.ToLower(strconvCellText(cell))
	switch {
	case booleanTruthy[token]:
		a.trueCount++
		a.counts.observe(false)
	case booleanFalsy[token]:
		a.falseCount++
		a.counts.observe(false)
	default:
		a.unrecognized++
		a.counts.observe(true)
	}
}

func strconvCellText(cell rowsource.Cell) string {
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

// BooleanReport is the finalized report shape for a boolean column.
type BooleanReport struct {
	TrueCount, FalseCount int64
	TruePercent           float64
	FalsePercent          float64
	Interpretation        string
}

func (a *BooleanAnalyzer) Finalize() ColumnReport {
	if a.finalized {
		panic("analyzers: Finalize called twice")
	}
	a.finalized = true

	total := a.trueCount + a.falseCount
	var truePct, falsePct float64
	if total > 0 {
		truePct = 100 * float64(a.trueCount) / float64(total)
		falsePct = 100 * float64(a.falseCount) / float64(total)
	}

	interp := "Balanced"
	if truePct > 75 {
		interp = "Predominantly true"
	} else if falsePct > 75 {
		interp = "Predominantly false"
	}

	report := BooleanReport{
		TrueCount: a.trueCount, FalseCount: a.falseCount,
		TruePercent: truePct, FalsePercent: falsePct, Interpretation: interp,
	}

	return ColumnReport{
		Name: a.name, DataType: detect.Boolean, SemanticType: a.semanticType,
		Quality: a.counts.Quality(), Total: a.counts.Total, Valid: a.counts.Valid, Null: a.counts.Null,
		Warnings: a.Warnings(), Boolean: &report,
	}
}

func (a *BooleanAnalyzer) Warnings() []string {
	var extra []string
	if a.unrecognized > 0 {
		extra = append(extra, "some values did not match a recognized boolean token and were treated as null")
	}
	return commonWarnings(a.counts, extra)
}

func (a *BooleanAnalyzer) ClearTransientMemory() {}
