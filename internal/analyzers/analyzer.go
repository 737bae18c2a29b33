// Package analyzers implements the univariate column analyzers: one
// variant per DataType, each a sink that consumes cell values and emits a
// finalized column report. Analyzers are created once detection has run,
// updated during the main streaming pass, and finalized exactly once.
package analyzers

import (
	"fmt"

	"mcs-mcp/internal/detect"
	"mcs-mcp/pkg/rowsource"
)

// ColumnAnalyzer is the polymorphic capability set every per-type
// analyzer implements.
type ColumnAnalyzer interface {
	ProcessValue(cell rowsource.Cell)
	Finalize() ColumnReport
	Warnings() []string
	ClearTransientMemory()
}

// Counts tracks total/valid/null observations, shared by every analyzer.
type Counts struct {
	Total int64
	Valid int64
	Null  int64
}

func (c *Counts) observe(isNull bool) {
	c.Total++
	if isNull {
		c.Null++
	} else {
		c.Valid++
	}
}

// Quality buckets valid/total into the standard three-tier flag.
func (c Counts) Quality() string {
	if c.Total == 0 {
		return "Poor"
	}
	ratio := float64(c.Valid) / float64(c.Total)
	switch {
	case ratio > 0.95:
		return "Good"
	case ratio > 0.80:
		return "Moderate"
	default:
		return "Poor"
	}
}

// ColumnReport is the finalized report for one column; exactly one of the
// type-specific sections is populated, selected by DataType.
type ColumnReport struct {
	Name         string              `json:"name"`
	DataType     detect.DataType     `json:"dataType"`
	SemanticType detect.SemanticType `json:"semanticType"`
	Quality      string              `json:"quality"`
	Total        int64               `json:"total"`
	Valid        int64               `json:"valid"`
	Null         int64               `json:"null"`
	Warnings     []string            `json:"warnings,omitempty"`

	Numeric     *NumericReport     `json:"numeric,omitempty"`
	Categorical *CategoricalReport `json:"categorical,omitempty"`
	DateTime    *DateTimeReport    `json:"dateTime,omitempty"`
	Boolean     *BooleanReport     `json:"boolean,omitempty"`
	Text        *TextReport        `json:"text,omitempty"`
}

// NewForType constructs the concrete analyzer selected by a detection
// result, per §3's lifecycle: "concrete variant is selected from the
// detection result at the end of pass 1."
func NewForType(name string, dt detect.DataType, st detect.SemanticType, seed uint32) ColumnAnalyzer {
	switch dt {
	case detect.NumericalInteger, detect.NumericalFloat:
		return NewNumericAnalyzer(name, dt, st, seed)
	case detect.Categorical:
		return NewCategoricalAnalyzer(name, st)
	case detect.DateTime:
		return NewDateTimeAnalyzer(name, st)
	case detect.Boolean:
		return NewBooleanAnalyzer(name, st)
	default:
		return NewTextAnalyzer(name, st)
	}
}

func commonWarnings(c Counts, extra []string) []string {
	var w []string
	if c.Valid == 0 {
		w = append(w, "no valid values")
	} else if c.Total > 0 && float64(c.Null)/float64(c.Total) > 0.20 {
		w = append(w, fmt.Sprintf("suspicious null ratio: %.1f%%", 100*float64(c.Null)/float64(c.Total)))
	}
	return append(w, extra...)
}
