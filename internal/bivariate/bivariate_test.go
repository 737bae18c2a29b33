package bivariate

import (
	"fmt"
	"math/rand"
	"testing"

	"mcs-mcp/internal/detect"
	"mcs-mcp/pkg/rowsource"
)

func TestNumericNumericDetectsStrongCorrelation(t *testing.T) {
	names := []string{"x", "y"}
	types := []detect.DataType{detect.NumericalFloat, detect.NumericalFloat}
	a := NewAnalyzer(names, types, 50)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		x := r.Float64() * 100
		y := x*2 + r.NormFloat64()*0.5 // near-perfect positive relationship
		a.ProcessRow([]rowsource.Cell{
			{Kind: rowsource.CellFloat, Flt: x},
			{Kind: rowsource.CellFloat, Flt: y},
		})
	}

	report := a.Finalize()
	if len(report.NumericNumeric.Pairs) != 1 {
		t.Fatalf("expected 1 NN pair, got %d", len(report.NumericNumeric.Pairs))
	}
	entry := report.NumericNumeric.Pairs[0]
	if entry.R < 0.9 {
		t.Errorf("R = %v, want a strong positive correlation close to 1", entry.R)
	}
	if entry.Direction != "positive" {
		t.Errorf("Direction = %q, want positive", entry.Direction)
	}
}

func TestCategoricalCategoricalDetectsAssociation(t *testing.T) {
	names := []string{"a", "b"}
	types := []detect.DataType{detect.Categorical, detect.Categorical}
	analyzer := NewAnalyzer(names, types, 50)

	for i := 0; i < 100; i++ {
		analyzer.ProcessRow([]rowsource.Cell{
			rowsource.TextCell("X"),
			rowsource.TextCell("P"),
		})
	}
	for i := 0; i < 100; i++ {
		analyzer.ProcessRow([]rowsource.Cell{
			rowsource.TextCell("Y"),
			rowsource.TextCell("Q"),
		})
	}

	report := analyzer.Finalize()
	if len(report.CategoricalCategorical.Pairs) != 1 {
		t.Fatalf("expected 1 CC pair, got %d", len(report.CategoricalCategorical.Pairs))
	}
	entry := report.CategoricalCategorical.Pairs[0]
	if entry.ChiSquare.PValue >= 0.05 {
		t.Errorf("expected a significant association, got p=%v", entry.ChiSquare.PValue)
	}
}

func TestMaxPairsTruncation(t *testing.T) {
	n := 10
	names := make([]string, n)
	types := make([]detect.DataType, n)
	for i := range names {
		names[i] = fmt.Sprintf("col%d", i)
		types[i] = detect.NumericalFloat
	}
	// n=10 numeric columns -> 45 candidate pairs, capped to 5.
	a := NewAnalyzer(names, types, 5)
	truncated, dropped := a.Truncated()
	if !truncated {
		t.Fatal("expected truncation with maxPairs=5 over 45 candidate pairs")
	}
	if dropped != 40 {
		t.Errorf("dropped = %d, want 40", dropped)
	}
}
