package report

import (
	"strings"
	"testing"

	"mcs-mcp/internal/analyzers"
	"mcs-mcp/internal/bivariate"
	"mcs-mcp/internal/detect"
)

func TestGenerateHistogramChartReflectsColumnQuantiles(t *testing.T) {
	narrow := analyzers.ColumnReport{
		Name: "age", DataType: detect.NumericalInteger,
		Numeric: &analyzers.NumericReport{
			Descriptives: analyzers.Descriptives{Min: 18, Max: 65, Mean: 35, Std: 10},
			Quantiles:    analyzers.QuantileReport{P1: 19, P5: 21, P10: 23, P25: 27, P75: 45, P90: 55, P95: 60, P99: 64},
		},
	}
	wide := analyzers.ColumnReport{
		Name: "income", DataType: detect.NumericalFloat,
		Numeric: &analyzers.NumericReport{
			Descriptives: analyzers.Descriptives{Min: 0, Max: 500000, Mean: 60000, Std: 40000},
			Quantiles:    analyzers.QuantileReport{P1: 12000, P5: 18000, P10: 22000, P25: 30000, P75: 80000, P90: 150000, P95: 220000, P99: 400000},
		},
	}

	narrowChart := GenerateHistogramChart(narrow)
	wideChart := GenerateHistogramChart(wide)

	if narrowChart == "" || wideChart == "" {
		t.Fatal("expected non-empty charts for numeric columns")
	}
	if narrowChart == wideChart {
		t.Error("two columns with different distributions produced identical charts")
	}
	if !strings.Contains(narrowChart, "27.0") {
		t.Errorf("expected narrow chart to label a bin edge with P25=27.0, got:\n%s", narrowChart)
	}
	if !strings.Contains(wideChart, "30000.0") {
		t.Errorf("expected wide chart to label a bin edge with P25=30000.0, got:\n%s", wideChart)
	}
}

func TestGenerateHistogramChartEmptyForNonNumeric(t *testing.T) {
	col := analyzers.ColumnReport{Name: "region", DataType: detect.Categorical}
	if chart := GenerateHistogramChart(col); chart != "" {
		t.Errorf("expected empty chart for non-numeric column, got %q", chart)
	}
}

func TestGenerateTopPairChartEmptyWithNoPairs(t *testing.T) {
	if chart := GenerateTopPairChart(bivariate.NNReport{}); chart != "" {
		t.Errorf("expected empty chart with no strongest pair, got %q", chart)
	}
}

func TestGenerateTopPairChartPicksStrongerMagnitude(t *testing.T) {
	pos := bivariate.NNEntry{ColumnA: "a", ColumnB: "b", R: 0.3, Strength: "weak", Direction: "positive"}
	neg := bivariate.NNEntry{ColumnA: "c", ColumnB: "d", R: -0.9, Strength: "strong", Direction: "negative"}
	chart := GenerateTopPairChart(bivariate.NNReport{StrongestPositive: &pos, StrongestNegative: &neg})
	if !strings.Contains(chart, "c vs d") {
		t.Errorf("expected the stronger-magnitude pair to be chosen, got:\n%s", chart)
	}
}
