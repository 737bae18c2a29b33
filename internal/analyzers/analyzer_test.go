package analyzers

import (
	"testing"

	"mcs-mcp/internal/detect"
	"mcs-mcp/pkg/rowsource"
)

func TestNumericAnalyzerBasicStats(t *testing.T) {
	a := NewNumericAnalyzer("amount", detect.NumericalFloat, detect.SemanticUnknown, 42)
	values := []float64{10, 20, 30, 40, 50}
	for _, v := range values {
		a.ProcessValue(rowsource.Cell{Kind: rowsource.CellFloat, Flt: v})
	}
	a.ProcessValue(rowsource.TextCell(""))

	report := a.Finalize()
	if report.Numeric == nil {
		t.Fatal("expected Numeric report to be populated")
	}
	if report.Valid != 5 || report.Null != 1 || report.Total != 6 {
		t.Errorf("counts = {Valid:%d Null:%d Total:%d}, want {5 1 6}", report.Valid, report.Null, report.Total)
	}
	if report.Numeric.Descriptives.Mean != 30 {
		t.Errorf("Mean = %v, want 30", report.Numeric.Descriptives.Mean)
	}
	if report.Numeric.Descriptives.Min != 10 || report.Numeric.Descriptives.Max != 50 {
		t.Errorf("Min/Max = %v/%v, want 10/50", report.Numeric.Descriptives.Min, report.Numeric.Descriptives.Max)
	}
}

func TestNumericAnalyzerFinalizeTwicePanics(t *testing.T) {
	a := NewNumericAnalyzer("x", detect.NumericalFloat, detect.SemanticUnknown, 1)
	a.ProcessValue(rowsource.Cell{Kind: rowsource.CellFloat, Flt: 1})
	a.Finalize()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic calling Finalize twice")
		}
	}()
	a.Finalize()
}

func TestCategoricalAnalyzerFrequencies(t *testing.T) {
	a := NewCategoricalAnalyzer("color", detect.SemanticUnknown)
	for i := 0; i < 6; i++ {
		a.ProcessValue(rowsource.TextCell("red"))
	}
	for i := 0; i < 2; i++ {
		a.ProcessValue(rowsource.TextCell("blue"))
	}
	report := a.Finalize()
	if report.Categorical == nil {
		t.Fatal("expected Categorical report to be populated")
	}
	if len(report.Categorical.Frequencies) != 2 {
		t.Fatalf("expected 2 distinct frequencies, got %d", len(report.Categorical.Frequencies))
	}
	top := report.Categorical.Frequencies[0]
	if top.Value != "red" || top.Count != 6 {
		t.Errorf("top entry = %+v, want {red 6 ...}", top)
	}
}

func TestBooleanAnalyzerCounts(t *testing.T) {
	a := NewBooleanAnalyzer("is_active", detect.SemanticUnknown)
	for i := 0; i < 8; i++ {
		a.ProcessValue(rowsource.TextCell("true"))
	}
	for i := 0; i < 2; i++ {
		a.ProcessValue(rowsource.TextCell("false"))
	}
	report := a.Finalize()
	if report.Boolean == nil {
		t.Fatal("expected Boolean report to be populated")
	}
	if report.Boolean.TrueCount != 8 || report.Boolean.FalseCount != 2 {
		t.Errorf("TrueCount/FalseCount = %d/%d, want 8/2", report.Boolean.TrueCount, report.Boolean.FalseCount)
	}
	if report.Boolean.Interpretation != "Predominantly true" {
		t.Errorf("Interpretation = %q, want %q", report.Boolean.Interpretation, "Predominantly true")
	}
}

func TestBooleanAnalyzerUnrecognizedTreatedAsNull(t *testing.T) {
	a := NewBooleanAnalyzer("flag", detect.SemanticUnknown)
	a.ProcessValue(rowsource.TextCell("true"))
	a.ProcessValue(rowsource.TextCell("maybe"))
	report := a.Finalize()
	if report.Null != 1 || report.Valid != 1 {
		t.Errorf("Null/Valid = %d/%d, want 1/1", report.Null, report.Valid)
	}
	if len(report.Warnings) == 0 {
		t.Error("expected a warning noting unrecognized boolean tokens")
	}
}

func TestDateTimeAnalyzerParsesAndRanks(t *testing.T) {
	a := NewDateTimeAnalyzer("created_at", detect.SemanticUnknown)
	dates := []string{"2023-01-01", "2023-02-14", "2024-06-30", "2024-06-30"}
	for _, d := range dates {
		a.ProcessValue(rowsource.TextCell(d))
	}
	report := a.Finalize()
	if report.DateTime == nil {
		t.Fatal("expected DateTime report to be populated")
	}
	if report.Valid != 4 {
		t.Errorf("Valid = %d, want 4", report.Valid)
	}
	if len(report.DateTime.TopYears) == 0 {
		t.Error("expected at least one ranked year")
	}
}

func TestDateTimeAnalyzerRejectsUnparsable(t *testing.T) {
	a := NewDateTimeAnalyzer("created_at", detect.SemanticUnknown)
	a.ProcessValue(rowsource.TextCell("not a date"))
	report := a.Finalize()
	if report.Valid != 0 || report.Null != 1 {
		t.Errorf("Valid/Null = %d/%d, want 0/1", report.Valid, report.Null)
	}
}

func TestTextAnalyzerLengthAndWordStats(t *testing.T) {
	a := NewTextAnalyzer("description", detect.SemanticUnknown)
	a.ProcessValue(rowsource.TextCell("hello world"))
	a.ProcessValue(rowsource.TextCell("a longer sentence here"))
	report := a.Finalize()
	if report.Text == nil {
		t.Fatal("expected Text report to be populated")
	}
	if report.Text.LengthMin <= 0 || report.Text.LengthMax <= 0 {
		t.Errorf("expected positive length bounds, got min=%d max=%d", report.Text.LengthMin, report.Text.LengthMax)
	}
}

func TestNewForTypeSelectsCorrectAnalyzer(t *testing.T) {
	cases := []struct {
		dt   detect.DataType
		want string
	}{
		{detect.NumericalFloat, "*analyzers.NumericAnalyzer"},
		{detect.NumericalInteger, "*analyzers.NumericAnalyzer"},
		{detect.Categorical, "*analyzers.CategoricalAnalyzer"},
		{detect.DateTime, "*analyzers.DateTimeAnalyzer"},
		{detect.Boolean, "*analyzers.BooleanAnalyzer"},
		{detect.TextGeneral, "*analyzers.TextAnalyzer"},
	}
	for _, tt := range cases {
		got := NewForType("col", tt.dt, detect.SemanticUnknown, 1)
		switch tt.dt {
		case detect.NumericalFloat, detect.NumericalInteger:
			if _, ok := got.(*NumericAnalyzer); !ok {
				t.Errorf("%v: got %T, want *NumericAnalyzer", tt.dt, got)
			}
		case detect.Categorical:
			if _, ok := got.(*CategoricalAnalyzer); !ok {
				t.Errorf("%v: got %T, want *CategoricalAnalyzer", tt.dt, got)
			}
		case detect.DateTime:
			if _, ok := got.(*DateTimeAnalyzer); !ok {
				t.Errorf("%v: got %T, want *DateTimeAnalyzer", tt.dt, got)
			}
		case detect.Boolean:
			if _, ok := got.(*BooleanAnalyzer); !ok {
				t.Errorf("%v: got %T, want *BooleanAnalyzer", tt.dt, got)
			}
		default:
			if _, ok := got.(*TextAnalyzer); !ok {
				t.Errorf("%v: got %T, want *TextAnalyzer", tt.dt, got)
			}
		}
	}
}
