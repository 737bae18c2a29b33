package report

import (
	"testing"
	"time"

	"mcs-mcp/internal/analyzers"
	"mcs-mcp/internal/bivariate"
	"mcs-mcp/internal/detect"
	"mcs-mcp/internal/kernels"
	"mcs-mcp/internal/orchestrator"
)

func sampleRun() *orchestrator.Report {
	return &orchestrator.Report{
		Columns: []analyzers.ColumnReport{
			{
				Name: "age", DataType: detect.NumericalInteger, Total: 100, Valid: 98, Null: 2,
				Numeric: &analyzers.NumericReport{
					Patterns: analyzers.NumericPatterns{LogTransformHint: true},
					Outliers: analyzers.OutlierRpt{UnionCount: 3, PotentialImpact: "low"},
				},
			},
			{
				Name: "region", DataType: detect.Categorical, Total: 100, Valid: 100,
				Categorical: &analyzers.CategoricalReport{HighCardinality: true},
			},
		},
		Bivariate: bivariate.Report{
			NumericNumeric: bivariate.NNReport{
				TopByAbsR: []bivariate.NNEntry{
					{ColumnA: "age", ColumnB: "income", R: 0.82, Direction: "positive", Strength: "strong",
						Significance: kernels.Result{PValue: 0.001}},
				},
			},
		},
		Insights: []string{"chunk size reduced due to memory pressure"},
		Warnings: []orchestrator.Warning{
			{Severity: orchestrator.SeverityMedium, Message: "memory threshold approached during chunk 4"},
		},
		Performance: orchestrator.PerformanceCounters{
			AnalysisTime: 2 * time.Second, RowsAnalyzed: 100, ChunksProcessed: 4, PeakMemoryMB: 128, AverageChunkSize: 25,
		},
		Degraded: false,
	}
}

func TestAssembleMapsPerformanceAndMetadata(t *testing.T) {
	doc := Assemble(sampleRun(), true)
	if doc.PerformanceMetrics.RowsAnalyzed != 100 {
		t.Errorf("RowsAnalyzed = %d, want 100", doc.PerformanceMetrics.RowsAnalyzed)
	}
	if doc.PerformanceMetrics.AnalysisTimeMs != 2000 {
		t.Errorf("AnalysisTimeMs = %d, want 2000", doc.PerformanceMetrics.AnalysisTimeMs)
	}
	if !doc.Metadata.SamplingApplied {
		t.Error("expected SamplingApplied to be true")
	}
	if doc.Metadata.ColumnsAnalyzed != 2 {
		t.Errorf("ColumnsAnalyzed = %d, want 2", doc.Metadata.ColumnsAnalyzed)
	}
	if doc.Metadata.AnalysisID == "" {
		t.Error("expected AnalysisID to be populated")
	}
	if other := Assemble(sampleRun(), true); other.Metadata.AnalysisID == doc.Metadata.AnalysisID {
		t.Error("expected AnalysisID to differ between runs")
	}
}

func TestAssembleCategorizesWarnings(t *testing.T) {
	doc := Assemble(sampleRun(), false)
	if len(doc.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(doc.Warnings))
	}
	if doc.Warnings[0].Category != CategoryPerformance {
		t.Errorf("Category = %v, want CategoryPerformance for a memory-related message", doc.Warnings[0].Category)
	}
}

func TestAssembleMarksDegradedRunsWithErrorWarning(t *testing.T) {
	run := sampleRun()
	run.Degraded = true
	doc := Assemble(run, false)

	var foundError bool
	for _, w := range doc.Warnings {
		if w.Category == CategoryError {
			foundError = true
		}
	}
	if !foundError {
		t.Error("expected a CategoryError warning for a degraded run")
	}
}

func TestAssembleBuildsCrossVariableInsights(t *testing.T) {
	doc := Assemble(sampleRun(), false)
	insights := doc.EDAAnalysis.CrossVariableInsights
	if len(insights.TopFindings) == 0 {
		t.Error("expected at least one top finding from the strong NN pair")
	}
	if len(insights.Hypotheses) == 0 {
		t.Error("expected a hypothesis for the significant correlation")
	}
	if len(insights.Preprocessing) != 3 {
		t.Errorf("expected 3 preprocessing recommendations (log-transform + outliers + high-cardinality), got %d", len(insights.Preprocessing))
	}
}

func TestAssembledDocumentValidatesAgainstSchema(t *testing.T) {
	doc := Assemble(sampleRun(), false)
	if err := Validate(doc); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
