// Package report assembles the orchestrator's internal Report into the
// abstract external report shape, validates it against a JSON Schema, and
// renders optional Mermaid diagrams for the column histograms and the
// strongest numeric-numeric pair.
package report

import (
	"fmt"

	"github.com/google/uuid"

	"mcs-mcp/internal/analyzers"
	"mcs-mcp/internal/bivariate"
	"mcs-mcp/internal/orchestrator"
)

// Category buckets a warning by which subsystem raised it.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryData        Category = "data"
	CategoryError       Category = "error"
)

// Warning is the external, caller-facing warning shape.
type Warning struct {
	Category   Category `json:"category"`
	Severity   string   `json:"severity"`
	Message    string   `json:"message"`
	Impact     string   `json:"impact,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// PerformanceMetrics is the external performance-counter shape.
type PerformanceMetrics struct {
	AnalysisTimeMs     int64   `json:"analysisTimeMs"`
	RowsAnalyzed       int64   `json:"rowsAnalyzed"`
	ChunksProcessed    int     `json:"chunksProcessed"`
	PeakMemoryMB       float64 `json:"peakMemoryMB"`
	AvgChunkSize       float64 `json:"avgChunkSize"`
	MemoryEfficiency   string  `json:"memoryEfficiency"`
}

// Metadata is the external run-metadata shape.
type Metadata struct {
	AnalysisID       string `json:"analysisId"`
	AnalysisApproach string `json:"analysisApproach"`
	DatasetSize      int64  `json:"datasetSize"`
	ColumnsAnalyzed  int    `json:"columnsAnalyzed"`
	SamplingApplied  bool   `json:"samplingApplied"`
}

// CrossVariableInsights is the four-sequence narrative layer: top
// findings, quality issues, hypotheses, and preprocessing
// recommendations, all ordered strings per §6.
type CrossVariableInsights struct {
	TopFindings     []string `json:"topFindings"`
	QualityIssues   []string `json:"qualityIssues"`
	Hypotheses      []string `json:"hypotheses"`
	Preprocessing   []string `json:"preprocessingRecommendations"`
}

// EDAAnalysis is the report's main analysis subtree.
type EDAAnalysis struct {
	UnivariateAnalysis   []analyzers.ColumnReport `json:"univariateAnalysis"`
	BivariateAnalysis    bivariate.Report         `json:"bivariateAnalysis"`
	CrossVariableInsights CrossVariableInsights   `json:"crossVariableInsights"`
}

// Document is the complete, caller-facing report shape described in §6.
type Document struct {
	EDAAnalysis        EDAAnalysis        `json:"edaAnalysis"`
	Warnings           []Warning          `json:"warnings"`
	PerformanceMetrics PerformanceMetrics `json:"performanceMetrics"`
	Metadata           Metadata           `json:"metadata"`
}

// Assemble converts an orchestrator run result into the external report
// shape, splitting orchestrator.Insights into the four
// CrossVariableInsights sequences and tagging every warning with an
// external category.
func Assemble(run *orchestrator.Report, samplingApplied bool) *Document {
	doc := &Document{
		EDAAnalysis: EDAAnalysis{
			UnivariateAnalysis: run.Columns,
			BivariateAnalysis:  run.Bivariate,
			CrossVariableInsights: buildInsights(run),
		},
		PerformanceMetrics: PerformanceMetrics{
			AnalysisTimeMs:   run.Performance.AnalysisTime.Milliseconds(),
			RowsAnalyzed:     run.Performance.RowsAnalyzed,
			ChunksProcessed:  run.Performance.ChunksProcessed,
			PeakMemoryMB:     run.Performance.PeakMemoryMB,
			AvgChunkSize:     run.Performance.AverageChunkSize,
			MemoryEfficiency: memoryEfficiencyNote(run.Performance),
		},
		Metadata: Metadata{
			AnalysisID:       uuid.NewString(),
			AnalysisApproach: "two-pass streaming (bounded-prefix detection, chunked analysis)",
			DatasetSize:      run.Performance.RowsAnalyzed,
			ColumnsAnalyzed:  len(run.Columns),
			SamplingApplied:  samplingApplied,
		},
	}

	for _, w := range run.Warnings {
		doc.Warnings = append(doc.Warnings, Warning{
			Category: categorizeWarning(w.Message),
			Severity: string(w.Severity),
			Message:  w.Message,
		})
	}
	if run.Degraded {
		doc.Warnings = append(doc.Warnings, Warning{
			Category: CategoryError,
			Severity: "high",
			Message:  "analysis ended in a degraded state: results reflect a partial run",
		})
	}

	return doc
}

func categorizeWarning(msg string) Category {
	// The orchestrator's own warnings are either memory/chunking notices
	// (performance) or row/pair-shape notices (data); a crude keyword
	// split is sufficient since the orchestrator never raises true
	// caller-facing errors here.
	for _, kw := range []string{"memory", "cleanup", "chunk"} {
		if containsFold(msg, kw) {
			return CategoryPerformance
		}
	}
	return CategoryData
}

func containsFold(s, substr string) bool {
	sl, sub := []rune(s), []rune(substr)
	for i := 0; i+len(sub) <= len(sl); i++ {
		match := true
		for j := range sub {
			a, b := sl[i+j], sub[j]
			if 'A' <= a && a <= 'Z' {
				a += 'a' - 'A'
			}
			if 'A' <= b && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func memoryEfficiencyNote(p orchestrator.PerformanceCounters) string {
	if p.RowsAnalyzed == 0 || p.PeakMemoryMB == 0 {
		return "insufficient data to estimate memory efficiency"
	}
	perMillion := p.PeakMemoryMB / (float64(p.RowsAnalyzed) / 1_000_000)
	return fmt.Sprintf("peak %.1fMB for %d rows (~%.2fMB per million rows)", p.PeakMemoryMB, p.RowsAnalyzed, perMillion)
}

// buildInsights splits the orchestrator's flat narrative lines alongside
// the bivariate report's own entries into the four ordered sequences the
// external shape expects.
func buildInsights(run *orchestrator.Report) CrossVariableInsights {
	ins := CrossVariableInsights{
		QualityIssues: append([]string{}, run.Insights...),
	}

	for _, p := range run.Bivariate.NumericNumeric.TopByAbsR {
		ins.TopFindings = append(ins.TopFindings, fmt.Sprintf(
			"%s vs %s: %s %s correlation (r=%.3f)", p.ColumnA, p.ColumnB, p.Strength, p.Direction, p.R))
		if p.Significance.PValue < 0.05 {
			ins.Hypotheses = append(ins.Hypotheses, fmt.Sprintf(
				"%s and %s are significantly correlated (p=%.4f); consider modeling one as a function of the other",
				p.ColumnA, p.ColumnB, p.Significance.PValue))
		}
	}
	for _, p := range run.Bivariate.CategoricalCategorical.Pairs {
		if p.ChiSquare.PValue < 0.05 {
			ins.TopFindings = append(ins.TopFindings, fmt.Sprintf(
				"%s and %s are associated (%s, Cramér's V=%.3f)", p.ColumnA, p.ColumnB, p.CramerVStrength, p.CramerV))
		}
	}
	for _, p := range run.Bivariate.NumericCategorical.Pairs {
		if p.ANOVA.PValue < 0.05 {
			ins.Hypotheses = append(ins.Hypotheses, fmt.Sprintf(
				"%s differs significantly across %s groups (ANOVA p=%.4f): %s",
				p.NumericColumn, p.CategoricalColumn, p.ANOVA.PValue, p.Summary))
		}
	}

	for _, col := range run.Columns {
		if col.Categorical != nil && col.Categorical.HighCardinality {
			ins.Preprocessing = append(ins.Preprocessing, fmt.Sprintf(
				"%s: high-cardinality categorical — consider target/frequency encoding instead of one-hot", col.Name))
		}
		if col.Numeric != nil && col.Numeric.Patterns.LogTransformHint {
			ins.Preprocessing = append(ins.Preprocessing, fmt.Sprintf(
				"%s: right-skewed and strictly positive — consider a log transform", col.Name))
		}
		if col.Numeric != nil && col.Numeric.Outliers.UnionCount > 0 {
			ins.Preprocessing = append(ins.Preprocessing, fmt.Sprintf(
				"%s: %d potential outliers detected — %s", col.Name, col.Numeric.Outliers.UnionCount, col.Numeric.Outliers.PotentialImpact))
		}
	}

	return ins
}
