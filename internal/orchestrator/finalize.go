package orchestrator

import (
	"fmt"
	"time"

	"mcs-mcp/internal/analyzers"
	"mcs-mcp/internal/bivariate"
)

// finalize runs finalize on every column analyzer and the bivariate
// analyzer exactly once, assembles cross-column insights, and attaches
// the run's performance counters.
func (o *Orchestrator) finalize(degraded bool) *Report {
	columns := make([]analyzers.ColumnReport, len(o.columns))
	for i, col := range o.columns {
		columns[i] = col.Finalize()
	}

	bvReport := o.bv.Finalize()

	report := &Report{
		Columns:      columns,
		Bivariate:    bvReport,
		Warnings:     append(o.warnings, bivariateWarnings(bvReport)...),
		Degraded:     degraded,
		Multivariate: o.multivar,
	}
	report.Insights = o.assembleInsights(columns)

	var totalChunk int
	for _, s := range o.chunkSizes {
		totalChunk += s
	}
	avgChunk := 0.0
	if len(o.chunkSizes) > 0 {
		avgChunk = float64(totalChunk) / float64(len(o.chunkSizes))
	}

	report.Performance = PerformanceCounters{
		AnalysisTime:     time.Since(o.startedAt),
		RowsAnalyzed:     o.rowsSeen,
		ChunksProcessed:  o.chunksDone,
		PeakMemoryMB:     o.peakMemMB,
		AverageChunkSize: avgChunk,
	}
	return report
}

func bivariateWarnings(r bivariate.Report) []Warning {
	out := make([]Warning, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		out = append(out, Warning{Severity: SeverityLow, Message: w})
	}
	return out
}

// assembleInsights derives cross-column quality/cardinality/memory
// observations from the finalized column reports.
func (o *Orchestrator) assembleInsights(columns []analyzers.ColumnReport) []string {
	var insights []string
	for _, col := range columns {
		if col.Total > 0 && float64(col.Null)/float64(col.Total) > 0.20 {
			insights = append(insights, fmt.Sprintf(
				"%q has %.1f%% missing values", col.Name, 100*float64(col.Null)/float64(col.Total)))
		}
		if col.Categorical != nil && col.Valid > 100 && col.Categorical.UniquePercentage > 80 {
			insights = append(insights, fmt.Sprintf(
				"%q is high-cardinality (%.1f%% unique across %d values)",
				col.Name, col.Categorical.UniquePercentage, col.Valid))
		}
	}
	insights = append(insights, fmt.Sprintf(
		"processed %d rows across %d chunks, peaking at %.1fMB heap",
		o.rowsSeen, o.chunksDone, o.peakMemMB))
	return insights
}
