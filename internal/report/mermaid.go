package report

import (
	"fmt"
	"math"
	"strings"

	"mcs-mcp/internal/analyzers"
	"mcs-mcp/internal/bivariate"
)

// GenerateHistogramChart renders a Mermaid bar chart approximating col's
// distribution from its quantile breakpoints: each inter-quantile gap is a
// bin, sized by the known fraction of the data it covers (raw per-value
// data is never retained, only the P-squared quantile estimates, so the
// bin widths are fixed) and labeled by the column's own quantile values rather
// than percentile ranks, so two columns with the same shape but different
// scales render visibly different bars. Returns "" for non-numeric
// columns.
func GenerateHistogramChart(col analyzers.ColumnReport) string {
	if col.Numeric == nil {
		return ""
	}
	q := col.Numeric.Quantiles
	d := col.Numeric.Descriptives

	// The report carries no P50 value, so the two central bins split the
	// P25-P75 interquartile range at its midpoint rather than at a
	// true median.
	mid := (q.P25 + q.P75) / 2

	type bin struct {
		lo, hi float64
		frac   float64
	}
	bins := []bin{
		{d.Min, q.P1, 0.01},
		{q.P1, q.P5, 0.04},
		{q.P5, q.P10, 0.05},
		{q.P10, q.P25, 0.15},
		{q.P25, mid, 0.25},
		{mid, q.P75, 0.25},
		{q.P75, q.P90, 0.15},
		{q.P90, q.P95, 0.05},
		{q.P95, q.P99, 0.04},
		{q.P99, d.Max, 0.01},
	}

	var labels, values []string
	maxFrac := 0.0
	for _, b := range bins {
		labels = append(labels, fmt.Sprintf("\"%.1f–%.1f\"", b.lo, b.hi))
		pct := b.frac * 100
		values = append(values, fmt.Sprintf("%.1f", pct))
		if pct > maxFrac {
			maxFrac = pct
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s distribution (quantile-bin approximation)\"\n", col.Name))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Percent of values\" 0 --> %d\n", int(math.Ceil(maxFrac*1.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    %% range %.4f to %.4f, mean %.4f, std %.4f\n", q.P1, q.P99, col.Numeric.Descriptives.Mean, col.Numeric.Descriptives.Std))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTopPairChart renders a single-bar Mermaid block proxying the
// strongest numeric-numeric pair's correlation strength and direction;
// Mermaid's xychart-beta has no scatter primitive, so the correlation
// coefficient itself stands in for the scatter pattern.
func GenerateTopPairChart(r bivariate.NNReport) string {
	if r.StrongestPositive == nil && r.StrongestNegative == nil {
		return ""
	}

	top := r.StrongestPositive
	if top == nil || (r.StrongestNegative != nil && math.Abs(r.StrongestNegative.R) > math.Abs(top.R)) {
		top = r.StrongestNegative
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s vs %s (%s %s correlation)\"\n", top.ColumnA, top.ColumnB, top.Strength, top.Direction))
	sb.WriteString("    x-axis [\"r\"]\n")
	sb.WriteString("    y-axis \"Pearson r\" -1 --> 1\n")
	sb.WriteString(fmt.Sprintf("    bar [%.4f]\n", top.R))
	sb.WriteString(fmt.Sprintf("    %% n=%d, %s\n", top.N, top.ScatterInsight))
	sb.WriteString("```")
	return sb.String()
}
