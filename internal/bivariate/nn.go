package bivariate

import (
	"sort"

	"mcs-mcp/internal/kernels"
	"mcs-mcp/internal/primitives"
)

type xyPoint struct{ X, Y float64 }

// nnSketch is the numeric-numeric pair sketch: an online covariance
// accumulator plus a small seeded reservoir of raw pairs for the
// scatter-pattern insight.
type nnSketch struct {
	cov       *primitives.Covariance
	reservoir *primitives.Reservoir[xyPoint]
}

func newNNSketch() *nnSketch {
	seed := uint32(42)
	return &nnSketch{
		cov:       primitives.NewCovariance(),
		reservoir: primitives.NewReservoir[xyPoint](50, &seed),
	}
}

func (s *nnSketch) update(x, y float64) {
	s.cov.Update(x, y)
	s.reservoir.Update(xyPoint{X: x, Y: y})
}

// NNEntry is one numeric-numeric pair's finalized statistics.
type NNEntry struct {
	ColumnA, ColumnB string
	N                int64
	R                float64
	Significance     kernels.Result
	Strength         string
	Direction        string
	ScatterInsight   string
}

func (s *nnSketch) finalize(nameA, nameB string) NNEntry {
	r := s.cov.Pearson()
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	if r == 0 {
		direction = "none"
	}

	insight := "Linear"
	if s.cov.N < 2 || s.cov.VarianceX() == 0 || s.cov.VarianceY() == 0 {
		insight = "Constant axis: scatter pattern undefined"
	}

	return NNEntry{
		ColumnA: nameA, ColumnB: nameB,
		N:              s.cov.N,
		R:              r,
		Significance:   kernels.CorrelationSignificance(r, int(s.cov.N)),
		Strength:       strengthBucket(absf(r)),
		Direction:      direction,
		ScatterInsight: insight,
	}
}

// NNReport is the numeric-numeric bucket of the bivariate report.
type NNReport struct {
	Pairs              []NNEntry
	TopByAbsR          []NNEntry
	StrongestPositive  *NNEntry
	StrongestNegative  *NNEntry
	StrongCorrelations []NNEntry
}

func finalizeNN(entries []NNEntry) NNReport {
	report := NNReport{Pairs: entries}
	if len(entries) == 0 {
		return report
	}

	sorted := append([]NNEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return absf(sorted[i].R) > absf(sorted[j].R) })
	top := sorted
	if len(top) > 50 {
		top = top[:50]
	}
	report.TopByAbsR = top

	var strongestPos, strongestNeg *NNEntry
	for i := range entries {
		e := &entries[i]
		if e.R > 0 && (strongestPos == nil || e.R > strongestPos.R) {
			strongestPos = e
		}
		if e.R < 0 && (strongestNeg == nil || e.R < strongestNeg.R) {
			strongestNeg = e
		}
		if absf(e.R) > 0.5 {
			report.StrongCorrelations = append(report.StrongCorrelations, *e)
		}
	}
	report.StrongestPositive = strongestPos
	report.StrongestNegative = strongestNeg
	return report
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
