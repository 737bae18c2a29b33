package analyzers

import (
	"math"
	"sort"
	"strconv"

	"mcs-mcp/internal/detect"
	"mcs-mcp/internal/primitives"
	"mcs-mcp/pkg/rowsource"
)

const categoricalCap = 500

// CategoricalAnalyzer sinks string keys into a bounded frequency counter
// (default cap 500, 20% eviction) plus a length-moments accumulator.
type CategoricalAnalyzer struct {
	name         string
	semanticType detect.SemanticType

	counts    Counts
	freq      *primitives.BoundedFrequencyCounter[string]
	lengths   *primitives.Moments
	finalized bool
}

func NewCategoricalAnalyzer(name string, st detect.SemanticType) *CategoricalAnalyzer {
	return &CategoricalAnalyzer{
		name:         name,
		semanticType: st,
		freq:         primitives.NewBoundedFrequencyCounter[string](categoricalCap),
		lengths:      primitives.NewMoments(),
	}
}

func (a *CategoricalAnalyzer) ProcessValue(cell rowsource.Cell) {
	if a.finalized {
		panic("analyzers: ProcessValue called after Finalize")
	}
	isNull := cell.IsNull()
	a.counts.observe(isNull)
	if isNull {
		return
	}
	key := cellToString(cell)
	a.freq.Update(key)
	a.lengths.Update(float64(len(key)))
}

func cellToString(cell rowsource.Cell) string {
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

// CategoricalReport is the finalized report shape for a categorical
// column.
type CategoricalReport struct {
	Frequencies        []FrequencyEntry
	Entropy            float64
	MaxEntropy         float64
	GiniImpurity       float64
	Dominance          string
	LabelLengthMean    float64
	LabelLengthStd     float64
	HighCardinality    bool
	RareCategoriesNote string
	UniquePercentage   float64
	UniqueApproximate  bool
}

type FrequencyEntry struct {
	Value      string
	Count      int64
	Percentage float64
	Cumulative float64
}

func (a *CategoricalAnalyzer) Finalize() ColumnReport {
	if a.finalized {
		panic("analyzers: Finalize called twice")
	}
	a.finalized = true

	all := a.freq.All()
	total := a.freq.Total()

	sort.Slice(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	topN := all
	if len(topN) > 20 {
		topN = topN[:20]
	}

	var cumulative float64
	entries := make([]FrequencyEntry, 0, len(topN))
	for _, kc := range topN {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(kc.Count) / float64(total)
		}
		cumulative += pct
		entries = append(entries, FrequencyEntry{Value: kc.Key, Count: kc.Count, Percentage: pct, Cumulative: cumulative})
	}

	entropy, maxEntropy, gini := diversityMetrics(all, total)

	dominance := "diverse"
	if len(all) > 0 && total > 0 {
		topPct := 100 * float64(all[0].Count) / float64(total)
		switch {
		case topPct > 80:
			dominance = "heavily dominated by one category"
		case topPct > 60:
			dominance = "moderately dominated by one category"
		case topPct > 40:
			dominance = "leans toward one category"
		}
	}

	rareCount := 0
	for _, kc := range all {
		if total > 0 && 100*float64(kc.Count)/float64(total) < 1 {
			rareCount++
		}
	}
	rareNote := ""
	if len(all) > 0 && float64(rareCount)/float64(len(all)) > 0.5 {
		rareNote = "more than half of observed categories each account for under 1% of values"
	}

	unique := a.freq.Size()
	uniquePct := 0.0
	if a.counts.Valid > 0 {
		uniquePct = 100 * float64(unique) / float64(a.counts.Valid)
	}

	report := CategoricalReport{
		Frequencies:        entries,
		Entropy:            entropy,
		MaxEntropy:         maxEntropy,
		GiniImpurity:       gini,
		Dominance:          dominance,
		LabelLengthMean:    a.lengths.Mean,
		LabelLengthStd:     a.lengths.StdDev(),
		HighCardinality:    unique > 100,
		RareCategoriesNote: rareNote,
		UniquePercentage:   uniquePct,
		UniqueApproximate:  a.freq.Evicted(),
	}

	return ColumnReport{
		Name: a.name, DataType: detect.Categorical, SemanticType: a.semanticType,
		Quality: a.counts.Quality(), Total: a.counts.Total, Valid: a.counts.Valid, Null: a.counts.Null,
		Warnings: a.Warnings(), Categorical: &report,
	}
}

func diversityMetrics(all []primitives.KeyCount[string], total int64) (entropy, maxEntropy, gini float64) {
	if total == 0 || len(all) == 0 {
		return 0, 0, 0
	}
	for _, kc := range all {
		p := float64(kc.Count) / float64(total)
		if p > 0 {
			entropy -= p * math.Log2(p)
			gini += p * p
		}
	}
	gini = 1 - gini
	maxEntropy = math.Log2(float64(len(all)))
	return entropy, maxEntropy, gini
}

func (a *CategoricalAnalyzer) Warnings() []string {
	var extra []string
	if a.freq.Size() > 100 {
		extra = append(extra, "high-cardinality column: unique count exceeds 100")
	}
	return commonWarnings(a.counts, extra)
}

func (a *CategoricalAnalyzer) ClearTransientMemory() {
	// The frequency counter IS the retained state; nothing transient to
	// drop beyond what eviction already bounds.
}
