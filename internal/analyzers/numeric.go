package analyzers

import (
	"math"
	"strconv"

	"mcs-mcp/internal/detect"
	"mcs-mcp/internal/kernels"
	"mcs-mcp/internal/primitives"
	"mcs-mcp/pkg/rowsource"
)

var quantileLevels = []float64{0.01, 0.05, 0.10, 0.25, 0.50, 0.75, 0.90, 0.95, 0.99}

// NumericAnalyzer sinks numeric cell values into moments, PÂ² quantile
// estimators, a bounded reservoir, and a bounded frequency counter for
// mode estimation, per §3's numeric sketch.
type NumericAnalyzer struct {
	name         string
	dataType     detect.DataType
	semanticType detect.SemanticType

	counts Counts

	moments    *primitives.Moments
	quantiles  map[float64]*primitives.Quantile
	reservoir  *primitives.Reservoir[float64]
	freq       *primitives.BoundedFrequencyCounter[float64]
	finalized  bool
	typeErrors int64
}

// NewNumericAnalyzer returns a fresh numeric sketch seeded for
// determinism.
func NewNumericAnalyzer(name string, dt detect.DataType, st detect.SemanticType, seed uint32) *NumericAnalyzer {
	qs := make(map[float64]*primitives.Quantile, len(quantileLevels))
	for _, q := range quantileLevels {
		qs[q] = primitives.NewQuantile(q)
	}
	return &NumericAnalyzer{
		name:         name,
		dataType:     dt,
		semanticType: st,
		moments:      primitives.NewMoments(),
		quantiles:    qs,
		reservoir:    primitives.NewReservoir[float64](100, &seed),
		freq:         primitives.NewBoundedFrequencyCounter[float64](100),
	}
}

// ProcessValue parses cell into a finite float; non-finite values count as
// null and never reach the sketches.
func (a *NumericAnalyzer) ProcessValue(cell rowsource.Cell) {
	if a.finalized {
		panic("analyzers: ProcessValue called after Finalize")
	}
	x, ok := parseNumeric(cell)
	isNull := cell.IsNull() || !ok
	a.counts.observe(isNull)
	if isNull {
		if !cell.IsNull() && !ok {
			a.typeErrors++
		}
		return
	}

	a.moments.Update(x)
	for _, q := range a.quantiles {
		q.Update(x)
	}
	a.reservoir.Update(x)
	a.freq.Update(x)
}

func parseNumeric(cell rowsource.Cell) (float64, bool) {
	switch cell.Kind {
	case rowsource.CellInt:
		return float64(cell.Int), true
	case rowsource.CellFloat:
		if math.IsNaN(cell.Flt) || math.IsInf(cell.Flt, 0) {
			return 0, false
		}
		return cell.Flt, true
	case rowsource.CellText:
		f, err := strconv.ParseFloat(cell.Text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NumericReport is the finalized report shape for a numeric column.
type NumericReport struct {
	Descriptives Descriptives    `json:"descriptives"`
	Quantiles    QuantileReport  `json:"quantiles"`
	Distribution DistributionRpt `json:"distribution"`
	Normality    NormalityRpt    `json:"normality"`
	Outliers     OutlierRpt      `json:"outliers"`
	Patterns     NumericPatterns `json:"patterns"`
}

type Descriptives struct {
	Min, Max, Range, Sum, Mean float64
	Modes                      []float64
	Std, Var, CV               float64
}

type QuantileReport struct {
	P1, P5, P10, P25, P75, P90, P95, P99 float64
	IQR, MAD                             float64
}

type DistributionRpt struct {
	Skewness, Kurtosis float64
	SkewInterpretation string
	KurtInterpretation string
	HistogramBins      int
}

type NormalityRpt struct {
	Shapiro     kernels.Result
	JarqueBera  kernels.Result
	KS          kernels.Result
}

type OutlierRpt struct {
	IQRLowerFence15, IQRUpperFence15 float64
	IQRLowerFence3, IQRUpperFence3   float64
	ZScoreOutliers                   int
	ModifiedZOutliers                int
	UnionCount                       int
	PotentialImpact                  string
}

type NumericPatterns struct {
	ZeroPercent        float64
	NegativePercent    float64
	RoundNumberNote    string
	LogTransformHint   bool
}

// Finalize computes the full NumericReport from the accumulated sketches.
// Calling Finalize twice is forbidden.
func (a *NumericAnalyzer) Finalize() ColumnReport {
	if a.finalized {
		panic("analyzers: Finalize called twice")
	}
	a.finalized = true

	median := a.quantiles[0.50].Value()
	q1 := a.quantiles[0.25].Value()
	q3 := a.quantiles[0.75].Value()
	if q1 > median {
		q1 = median
	}
	if q3 < median {
		q3 = median
	}
	iqr := q3 - q1

	sample := a.reservoir.Items()
	mad := medianAbsoluteDeviation(sample, median)

	modes := topModes(a.freq)

	n := a.counts.Valid
	histBins := 10
	if n > 0 {
		b := int(math.Ceil(math.Sqrt(float64(n))))
		if b < histBins {
			histBins = b
		}
	}

	skew := a.moments.Skewness()
	kurt := a.moments.Kurtosis()

	lf15 := q1 - 1.5*iqr
	uf15 := q3 + 1.5*iqr
	lf3 := q1 - 3*iqr
	uf3 := q3 + 3*iqr

	std := a.moments.StdDev()
	zOut, modOut, unionOut := countOutliers(sample, a.moments.Mean, std, median, mad)

	var zero, neg, roundish int
	for _, v := range sample {
		if v == 0 {
			zero++
		}
		if v < 0 {
			neg++
		}
		if math.Mod(v, 5) == 0 || math.Mod(v, 10) == 0 {
			roundish++
		}
	}
	n2 := len(sample)
	var zeroPct, negPct, roundPct float64
	if n2 > 0 {
		zeroPct = 100 * float64(zero) / float64(n2)
		negPct = 100 * float64(neg) / float64(n2)
		roundPct = 100 * float64(roundish) / float64(n2)
	}
	roundNote := ""
	if roundPct > 30 {
		roundNote = "values are predominantly round numbers (multiples of 5 or 10)"
	} else if roundPct > 10 {
		roundNote = "a notable share of values are round numbers (multiples of 5 or 10)"
	}

	logHint := false
	if a.moments.Max > 1000 {
		logHint = true
		for _, v := range sample {
			if v <= 0 {
				logHint = false
				break
			}
		}
	}

	report := NumericReport{
		Descriptives: Descriptives{
			Min: a.moments.Min, Max: a.moments.Max, Range: a.moments.Max - a.moments.Min,
			Sum: a.moments.Sum, Mean: a.moments.Mean, Modes: modes,
			Std: std, Var: a.moments.Variance(), CV: a.moments.CoefficientOfVariation(),
		},
		Quantiles: QuantileReport{
			P1: a.quantiles[0.01].Value(), P5: a.quantiles[0.05].Value(), P10: a.quantiles[0.10].Value(),
			P25: q1, P75: q3, P90: a.quantiles[0.90].Value(), P95: a.quantiles[0.95].Value(), P99: a.quantiles[0.99].Value(),
			IQR: iqr, MAD: mad,
		},
		Distribution: DistributionRpt{
			Skewness: skew, Kurtosis: kurt,
			SkewInterpretation: interpretSkew(skew),
			KurtInterpretation: interpretKurtosis(kurt),
			HistogramBins:      histBins,
		},
		Normality: NormalityRpt{
			Shapiro:    kernels.ShapiroWilk(sample),
			JarqueBera: kernels.JarqueBera(int(n), skew, kurt),
			KS:         kernels.KolmogorovSmirnov(sample, a.moments.Mean, std),
		},
		Outliers: OutlierRpt{
			IQRLowerFence15: lf15, IQRUpperFence15: uf15,
			IQRLowerFence3: lf3, IQRUpperFence3: uf3,
			ZScoreOutliers: zOut, ModifiedZOutliers: modOut, UnionCount: unionOut,
			PotentialImpact: outlierImpact(unionOut, int(n)),
		},
		Patterns: NumericPatterns{
			ZeroPercent: zeroPct, NegativePercent: negPct,
			RoundNumberNote: roundNote, LogTransformHint: logHint,
		},
	}

	return ColumnReport{
		Name: a.name, DataType: a.dataType, SemanticType: a.semanticType,
		Quality: a.counts.Quality(), Total: a.counts.Total, Valid: a.counts.Valid, Null: a.counts.Null,
		Warnings: a.Warnings(), Numeric: &report,
	}
}

func (a *NumericAnalyzer) Warnings() []string {
	var extra []string
	if a.typeErrors > 0 {
		extra = append(extra, "some values failed numeric parsing and were treated as null")
	}
	return commonWarnings(a.counts, extra)
}

// ClearTransientMemory drops the reservoir; the moment/quantile
// accumulators and the bounded mode frequency counter are retained.
func (a *NumericAnalyzer) ClearTransientMemory() {
	a.reservoir = primitives.NewReservoir[float64](0, nil)
}

func medianAbsoluteDeviation(sample []float64, median float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	devs := make([]float64, len(sample))
	for i, v := range sample {
		devs[i] = math.Abs(v - median)
	}
	return medianOf(devs)
}

func medianOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	cp := append([]float64(nil), vs...)
	// simple insertion-free sort via sort package would be cleaner but
	// this stays self-contained for the small reservoir sizes involved.
	for i := 1; i < len(cp); i++ {
		for j := i; j > 0 && cp[j-1] > cp[j]; j-- {
			cp[j-1], cp[j] = cp[j], cp[j-1]
		}
	}
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

func topModes(freq *primitives.BoundedFrequencyCounter[float64]) []float64 {
	top := freq.TopK(freq.Size())
	if len(top) == 0 {
		return nil
	}
	best := top[0].Count
	var modes []float64
	for _, kc := range top {
		if kc.Count != best {
			break
		}
		modes = append(modes, kc.Key)
	}
	return modes
}

func countOutliers(sample []float64, mean, std, median, mad float64) (z, modZ, union int) {
	seen := make(map[int]bool)
	for i, v := range sample {
		isZ := std > 0 && math.Abs((v-mean)/std) > 3
		isMod := mad > 0 && math.Abs(0.6745*(v-median)/mad) > 3.5
		if isZ {
			z++
		}
		if isMod {
			modZ++
		}
		if isZ || isMod {
			seen[i] = true
		}
	}
	return z, modZ, len(seen)
}

func outlierImpact(outliers, n int) string {
	if n == 0 {
		return "none"
	}
	ratio := float64(outliers) / float64(n)
	switch {
	case ratio > 0.10:
		return "high: outliers may materially distort summary statistics"
	case ratio > 0.02:
		return "moderate: a small but notable share of values are outliers"
	default:
		return "low: outliers are rare and unlikely to distort summary statistics"
	}
}

func interpretSkew(skew float64) string {
	switch {
	case skew > 1:
		return "highly right-skewed"
	case skew > 0.5:
		return "moderately right-skewed"
	case skew < -1:
		return "highly left-skewed"
	case skew < -0.5:
		return "moderately left-skewed"
	default:
		return "approximately symmetric"
	}
}

func interpretKurtosis(k float64) string {
	switch {
	case k > 1:
		return "heavy-tailed (leptokurtic)"
	case k < -1:
		return "light-tailed (platykurtic)"
	default:
		return "approximately mesokurtic"
	}
}
