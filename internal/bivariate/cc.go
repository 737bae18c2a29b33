package bivariate

import (
	"math"
	"strings"

	"mcs-mcp/internal/kernels"
	"mcs-mcp/internal/primitives"
)

const ccFreqCap = 200

// ccSketch is the categorical-categorical pair sketch: a bounded frequency
// counter over the composite key "a||b".
type ccSketch struct {
	freq *primitives.BoundedFrequencyCounter[string]
}

func newCCSketch() *ccSketch {
	return &ccSketch{freq: primitives.NewBoundedFrequencyCounter[string](ccFreqCap)}
}

func (s *ccSketch) update(a, b string) {
	s.freq.Update(a + "||" + b)
}

// CCEntry is one categorical-categorical pair's finalized statistics.
type CCEntry struct {
	ColumnA, ColumnB       string
	ChiSquare              kernels.ChiSquareResult
	CramerV                float64
	CramerVStrength        string
	ContingencyCoefficient float64
	ContingencyStrength    string
	MostFrequentCombo      string
	MostFrequentCount      int64
}

func (s *ccSketch) finalize(nameA, nameB string) CCEntry {
	rowKeys := map[string]int{}
	colKeys := map[string]int{}
	type cellCount struct {
		a, b  string
		count int64
	}
	var cells []cellCount
	for _, kc := range s.freq.All() {
		parts := strings.SplitN(kc.Key, "||", 2)
		if len(parts) != 2 {
			continue
		}
		a, b := parts[0], parts[1]
		if _, ok := rowKeys[a]; !ok {
			rowKeys[a] = len(rowKeys)
		}
		if _, ok := colKeys[b]; !ok {
			colKeys[b] = len(colKeys)
		}
		cells = append(cells, cellCount{a: a, b: b, count: kc.Count})
	}

	matrix := make([][]float64, len(rowKeys))
	for i := range matrix {
		matrix[i] = make([]float64, len(colKeys))
	}
	var mostFreqCombo string
	var mostFreqCount int64
	for _, c := range cells {
		matrix[rowKeys[c.a]][colKeys[c.b]] += float64(c.count)
		if c.count > mostFreqCount {
			mostFreqCount = c.count
			mostFreqCombo = c.a + " / " + c.b
		}
	}

	chi := kernels.ChiSquare(matrix)

	var total float64
	for _, row := range matrix {
		for _, v := range row {
			total += v
		}
	}
	var contingency float64
	if chi.Statistic+total > 0 {
		contingency = math.Sqrt(chi.Statistic / (chi.Statistic + total))
	}

	return CCEntry{
		ColumnA: nameA, ColumnB: nameB,
		ChiSquare:              chi,
		CramerV:                chi.CramerV,
		CramerVStrength:        strengthBucket(chi.CramerV),
		ContingencyCoefficient: contingency,
		ContingencyStrength:    strengthBucket(contingency),
		MostFrequentCombo:      mostFreqCombo,
		MostFrequentCount:      mostFreqCount,
	}
}

// CCReport is the categorical-categorical bucket of the bivariate report.
type CCReport struct {
	Pairs []CCEntry
}
