package kernels

import "math"

// ChiSquareResult extends Result with the effect-size and df fields the
// categorical-categorical bivariate analysis needs.
type ChiSquareResult struct {
	Result
	DF       int
	CramerV  float64
	Warnings []string
}

// ChiSquare runs the standard observed-vs-expected test of independence
// over an RxC contingency matrix. If more than 20% of expected cells are
// below 5, the assumptions-violated path forces p=1 and a warning.
func ChiSquare(observed [][]float64) ChiSquareResult {
	r := len(observed)
	if r == 0 || len(observed[0]) == 0 {
		return ChiSquareResult{Result: Result{PValue: 1, Interpretation: "no data"}}
	}
	c := len(observed[0])

	rowTotals := make([]float64, r)
	colTotals := make([]float64, c)
	var total float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rowTotals[i] += observed[i][j]
			colTotals[j] += observed[i][j]
			total += observed[i][j]
		}
	}
	if total == 0 {
		return ChiSquareResult{Result: Result{PValue: 1, Interpretation: "no data"}}
	}

	expected := make([][]float64, r)
	var stat float64
	var lowCells, cells int
	for i := 0; i < r; i++ {
		expected[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			e := rowTotals[i] * colTotals[j] / total
			expected[i][j] = e
			cells++
			if e < 5 {
				lowCells++
			}
			if e > 0 {
				diff := observed[i][j] - e
				stat += diff * diff / e
			}
		}
	}

	df := (r - 1) * (c - 1)
	if df < 1 {
		df = 1
	}

	var warnings []string
	if cells > 0 && float64(lowCells)/float64(cells) > 0.2 {
		warnings = append(warnings, "more than 20% of expected cells are below 5; chi-square assumptions violated")
		minDim := r - 1
		if c-1 < minDim {
			minDim = c - 1
		}
		return ChiSquareResult{
			Result:   Result{Statistic: stat, PValue: 1, Interpretation: "assumptions violated"},
			DF:       df,
			CramerV:  cramersV(stat, total, minDim),
			Warnings: warnings,
		}
	}

	p := chiSquarePValue(stat, df)
	minDim := r - 1
	if c-1 < minDim {
		minDim = c - 1
	}

	interp := "not significant"
	if p <= 0.05 {
		interp = "significant association"
	}
	return ChiSquareResult{
		Result:  Result{Statistic: stat, PValue: p, Interpretation: interp},
		DF:      df,
		CramerV: cramersV(stat, total, minDim),
	}
}

func cramersV(chiSq, n float64, minDim int) float64 {
	if minDim < 1 || n <= 0 {
		return 0
	}
	return math.Sqrt(chiSq / (n * float64(minDim)))
}

// chiSquarePValue is a piecewise critical-value approximation keyed on df,
// using chi-square table critical values at alpha = 0.50/0.10/0.05/0.01 and
// returning 0.5, 0.1, 0.05, 0.01 or 0.001.
func chiSquarePValue(stat float64, df int) float64 {
	crit := chiSquareCritical(df)
	switch {
	case stat < crit[0]:
		return 0.5
	case stat < crit[1]:
		return 0.1
	case stat < crit[2]:
		return 0.05
	case stat < crit[3]:
		return 0.01
	default:
		return 0.001
	}
}

// chiSquareCritical returns the {0.5, 0.10, 0.05, 0.01} critical values for
// the given degrees of freedom from a table covering df 1-10. df below 1
// uses the df=1 row; df above 10 scales the df=10 row linearly by df/10.
func chiSquareCritical(df int) [4]float64 {
	table := map[int][4]float64{
		1: {0.455, 2.706, 3.841, 6.635},
		2: {1.386, 4.605, 5.991, 9.210},
		3: {2.366, 6.251, 7.815, 11.345},
		4: {3.357, 7.779, 9.488, 13.277},
		5: {4.351, 9.236, 11.070, 15.086},
		6: {5.348, 10.645, 12.592, 16.812},
		7: {6.346, 12.017, 14.067, 18.475},
		8: {7.344, 13.362, 15.507, 20.090},
		9: {8.343, 14.684, 16.919, 21.666},
		10: {9.342, 15.987, 18.307, 23.209},
	}
	if v, ok := table[df]; ok {
		return v
	}
	if df < 1 {
		return table[1]
	}
	// Linear approximation for df above the table, scaled off the df=10
	// row.
	base := table[10]
	scale := float64(df) / 10.0
	return [4]float64{base[0] * scale, base[1] * scale, base[2] * scale, base[3] * scale}
}
