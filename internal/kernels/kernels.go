// Package kernels implements the closed-form statistical test kernels: pure
// functions from raw input (vectors, groups of vectors, or a contingency
// matrix) to {statistic, pValue, interpretation}. All p-values are
// piecewise approximations from standard critical-value tables; the
// thresholds below are fixed by the spec to keep behavior reproducible
// rather than reaching for an exact CDF.
package kernels

// Result is the common shape every kernel in this package returns.
type Result struct {
	Statistic      float64
	PValue         float64
	Interpretation string
}
