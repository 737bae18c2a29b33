// Package primitives implements the online, bounded-memory statistical
// sketches the rest of the engine builds on: moments, quantiles, reservoir
// sampling, covariance, and bounded frequency counting. Every type here
// supports a single streaming update and (where the spec calls for it) a
// merge, but never a rewind.
package primitives

import "math"

// Moments accumulates n, mean, and the second through fourth central
// moments via Welford's single-pass update, plus min/max/sum. Updates on a
// non-finite value are no-ops.
type Moments struct {
	N      int64
	Mean   float64
	M2     float64
	M3     float64
	M4     float64
	Min    float64
	Max    float64
	Sum    float64
	hasMin bool
}

// NewMoments returns a zeroed accumulator ready for Update.
func NewMoments() *Moments {
	return &Moments{}
}

// Update folds one observation into the accumulator. Non-finite values
// (NaN, +/-Inf) are silently ignored, per spec.
func (m *Moments) Update(x float64) {
	if !isFinite(x) {
		return
	}
	m.N++
	n := float64(m.N)
	delta := x - m.Mean
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * (n - 1)

	m.M4 += term1*deltaN2*(n*n-3*n+3) + 6*deltaN2*m.M2 - 4*deltaN*m.M3
	m.M3 += term1*deltaN*(n-2) - 3*deltaN*m.M2
	m.M2 += term1
	m.Mean += deltaN

	m.Sum += x
	if !m.hasMin || x < m.Min {
		m.Min = x
		m.hasMin = true
	}
	if m.N == 1 || x > m.Max {
		m.Max = x
	}
}

// Variance returns the sample variance (n-1 denominator), or 0 for n<2.
func (m *Moments) Variance() float64 {
	if m.N < 2 {
		return 0
	}
	return m.M2 / float64(m.N-1)
}

// PopulationVariance returns the population variance (n denominator).
func (m *Moments) PopulationVariance() float64 {
	if m.N < 1 {
		return 0
	}
	return m.M2 / float64(m.N)
}

// StdDev returns the sample standard deviation.
func (m *Moments) StdDev() float64 {
	return math.Sqrt(m.Variance())
}

// Skewness returns the sample skewness once n>=3 and M2>0, else 0.
func (m *Moments) Skewness() float64 {
	if m.N < 3 || m.M2 <= 0 {
		return 0
	}
	n := float64(m.N)
	return math.Sqrt(n) * m.M3 / math.Pow(m.M2, 1.5)
}

// Kurtosis returns the excess kurtosis once n>=4 and M2>0, else 0.
func (m *Moments) Kurtosis() float64 {
	if m.N < 4 || m.M2 <= 0 {
		return 0
	}
	n := float64(m.N)
	return n*m.M4/(m.M2*m.M2) - 3
}

// CoefficientOfVariation returns sigma/|mu|, or 0 when mu==0.
func (m *Moments) CoefficientOfVariation() float64 {
	if m.Mean == 0 {
		return 0
	}
	return m.StdDev() / math.Abs(m.Mean)
}

// Merge combines two independently-accumulated Moments via the standard
// parallel (Chan-Golub-LeVeque) formulae. Used by the merge property
// test; production chunk processing never merges.
func (m *Moments) Merge(other *Moments) *Moments {
	if m.N == 0 {
		return other.clone()
	}
	if other.N == 0 {
		return m.clone()
	}

	na, nb := float64(m.N), float64(other.N)
	n := na + nb
	delta := other.Mean - m.Mean
	delta2 := delta * delta
	delta3 := delta2 * delta
	delta4 := delta3 * delta

	mean := m.Mean + delta*nb/n
	m2 := m.M2 + other.M2 + delta2*na*nb/n
	m3 := m.M3 + other.M3 +
		delta3*na*nb*(na-nb)/(n*n) +
		3*delta*(na*other.M2-nb*m.M2)/n
	m4 := m.M4 + other.M4 +
		delta4*na*nb*(na*na-na*nb+nb*nb)/(n*n*n) +
		6*delta2*(na*na*other.M2+nb*nb*m.M2)/(n*n) +
		4*delta*(na*other.M3-nb*m.M3)/n

	out := &Moments{
		N: m.N + other.N, Mean: mean, M2: m2, M3: m3, M4: m4,
		Sum: m.Sum + other.Sum, hasMin: true,
	}
	out.Min = math.Min(m.Min, other.Min)
	out.Max = math.Max(m.Max, other.Max)
	return out
}

func (m *Moments) clone() *Moments {
	cp := *m
	return &cp
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
