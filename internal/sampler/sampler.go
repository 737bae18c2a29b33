// Package sampler implements the smart sampler: a decision on whether to
// subsample an incoming row stream at all, a target-size resolution, and
// four interchangeable sampling strategies (random, stratified,
// systematic, head).
package sampler

import (
	"math"
	"math/rand"

	"mcs-mcp/pkg/rowsource"
)

const (
	minAutoTarget = 10_000
	maxAutoTarget = 1_000_000
	headCap       = 100_000
	giB           = 1 << 30
)

// Method is the closed variant of sampling strategies.
type Method int

const (
	MethodNone Method = iota
	MethodRandom
	MethodStratified
	MethodSystematic
	MethodHead
)

func (m Method) String() string {
	switch m {
	case MethodRandom:
		return "random"
	case MethodStratified:
		return "stratified"
	case MethodSystematic:
		return "systematic"
	case MethodHead:
		return "head"
	default:
		return "none"
	}
}

// Config carries the user-facing sampling knobs; only one of the explicit
// size fields is normally set, resolved by priority in ResolveTargetSize.
type Config struct {
	AutoSample      bool
	SamplePercent   *float64
	SampleRowCount  *int64
	SampleByteCount *int64
	Method          Method
	StratifyColumn  string
	FileSizeBytes   int64
	AvgBytesPerRow  float64
	Seed            *uint32

	// StrataSizes gives each stratum's observed row count from the
	// pass-1 prefix scan, used to compute proportional per-stratum
	// targets for MethodStratified. Nil when unavailable, in which case
	// strata are allocated an equal share of the target.
	StrataSizes map[string]int64
}

// Enabled reports whether sampling should run at all: auto-sample is on
// and the file exceeds 1 GiB, or any explicit sizing/method knob is set.
func (c Config) Enabled() bool {
	if c.AutoSample && c.FileSizeBytes > giB {
		return true
	}
	return c.SamplePercent != nil || c.SampleRowCount != nil ||
		c.SampleByteCount != nil || c.Method != MethodNone
}

// ResolveTargetSize picks the sample's target row count by the spec's
// fixed priority: explicit row count, explicit percentage (needs an
// estimated population size), explicit byte count / average bytes per
// row, the auto default, or a flat 10% capped at 100,000.
func (c Config) ResolveTargetSize(estimatedRows int64) int64 {
	switch {
	case c.SampleRowCount != nil:
		return *c.SampleRowCount
	case c.SamplePercent != nil && estimatedRows > 0:
		return int64(float64(estimatedRows) * (*c.SamplePercent) / 100.0)
	case c.SampleByteCount != nil && c.AvgBytesPerRow > 0:
		return int64(float64(*c.SampleByteCount) / c.AvgBytesPerRow)
	case c.AutoSample:
		pct := 0.10
		if c.FileSizeBytes > 10*giB {
			pct = 0.05
		}
		target := int64(float64(estimatedRows) * pct)
		if target < minAutoTarget {
			target = minAutoTarget
		}
		if target > maxAutoTarget {
			target = maxAutoTarget
		}
		return target
	default:
		target := int64(float64(estimatedRows) * 0.10)
		if target > headCap {
			target = headCap
		}
		return target
	}
}

// strategy is the common capability every sampling strategy implements:
// offer one row and hand back the finalized sample.
type strategy interface {
	offer(row rowsource.ParsedRow, stratumKey string)
	sample() []rowsource.ParsedRow
}

// Sampler wraps a chosen strategy plus the bookkeeping needed for the
// quality metrics reported alongside the sample.
type Sampler struct {
	method       Method
	target       int64
	estimatedN   int64
	strategyImpl strategy
	seen         int64
}

// New constructs a Sampler for the resolved method and target size.
// estimatedN is the population size used for convergence/balance scoring
// (0 when unknown, in which case convergence/balance degrade to 0).
func New(cfg Config, target, estimatedN int64) *Sampler {
	s := &Sampler{method: cfg.Method, target: target, estimatedN: estimatedN}
	if s.method == MethodNone {
		s.method = MethodRandom
	}

	seed := uint32(42)
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	switch s.method {
	case MethodStratified:
		s.strategyImpl = newStratifiedStrategy(target, seed, cfg.StrataSizes, estimatedN)
	case MethodSystematic:
		step := int64(1)
		if target > 0 && estimatedN > target {
			step = estimatedN / target
		}
		var offset int64
		if cfg.Seed != nil {
			offset = int64(seed) % step
		} else {
			offset = rand.Int63n(step)
		}
		s.strategyImpl = newSystematicStrategy(step, offset)
	case MethodHead:
		s.strategyImpl = newHeadStrategy(target)
	default:
		s.strategyImpl = newRandomStrategy(target, seed)
	}
	return s
}

// Offer feeds one row through the sampler. stratumKey is ignored by all
// strategies except stratified.
func (s *Sampler) Offer(row rowsource.ParsedRow, stratumKey string) {
	s.seen++
	s.strategyImpl.offer(row, stratumKey)
}

// Sample returns the finalized sampled rows.
func (s *Sampler) Sample() []rowsource.ParsedRow {
	return s.strategyImpl.sample()
}

// QualityMetrics is the finalized sample-quality report.
type QualityMetrics struct {
	RepresentativeScore float64
	ConvergenceScore    float64
	BalanceScore        float64
}

// Metrics computes the quality scores for the sample actually drawn.
func (s *Sampler) Metrics(sampleSize int64) QualityMetrics {
	var q QualityMetrics
	if s.target > 0 {
		q.RepresentativeScore = minF(1, float64(sampleSize)/float64(s.target))
	}
	if s.estimatedN > 0 {
		q.ConvergenceScore = minF(1, math.Sqrt(10*float64(sampleSize)/float64(s.estimatedN)))
	}
	if st, ok := s.strategyImpl.(*stratifiedStrategy); ok {
		q.BalanceScore = st.balanceScore(s.estimatedN, s.target)
	}
	return q
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
