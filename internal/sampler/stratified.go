package sampler

import "mcs-mcp/pkg/rowsource"

// stratifiedStrategy allocates each stratum a reservoir sized
// proportionally to its observed share of the population (floor 1),
// seeded with a deterministic per-stratum offset so two runs over the
// same stream draw identical samples.
type stratifiedStrategy struct {
	target      int64
	baseSeed    uint32
	strataSizes map[string]int64
	totalN      int64

	reservoirs map[string]*randomStrategy
	order      []string
}

func newStratifiedStrategy(target int64, seed uint32, strataSizes map[string]int64, totalN int64) *stratifiedStrategy {
	return &stratifiedStrategy{
		target: target, baseSeed: seed,
		strataSizes: strataSizes, totalN: totalN,
		reservoirs: make(map[string]*randomStrategy),
	}
}

func (s *stratifiedStrategy) capFor(stratum string) int64 {
	if s.strataSizes == nil || s.totalN <= 0 {
		n := int64(len(s.strataSizes))
		if n == 0 {
			n = 1
		}
		share := s.target / n
		if share < 1 {
			share = 1
		}
		return share
	}
	size := s.strataSizes[stratum]
	share := int64(float64(s.target) * float64(size) / float64(s.totalN))
	if share < 1 {
		share = 1
	}
	return share
}

func (s *stratifiedStrategy) offer(row rowsource.ParsedRow, stratum string) {
	r, ok := s.reservoirs[stratum]
	if !ok {
		// Offset the seed deterministically per stratum so distinct
		// strata do not draw identical reservoir sequences.
		offset := uint32(0)
		for _, c := range stratum {
			offset = offset*31 + uint32(c)
		}
		r = newRandomStrategy(s.capFor(stratum), s.baseSeed+offset)
		s.reservoirs[stratum] = r
		s.order = append(s.order, stratum)
	}
	r.offer(row, "")
}

func (s *stratifiedStrategy) sample() []rowsource.ParsedRow {
	var out []rowsource.ParsedRow
	for _, stratum := range s.order {
		out = append(out, s.reservoirs[stratum].sample()...)
	}
	return out
}

// balanceScore measures how close the observed per-stratum counts are to
// their expected proportional share, normalized by the expected count and
// clamped to [0,1] (1 = perfectly balanced, 0 = maximally skewed).
func (s *stratifiedStrategy) balanceScore(totalN, target int64) float64 {
	if len(s.order) == 0 || totalN <= 0 {
		return 0
	}
	var totalDeviation float64
	for _, stratum := range s.order {
		observed := float64(len(s.reservoirs[stratum].items))
		expected := float64(s.capFor(stratum))
		if expected <= 0 {
			continue
		}
		diff := observed - expected
		if diff < 0 {
			diff = -diff
		}
		totalDeviation += diff / expected
	}
	score := 1 - totalDeviation/float64(len(s.order))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
