package bivariate

import (
	"fmt"
	"sort"

	"mcs-mcp/internal/kernels"
	"mcs-mcp/internal/primitives"
)

const ncReservoirCap = 30

// ncSketch is the numeric-categorical pair sketch: a per-category moments
// accumulator, plus a parallel per-category bounded reservoir used only by
// the nonparametric (Kruskal-Wallis) test.
type ncSketch struct {
	groups     map[string]*primitives.Moments
	reservoirs map[string]*primitives.Reservoir[float64]
}

func newNCSketch() *ncSketch {
	return &ncSketch{
		groups:     make(map[string]*primitives.Moments),
		reservoirs: make(map[string]*primitives.Reservoir[float64]),
	}
}

func (s *ncSketch) update(category string, x float64) {
	m, ok := s.groups[category]
	if !ok {
		m = primitives.NewMoments()
		s.groups[category] = m
		seed := uint32(42)
		s.reservoirs[category] = primitives.NewReservoir[float64](ncReservoirCap, &seed)
	}
	m.Update(x)
	s.reservoirs[category].Update(x)
}

// GroupStat is one category's approximate descriptive statistics.
type GroupStat struct {
	Category string
	Count    int64
	Mean     float64
	Median   float64
	Std      float64
	Q1, Q3   float64
}

// NCEntry is one numeric-categorical pair's finalized statistics.
type NCEntry struct {
	NumericColumn     string
	CategoricalColumn string
	Groups            []GroupStat
	ANOVA             kernels.Result
	KruskalWallis     kernels.Result
	Summary           string
}

func (s *ncSketch) finalize(numName, catName string) NCEntry {
	keys := make([]string, 0, len(s.groups))
	for k := range s.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]GroupStat, 0, len(keys))
	anovaGroups := make([]kernels.ANOVAGroup, 0, len(keys))
	krGroups := make([][]float64, 0, len(keys))

	var highest, lowest *GroupStat
	for _, k := range keys {
		m := s.groups[k]
		std := m.StdDev()
		gs := GroupStat{
			Category: k, Count: int64(m.N),
			Mean: m.Mean, Median: medianFromSortedMean(m.Mean), Std: std,
			Q1: m.Mean - 0.675*std, Q3: m.Mean + 0.675*std,
		}
		groups = append(groups, gs)
		anovaGroups = append(anovaGroups, kernels.ANOVAGroup{N: int(m.N), Mean: m.Mean, Variance: m.Variance()})
		krGroups = append(krGroups, s.reservoirs[k].Items())
	}
	for i := range groups {
		if highest == nil || groups[i].Mean > highest.Mean {
			highest = &groups[i]
		}
		if lowest == nil || groups[i].Mean < lowest.Mean {
			lowest = &groups[i]
		}
	}

	summary := "insufficient groups for comparison"
	if highest != nil && lowest != nil && highest.Category != lowest.Category {
		summary = fmt.Sprintf("%q has the highest mean %s (%.3f), %q the lowest (%.3f)",
			highest.Category, numName, highest.Mean, lowest.Category, lowest.Mean)
	}

	return NCEntry{
		NumericColumn: numName, CategoricalColumn: catName,
		Groups:        groups,
		ANOVA:         kernels.ANOVA(anovaGroups),
		KruskalWallis: kernels.KruskalWallis(krGroups),
		Summary:       summary,
	}
}

// NCReport is the numeric-categorical bucket of the bivariate report.
type NCReport struct {
	Pairs []NCEntry
}
