package kernels

import "sort"

// KruskalWallis runs the rank-sum H test over per-group samples (the
// bivariate NC analyzer's bounded per-category reservoirs). Tied values get
// their average rank, and H is divided by the standard tie correction
// factor 1 - sum(t^3 - t)/(n^3 - n).
func KruskalWallis(groups [][]float64) Result {
	k := 0
	total := 0
	for _, g := range groups {
		if len(g) > 0 {
			k++
			total += len(g)
		}
	}
	if k < 2 || total < 3 {
		return Result{PValue: 1, Interpretation: "insufficient groups"}
	}

	type item struct {
		val float64
		grp int
	}
	all := make([]item, 0, total)
	for gi, g := range groups {
		for _, v := range g {
			all = append(all, item{val: v, grp: gi})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].val < all[j].val })

	ranks := make([]float64, len(all))
	i := 0
	var tieCorrection float64
	n := float64(len(all))
	for i < len(all) {
		j := i
		for j < len(all) && all[j].val == all[i].val {
			j++
		}
		avgRank := float64(i+1+j) / 2.0
		for x := i; x < j; x++ {
			ranks[x] = avgRank
		}
		t := float64(j - i)
		if t > 1 {
			tieCorrection += t*t*t - t
		}
		i = j
	}

	rankSums := make([]float64, len(groups))
	counts := make([]int, len(groups))
	for idx, it := range all {
		rankSums[it.grp] += ranks[idx]
		counts[it.grp]++
	}

	var h float64
	for gi := range groups {
		if counts[gi] == 0 {
			continue
		}
		h += rankSums[gi] * rankSums[gi] / float64(counts[gi])
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	if tieCorrection > 0 && n > 1 {
		correction := 1 - tieCorrection/(n*n*n-n)
		if correction > 0 {
			h /= correction
		}
	}

	df := k - 1
	p := chiSquarePValue(h, df)
	interp := "no significant difference between groups"
	if p <= 0.05 {
		interp = "significant difference between groups"
	}
	return Result{Statistic: h, PValue: p, Interpretation: interp}
}
