package kernels

import (
	"math"
	"testing"
)

func TestCorrelationSignificanceStrongVsWeak(t *testing.T) {
	strong := CorrelationSignificance(0.9, 100)
	weak := CorrelationSignificance(0.02, 100)
	if strong.PValue >= weak.PValue {
		t.Errorf("strong correlation p-value (%v) should be smaller than weak (%v)", strong.PValue, weak.PValue)
	}
	if strong.PValue >= 0.05 {
		t.Errorf("r=0.9 n=100 should be significant, got p=%v", strong.PValue)
	}
}

func TestCorrelationSignificanceSmallN(t *testing.T) {
	r := CorrelationSignificance(0.9, 2)
	if r.PValue < 0 || r.PValue > 1 {
		t.Errorf("p-value out of range: %v", r.PValue)
	}
}

func TestChiSquareIndependentTable(t *testing.T) {
	// A perfectly proportional table implies independence: chi-square
	// statistic should be ~0.
	observed := [][]float64{
		{10, 20},
		{10, 20},
	}
	result := ChiSquare(observed)
	if result.Statistic > 1e-6 {
		t.Errorf("Statistic = %v, want ~0 for a proportional table", result.Statistic)
	}
	if result.CramerV > 1e-6 {
		t.Errorf("CramerV = %v, want ~0", result.CramerV)
	}
}

func TestChiSquareAssociatedTable(t *testing.T) {
	observed := [][]float64{
		{50, 5},
		{5, 50},
	}
	result := ChiSquare(observed)
	if result.PValue >= 0.05 {
		t.Errorf("expected a significant association, got p=%v", result.PValue)
	}
	if result.CramerV <= 0.5 {
		t.Errorf("expected a strong CramerV, got %v", result.CramerV)
	}
}

func TestANOVADetectsGroupDifference(t *testing.T) {
	groups := []ANOVAGroup{
		{N: 30, Mean: 10, Variance: 2},
		{N: 30, Mean: 10.1, Variance: 2},
		{N: 30, Mean: 50, Variance: 2},
	}
	result := ANOVA(groups)
	if result.PValue >= 0.05 {
		t.Errorf("expected significant ANOVA result given a clearly divergent group mean, got p=%v", result.PValue)
	}
}

func TestKruskalWallisDetectsGroupDifference(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3, 2, 1},
		{1, 2, 2, 3, 1},
		{20, 21, 22, 23, 24},
	}
	result := KruskalWallis(groups)
	if result.PValue >= 0.05 {
		t.Errorf("expected significant Kruskal-Wallis result, got p=%v", result.PValue)
	}
}

func TestShapiroWilkStatisticNotNaN(t *testing.T) {
	normal := []float64{}
	for i := -20; i <= 20; i++ {
		normal = append(normal, float64(i))
	}
	result := ShapiroWilk(normal)
	if math.IsNaN(result.Statistic) {
		t.Fatalf("Statistic is NaN")
	}
}

func TestJarqueBeraZeroForPerfectNormal(t *testing.T) {
	result := JarqueBera(1000, 0, 0)
	if result.Statistic != 0 {
		t.Errorf("Statistic = %v, want 0 for zero skew/kurtosis", result.Statistic)
	}
	if result.PValue < 0.9 {
		t.Errorf("PValue = %v, want close to 1 for a perfectly normal sample", result.PValue)
	}
}

func TestKolmogorovSmirnovRange(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	result := KolmogorovSmirnov(x, 5.5, 2.87)
	if result.Statistic < 0 || result.Statistic > 1 {
		t.Errorf("KS statistic out of [0,1] range: %v", result.Statistic)
	}
}
