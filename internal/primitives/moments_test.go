package primitives

import (
	"math"
	"testing"
)

func TestMomentsBasic(t *testing.T) {
	m := NewMoments()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		m.Update(v)
	}
	if m.N != 8 {
		t.Fatalf("N = %d, want 8", m.N)
	}
	if math.Abs(m.Mean-5) > 1e-9 {
		t.Errorf("Mean = %v, want 5", m.Mean)
	}
	if math.Abs(m.Variance()-4.571428571428571) > 1e-6 {
		t.Errorf("Variance = %v, want ~4.5714", m.Variance())
	}
	if m.Min != 2 || m.Max != 9 {
		t.Errorf("Min/Max = %v/%v, want 2/9", m.Min, m.Max)
	}
}

func TestMomentsIgnoresNonFinite(t *testing.T) {
	m := NewMoments()
	m.Update(1)
	m.Update(math.NaN())
	m.Update(math.Inf(1))
	m.Update(2)
	if m.N != 2 {
		t.Fatalf("N = %d, want 2 (non-finite updates must be no-ops)", m.N)
	}
}

func TestMomentsEmptyVariance(t *testing.T) {
	m := NewMoments()
	if v := m.Variance(); v != 0 {
		t.Errorf("Variance() on empty = %v, want 0", v)
	}
	m.Update(1)
	if v := m.Variance(); v != 0 {
		t.Errorf("Variance() on n=1 = %v, want 0", v)
	}
}

func TestMomentsMerge(t *testing.T) {
	a := NewMoments()
	b := NewMoments()
	combined := NewMoments()
	for _, v := range []float64{1, 2, 3, 4} {
		a.Update(v)
		combined.Update(v)
	}
	for _, v := range []float64{10, 20, 30} {
		b.Update(v)
		combined.Update(v)
	}
	merged := a.Merge(b)
	if merged.N != combined.N {
		t.Fatalf("merged.N = %d, want %d", merged.N, combined.N)
	}
	if math.Abs(merged.Mean-combined.Mean) > 1e-9 {
		t.Errorf("merged.Mean = %v, want %v", merged.Mean, combined.Mean)
	}
	if math.Abs(merged.Variance()-combined.Variance()) > 1e-6 {
		t.Errorf("merged.Variance = %v, want %v", merged.Variance(), combined.Variance())
	}
}
