package primitives

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestQuantileConvergesOnUniform(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	n := 20000
	values := make([]float64, n)
	for i := range values {
		values[i] = r.Float64() * 100
	}

	q50 := NewQuantile(0.50)
	q90 := NewQuantile(0.90)
	for _, v := range values {
		q50.Update(v)
		q90.Update(v)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	exact50 := sorted[n/2]
	exact90 := sorted[int(float64(n)*0.90)]

	if math.Abs(q50.Value()-exact50) > 2 {
		t.Errorf("p50 estimate = %v, exact = %v, diff too large", q50.Value(), exact50)
	}
	if math.Abs(q90.Value()-exact90) > 2 {
		t.Errorf("p90 estimate = %v, exact = %v, diff too large", q90.Value(), exact90)
	}
}

func TestQuantileSmallN(t *testing.T) {
	q := NewQuantile(0.5)
	for _, v := range []float64{3, 1, 2} {
		q.Update(v)
	}
	if q.Value() != 2 {
		t.Errorf("median of {3,1,2} with n<5 = %v, want 2", q.Value())
	}
}

func TestReservoirCapsAtK(t *testing.T) {
	seed := uint32(42)
	res := NewReservoir[int](10, &seed)
	for i := 0; i < 1000; i++ {
		res.Update(i)
	}
	if len(res.Items()) != 10 {
		t.Fatalf("len(Items()) = %d, want 10", len(res.Items()))
	}
}

func TestReservoirKeepsAllBelowCapacity(t *testing.T) {
	seed := uint32(1)
	res := NewReservoir[int](10, &seed)
	for i := 0; i < 5; i++ {
		res.Update(i)
	}
	if len(res.Items()) != 5 {
		t.Fatalf("len(Items()) = %d, want 5", len(res.Items()))
	}
}

func TestReservoirDeterministicWithSeed(t *testing.T) {
	seedA, seedB := uint32(99), uint32(99)
	a := NewReservoir[int](5, &seedA)
	b := NewReservoir[int](5, &seedB)
	for i := 0; i < 200; i++ {
		a.Update(i)
		b.Update(i)
	}
	itemsA, itemsB := a.Items(), b.Items()
	if len(itemsA) != len(itemsB) {
		t.Fatalf("length mismatch: %d vs %d", len(itemsA), len(itemsB))
	}
	for i := range itemsA {
		if itemsA[i] != itemsB[i] {
			t.Errorf("same seed produced different draws at index %d: %v vs %v", i, itemsA[i], itemsB[i])
		}
	}
}
