package sample

import (
	"errors"
	"math/rand"
	"testing"
)

func TestIndexConcentratedMass(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	weights := []float64{0, 0, 3.5, 0}

	for i := 0; i < 100; i++ {
		idx, err := Index(rng, weights)
		if err != nil {
			t.Fatalf("Index failed: %v", err)
		}
		if idx != 2 {
			t.Fatalf("Index = %d, want 2", idx)
		}
	}
}

func TestIndexZeroMass(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Index(rng, []float64{0, 0, 0})
	if !errors.Is(err, ErrNoMass) {
		t.Errorf("Index on zero weights = %v, want ErrNoMass", err)
	}

	_, err = Index(rng, nil)
	if !errors.Is(err, ErrNoMass) {
		t.Errorf("Index on empty weights = %v, want ErrNoMass", err)
	}
}

func TestIndexNegativeWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Index(rng, []float64{1, -0.5})
	if err == nil {
		t.Error("Index should reject negative weights")
	}
}

func TestIndexDeterministic(t *testing.T) {
	weights := []float64{1, 2, 3, 4}

	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		ia, err := Index(a, weights)
		if err != nil {
			t.Fatalf("Index failed: %v", err)
		}
		ib, _ := Index(b, weights)
		if ia != ib {
			t.Fatalf("draw %d diverged: %d vs %d", i, ia, ib)
		}
	}
}

func TestIndexRespectsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := []float64{1, 9}

	counts := [2]int{}
	n := 100000
	for i := 0; i < n; i++ {
		idx, err := Index(rng, weights)
		if err != nil {
			t.Fatalf("Index failed: %v", err)
		}
		counts[idx]++
	}

	frac := float64(counts[1]) / float64(n)
	if frac < 0.88 || frac > 0.92 {
		t.Errorf("heavy index frequency = %g, want ~0.9", frac)
	}
}

func TestUniformRange(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := Uniform(rng, 6)
		if v < 1 || v > 6 {
			t.Fatalf("Uniform(6) = %d, out of range", v)
		}
		seen[v] = true
	}
	if len(seen) != 6 {
		t.Errorf("Uniform(6) covered %d values over 1000 draws, want 6", len(seen))
	}
}
