package markov

import (
	"math"
	"testing"
)

func TestMidPriceUpSymmetric(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long Monte Carlo run")
	}

	e := Estimator{
		Rates:   DefaultRates(),
		Trials:  100000,
		Workers: 4,
		Seed:    7,
	}

	p, err := e.MidPriceUp(5, 5)
	if err != nil {
		t.Fatalf("MidPriceUp failed: %v", err)
	}
	if math.Abs(p-0.5) > 0.01 {
		t.Errorf("symmetric MidPriceUp = %g, want 0.5 +- 0.01", p)
	}
}

func TestMidPriceUpAsymmetric(t *testing.T) {
	e := Estimator{
		Rates:   DefaultRates(),
		Trials:  20000,
		Workers: 4,
		Seed:    7,
	}

	// A deep bid queue against a thin ask queue: the ask side should
	// empty first far more often than not.
	p, err := e.MidPriceUp(10, 1)
	if err != nil {
		t.Fatalf("MidPriceUp failed: %v", err)
	}
	if p <= 0.5 {
		t.Errorf("MidPriceUp(10, 1) = %g, want > 0.5", p)
	}
}

func TestMidPriceUpDeterministic(t *testing.T) {
	e := Estimator{
		Rates:   DefaultRates(),
		Trials:  5000,
		Workers: 3,
		Seed:    21,
	}

	a, err := e.MidPriceUp(5, 5)
	if err != nil {
		t.Fatalf("MidPriceUp failed: %v", err)
	}
	b, err := e.MidPriceUp(5, 5)
	if err != nil {
		t.Fatalf("MidPriceUp failed: %v", err)
	}
	if a != b {
		t.Errorf("repeated runs diverged: %g vs %g", a, b)
	}
}

func TestLimitOrderExecutionQueuePosition(t *testing.T) {
	e := Estimator{
		Rates:   DefaultRates(),
		Trials:  20000,
		Workers: 4,
		Seed:    13,
	}

	front, err := e.LimitOrderExecution(5, 5, 1)
	if err != nil {
		t.Fatalf("LimitOrderExecution failed: %v", err)
	}
	back, err := e.LimitOrderExecution(5, 5, 5)
	if err != nil {
		t.Fatalf("LimitOrderExecution failed: %v", err)
	}

	for _, p := range []float64{front, back} {
		if p < 0 || p > 1 {
			t.Fatalf("probability %g outside [0, 1]", p)
		}
	}
	if front <= back {
		t.Errorf("front of queue (%g) should execute more often than back (%g)", front, back)
	}
}

func TestMakingSpreadRange(t *testing.T) {
	e := Estimator{
		Rates:   DefaultRates(),
		Trials:  20000,
		Workers: 4,
		Seed:    17,
	}

	p, err := e.MakingSpread(5, 5, 5, 5)
	if err != nil {
		t.Fatalf("MakingSpread failed: %v", err)
	}
	if p <= 0 || p >= 1 {
		t.Errorf("MakingSpread = %g, want inside (0, 1)", p)
	}
}

func TestEstimatorValidation(t *testing.T) {
	e := Estimator{Rates: DefaultRates(), Trials: 100, Seed: 1}

	cases := []struct {
		name string
		run  func() (float64, error)
	}{
		{"zero trials", func() (float64, error) {
			bad := e
			bad.Trials = 0
			return bad.MidPriceUp(5, 5)
		}},
		{"zero rates", func() (float64, error) {
			bad := e
			bad.Rates = Rates{}
			return bad.MidPriceUp(5, 5)
		}},
		{"empty queue", func() (float64, error) {
			return e.MidPriceUp(0, 5)
		}},
		{"position beyond queue", func() (float64, error) {
			return e.LimitOrderExecution(5, 5, 6)
		}},
		{"spread position beyond queue", func() (float64, error) {
			return e.MakingSpread(5, 5, 6, 5)
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := c.run(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
