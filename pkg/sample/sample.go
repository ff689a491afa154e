// Package sample provides the weighted random draws used by the
// simulation models. All draws take an explicit *rand.Rand so callers
// can inject a seeded source and replay a run exactly.
package sample

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoMass is returned when the weights of a categorical draw sum to
// zero, leaving the distribution undefined.
var ErrNoMass = errors.New("sample: total weight is not positive")

// Index draws one index from the categorical distribution proportional
// to weights. Weights must be non-negative and sum to a positive value.
func Index(rng *rand.Rand, weights []float64) (int, error) {
	var total float64
	for i, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("sample: negative weight %g at index %d", w, i)
		}
		total += w
	}
	if total <= 0 {
		return 0, ErrNoMass
	}

	u := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if u < cum {
			return i, nil
		}
	}
	// Float round-off can leave u at the upper edge; the last positive
	// weight takes it.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}
	return 0, ErrNoMass
}

// Uniform draws an integer uniformly from 1..n. n must be positive.
func Uniform(rng *rand.Rand, n int) int {
	return rng.Intn(n) + 1
}
