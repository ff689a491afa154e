// Package fit estimates power-law decay coefficients from an averaged
// book shape. The simulator treats the fit as an opaque collaborator:
// it hands over (distance, quantity) pairs and consumes two scalars.
package fit

import (
	"fmt"
	"math"
)

// PowerLaw holds the coefficients of q(i) = K * i^(-Alpha).
type PowerLaw struct {
	K     float64
	Alpha float64
}

// Eval returns the model value at the given distance.
func (p PowerLaw) Eval(distance float64) float64 {
	return p.K * math.Pow(distance, -p.Alpha)
}

// Decay fits quantities observed at distances 1..len(qty) by least
// squares in log-log space. Non-positive quantities cannot be fit.
func Decay(qty []float64) (PowerLaw, error) {
	if len(qty) < 2 {
		return PowerLaw{}, fmt.Errorf("fit: need at least 2 points, got %d", len(qty))
	}

	n := float64(len(qty))
	var sx, sy, sxx, sxy float64
	for i, q := range qty {
		if q <= 0 {
			return PowerLaw{}, fmt.Errorf("fit: non-positive quantity %g at distance %d", q, i+1)
		}
		x := math.Log(float64(i + 1))
		y := math.Log(q)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}

	denom := n*sxx - sx*sx
	if denom == 0 {
		return PowerLaw{}, fmt.Errorf("fit: degenerate distance spacing")
	}

	// ln q = ln K - Alpha * ln i
	slope := (n*sxy - sx*sy) / denom
	intercept := (sy - slope*sx) / n

	return PowerLaw{K: math.Exp(intercept), Alpha: -slope}, nil
}
