// Package markov estimates execution probabilities at the front of the
// book with small birth-death chains run over many independent Monte
// Carlo trials.
package markov

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/TrellixVulnTeam/Market-Learn-B049/pkg/sample"
)

// Rates parameterizes arrival and cancellation at the best quotes.
type Rates struct {
	Mu     float64 // market order arrival
	Lambda float64 // limit order arrival
	Theta  float64 // cancellation per resting unit
}

// DefaultRates are the reference calibration.
func DefaultRates() Rates {
	return Rates{Mu: 0.94, Lambda: 1.85, Theta: 0.71}
}

// Estimator runs independent trials of a chain and reports the
// empirical success probability. Trials are partitioned across Workers
// goroutines, each with a random stream derived from Seed, so a result
// is reproducible for a fixed (Seed, Workers) pair. Trial state is
// local and discarded, so Trials can grow without memory growth.
type Estimator struct {
	Rates   Rates
	Trials  int
	Workers int
	Seed    int64
}

// MidPriceUp estimates the probability that the mid price moves up
// before it moves down, starting from xb resting units at the best bid
// and xs at the best ask. The trial ends when either side empties;
// success means the ask side emptied first.
func (e Estimator) MidPriceUp(xb, xs int) (float64, error) {
	if xb <= 0 || xs <= 0 {
		return 0, fmt.Errorf("initial queue sizes must be positive, got xb=%d xs=%d", xb, xs)
	}
	return e.run(func(rng *rand.Rand) bool {
		return midPriceTrial(e.Rates, rng, xb, xs)
	})
}

// LimitOrderExecution estimates the probability that a resting bid with
// pos units ahead of and including it executes before the ask side
// empties. xb includes the agent's own unit.
func (e Estimator) LimitOrderExecution(xb, xs, pos int) (float64, error) {
	if xb <= 0 || xs <= 0 || pos <= 0 || pos > xb {
		return 0, fmt.Errorf("invalid trial state xb=%d xs=%d pos=%d", xb, xs, pos)
	}
	return e.run(func(rng *rand.Rand) bool {
		return limitOrderTrial(e.Rates, rng, xb, xs, pos)
	})
}

// MakingSpread estimates the probability that an agent resting one unit
// on each side of the spread has both executed before either queue
// empties from under the unexecuted one.
func (e Estimator) MakingSpread(xb, xs, bidPos, askPos int) (float64, error) {
	if xb <= 0 || xs <= 0 || bidPos <= 0 || askPos <= 0 || bidPos > xb || askPos > xs {
		return 0, fmt.Errorf("invalid trial state xb=%d xs=%d bidPos=%d askPos=%d", xb, xs, bidPos, askPos)
	}
	return e.run(func(rng *rand.Rand) bool {
		return makingSpreadTrial(e.Rates, rng, xb, xs, bidPos, askPos)
	})
}

func (e Estimator) run(trial func(*rand.Rand) bool) (float64, error) {
	if e.Trials <= 0 {
		return 0, fmt.Errorf("trial count must be positive, got %d", e.Trials)
	}
	if e.Rates.Mu <= 0 || e.Rates.Lambda <= 0 || e.Rates.Theta <= 0 {
		return 0, fmt.Errorf("rates must be positive: %+v", e.Rates)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > e.Trials {
		workers = e.Trials
	}

	var successes atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		// Spread the remainder across the first workers.
		share := e.Trials / workers
		if w < e.Trials%workers {
			share++
		}

		wg.Add(1)
		go func(worker, n int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(e.Seed + int64(worker)))
			wins := int64(0)
			for i := 0; i < n; i++ {
				if trial(rng) {
					wins++
				}
			}
			successes.Add(wins)
		}(w, share)
	}
	wg.Wait()

	return float64(successes.Load()) / float64(e.Trials), nil
}

// draw picks one outcome index proportional to weights. The weight
// vectors below always carry positive market-order mass, so a failed
// draw indicates a programming error.
func draw(rng *rand.Rand, weights []float64) int {
	idx, err := sample.Index(rng, weights)
	if err != nil {
		panic(fmt.Sprintf("markov: trial weights degenerate: %v", err))
	}
	return idx
}

func midPriceTrial(r Rates, rng *rand.Rand, xb, xs int) bool {
	for {
		weights := []float64{
			r.Lambda,                       // limit buy
			r.Lambda,                       // limit sell
			r.Mu + r.Theta*float64(xb),     // bid queue shrinks
			r.Mu + r.Theta*float64(xs),     // ask queue shrinks
		}
		switch draw(rng, weights) {
		case 0:
			xb++
		case 1:
			xs++
		case 2:
			xb--
		case 3:
			xs--
		}

		if xb == 0 {
			return false
		}
		if xs == 0 {
			return true
		}
	}
}

func limitOrderTrial(r Rates, rng *rand.Rand, xb, xs, pos int) bool {
	for {
		weights := []float64{
			r.Lambda,                     // limit buy behind the agent
			r.Lambda,                     // limit sell
			r.Mu,                         // market sell hits the bid
			r.Theta * float64(xb-1),      // cancel of a bid that is not the agent's
			r.Mu + r.Theta*float64(xs),   // ask queue shrinks
		}
		switch draw(rng, weights) {
		case 0:
			xb++
		case 1:
			xs++
		case 2:
			xb--
			if pos > 0 {
				pos--
			}
		case 3:
			// The cancelled unit sits ahead of the agent with
			// probability 1 - (xb-pos)/(xb-1).
			if denom := float64(xb - 1); denom > 0 && rng.Float64() > float64(xb-pos)/denom {
				pos--
			}
			xb--
		case 4:
			xs--
		}

		if pos == 0 {
			return true
		}
		if xs == 0 {
			return false
		}
	}
}

func makingSpreadTrial(r Rates, rng *rand.Rand, xb, xs, bidPos, askPos int) bool {
	for {
		// The agent's own units cannot cancel themselves.
		xbRate := xb - 1
		if bidPos == 0 {
			xbRate = xb
		}
		xsRate := xs - 1
		if askPos == 0 {
			xsRate = xs
		}

		weights := []float64{
			r.Lambda,
			r.Lambda,
			r.Mu,
			r.Mu,
			r.Theta * float64(xbRate),
			r.Theta * float64(xsRate),
		}
		switch draw(rng, weights) {
		case 0:
			xb++
		case 1:
			xs++
		case 2:
			xb--
			if bidPos > 0 {
				bidPos--
			}
		case 3:
			xs--
			if askPos > 0 {
				askPos--
			}
		case 4:
			if denom := float64(xbRate); denom > 0 && rng.Float64() > float64(xb-bidPos)/denom {
				bidPos--
			}
			xb--
		case 5:
			if denom := float64(xsRate); denom > 0 && rng.Float64() > float64(xs-askPos)/denom {
				askPos--
			}
			xs--
		}

		if bidPos == 0 && askPos == 0 {
			return true
		}
		if xb == 0 && askPos > 0 {
			return false
		}
		if xs == 0 && bidPos > 0 {
			return false
		}
	}
}
