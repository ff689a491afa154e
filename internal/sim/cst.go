package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/book"
	"github.com/TrellixVulnTeam/Market-Learn-B049/pkg/sample"
)

// CST is the Cont-Stoikov-Talreja model. It generalizes SFGK with one
// limit arrival rate and one cancellation rate per tick distance from
// the opposite best quote. Lambdas[i] and Thetas[i] are the rates at
// distance i+1; both vectors must have the same length, which defines
// the window.
type CST struct {
	Mu      float64
	Lambdas []float64
	Thetas  []float64
}

// Window returns the limit/cancel tick window.
func (m CST) Window() int { return len(m.Lambdas) }

// Validate checks the rate vectors agree in length.
func (m CST) Validate() error {
	if len(m.Lambdas) == 0 {
		return fmt.Errorf("cst: empty lambda vector")
	}
	if len(m.Lambdas) != len(m.Thetas) {
		return fmt.Errorf("cst: lambda vector length %d does not match theta vector length %d",
			len(m.Lambdas), len(m.Thetas))
	}
	return nil
}

// Next draws one event. Event-class probabilities are proportional to
// {Mu, Mu, sum(Lambdas), sum(Lambdas), Thetas.cb, Thetas.cs} where cb
// and cs are the per-distance resting quantities from the opposite best
// quote. Limit distances are drawn proportional to Lambdas, cancel
// distances proportional to the elementwise product of Thetas and the
// resting quantity.
func (m CST) Next(b *book.Book, rng *rand.Rand) (Event, error) {
	if err := m.Validate(); err != nil {
		return Event{}, err
	}

	ask, err := b.BestAsk()
	if err != nil {
		return Event{}, err
	}
	bid, err := b.BestBid()
	if err != nil {
		return Event{}, err
	}

	L := m.Window()
	cb := b.BidByDistance(ask, L)
	cs := b.AskByDistance(bid, L)

	var cumLam float64
	for _, l := range m.Lambdas {
		cumLam += l
	}
	cbRate := dotInt(m.Thetas, cb)
	csRate := dotInt(m.Thetas, cs)

	weights := []float64{m.Mu, m.Mu, cumLam, cumLam, cbRate, csRate}
	idx, err := sample.Index(rng, weights)
	if err != nil {
		if errors.Is(err, sample.ErrNoMass) {
			return Event{}, &DegenerateRateError{Model: "cst"}
		}
		return Event{}, err
	}

	switch kind := EventKind(idx); kind {
	case MarketBuy, MarketSell:
		return Event{Kind: kind}, nil
	case LimitBuy:
		d, err := sample.Index(rng, m.Lambdas)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: LimitBuy, Price: ask - (d + 1), HasPrice: true}, nil
	case LimitSell:
		d, err := sample.Index(rng, m.Lambdas)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: LimitSell, Price: bid + (d + 1), HasPrice: true}, nil
	case CancelBuy:
		d, err := sample.Index(rng, mulInt(m.Thetas, cb))
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: CancelBuy, Price: ask - (d + 1), HasPrice: true}, nil
	default:
		d, err := sample.Index(rng, mulInt(m.Thetas, cs))
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: CancelSell, Price: bid + (d + 1), HasPrice: true}, nil
	}
}

func dotInt(a []float64, b []int) float64 {
	var total float64
	for i := range a {
		total += a[i] * float64(b[i])
	}
	return total
}

func mulInt(a []float64, b []int) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * float64(b[i])
	}
	return out
}
