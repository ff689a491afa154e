package sim

import (
	"errors"
	"math/rand"

	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/book"
	"github.com/TrellixVulnTeam/Market-Learn-B049/pkg/sample"
)

// SFGK is the zero-intelligence model of Smith, Farmer, Gillemot and
// Krishnamurthy: market orders arrive at rate Mu split evenly between
// sides, limit orders at rate Lambda per tick within L ticks of the
// opposite best quote, and each resting unit inside that window is
// cancelled at rate Theta.
type SFGK struct {
	Mu     float64
	Lambda float64
	Theta  float64
	L      int
}

// Window returns the limit/cancel tick window.
func (m SFGK) Window() int { return m.L }

// Next draws one event. Event-class probabilities are proportional to
// {0.5Mu, 0.5Mu, L*Lambda, L*Lambda, netBuys*Theta, netSells*Theta};
// the limit tick is then uniform in the window and the cancel tick is
// weighted by resting quantity at apply time.
func (m SFGK) Next(b *book.Book, rng *rand.Rand) (Event, error) {
	ask, err := b.BestAsk()
	if err != nil {
		return Event{}, err
	}
	bid, err := b.BestBid()
	if err != nil {
		return Event{}, err
	}

	netBuys := b.BidDepthFrom(ask - m.L)
	netSells := b.AskDepthTo(bid + m.L)

	weights := []float64{
		0.5 * m.Mu,
		0.5 * m.Mu,
		float64(m.L) * m.Lambda,
		float64(m.L) * m.Lambda,
		float64(netBuys) * m.Theta,
		float64(netSells) * m.Theta,
	}
	idx, err := sample.Index(rng, weights)
	if err != nil {
		if errors.Is(err, sample.ErrNoMass) {
			return Event{}, &DegenerateRateError{Model: "sfgk"}
		}
		return Event{}, err
	}

	switch kind := EventKind(idx); kind {
	case MarketBuy, MarketSell:
		return Event{Kind: kind}, nil
	case LimitBuy:
		d := sample.Uniform(rng, m.L)
		return Event{Kind: LimitBuy, Price: ask - d, HasPrice: true}, nil
	case LimitSell:
		d := sample.Uniform(rng, m.L)
		return Event{Kind: LimitSell, Price: bid + d, HasPrice: true}, nil
	case CancelBuy:
		return Event{Kind: CancelBuy, Cancelable: netBuys}, nil
	default:
		return Event{Kind: CancelSell, Cancelable: netSells}, nil
	}
}
