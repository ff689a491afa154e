// Package sim contains the agent based order-flow models and the
// drivers that average book shape over long event runs.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/book"
)

// EventKind enumerates the six order-flow actions a model can emit.
// The values double as indices into the models' weight vectors.
type EventKind int

const (
	MarketBuy EventKind = iota
	MarketSell
	LimitBuy
	LimitSell
	CancelBuy
	CancelSell

	numEventKinds
)

func (k EventKind) String() string {
	switch k {
	case MarketBuy:
		return "market_buy"
	case MarketSell:
		return "market_sell"
	case LimitBuy:
		return "limit_buy"
	case LimitSell:
		return "limit_sell"
	case CancelBuy:
		return "cancel_buy"
	case CancelSell:
		return "cancel_sell"
	}
	return fmt.Sprintf("event_kind(%d)", int(k))
}

// Event is one generated order-flow action, applied immediately and
// discarded. Price is meaningful only when HasPrice is set; cancels
// without a price carry the cancelable unit pool instead and pick a
// tick at apply time.
type Event struct {
	Kind       EventKind
	Price      int
	HasPrice   bool
	Cancelable int
}

// handler applies one event kind against the book. All orders move a
// single unit.
type handler func(*book.Book, *rand.Rand, Event) error

var handlers = map[EventKind]handler{
	MarketBuy: func(b *book.Book, _ *rand.Rand, _ Event) error {
		return b.MarketBuy(1)
	},
	MarketSell: func(b *book.Book, _ *rand.Rand, _ Event) error {
		return b.MarketSell(1)
	},
	LimitBuy: func(b *book.Book, _ *rand.Rand, ev Event) error {
		return b.LimitBuy(ev.Price, 1)
	},
	LimitSell: func(b *book.Book, _ *rand.Rand, ev Event) error {
		return b.LimitSell(ev.Price, 1)
	},
	CancelBuy: func(b *book.Book, rng *rand.Rand, ev Event) error {
		if ev.HasPrice {
			return b.CancelBuy(ev.Price, 1)
		}
		return b.CancelBuyRandom(rng, ev.Cancelable, 1)
	},
	CancelSell: func(b *book.Book, rng *rand.Rand, ev Event) error {
		if ev.HasPrice {
			return b.CancelSell(ev.Price, 1)
		}
		return b.CancelSellRandom(rng, ev.Cancelable, 1)
	},
}

// Apply executes one event against the book.
func Apply(b *book.Book, rng *rand.Rand, ev Event) error {
	h, ok := handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}
	return h(b, rng, ev)
}

// Model draws one order-flow event for the current book state.
// Models are memoryless between events.
type Model interface {
	// Next generates the next event. It does not mutate the book.
	Next(b *book.Book, rng *rand.Rand) (Event, error)

	// Window returns the tick distance from the opposite best quote
	// within which limit and cancel events occur.
	Window() int
}

// DegenerateRateError reports a configuration whose event-class rates
// sum to zero, so no event can be drawn. Drivers treat it as a
// legitimate edge state and skip the event rather than abort.
type DegenerateRateError struct {
	Model string
}

func (e *DegenerateRateError) Error() string {
	return e.Model + ": cumulative event rate is zero"
}
