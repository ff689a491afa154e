// Package book implements an array-indexed limit order book for
// zero-intelligence market simulations. Two agent based event models
// drive it:
//
//   - the SFGK model (Smith, Farmer, Gillemot, Krishnamurthy),
//     a single arrival rate per event class
//   - the Cont-Stoikov-Talreja model, per-tick-distance rate vectors
//
// Orders always have size 1 unless a caller asks otherwise.
package book

import (
	"fmt"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

const (
	// DefaultLevels is the number of ticks on each side of zero.
	DefaultLevels = 1000
	// DefaultDepth is the resting quantity at ticks far from the touch.
	DefaultDepth = 5
)

// taper is the resting-quantity profile for the 8 ticks nearest the
// touch, indexed by distance-1 from price zero.
var taper = [8]int{1, 2, 2, 3, 3, 4, 4, 5}

// Book is a fixed ladder of 2*levels+1 integer ticks priced -levels..+levels,
// each holding a non-negative resting bid and ask quantity. The arrays are
// authoritative; a red-black tree per side indexes the occupied ticks so
// best-quote lookups avoid a full scan. A Book is exclusively owned by one
// simulation goroutine and is not safe for concurrent use.
type Book struct {
	levels  int
	depth   int
	bidSize []int
	askSize []int
	bids    *rbt.Tree[int, int] // occupied bid ticks -> quantity
	asks    *rbt.Tree[int, int]
}

// New creates a book with the default ladder configuration.
func New() *Book {
	return NewWithConfig(DefaultLevels, DefaultDepth)
}

// NewWithConfig creates a book with the given half-width and far depth,
// seeded with the canonical starting state: constant depth beyond 8 ticks
// from zero, the taper profile within, and both sides empty across the
// spread (bid side zero at and above 0, ask side zero at and below 0).
func NewWithConfig(levels, depth int) *Book {
	b := &Book{
		levels:  levels,
		depth:   depth,
		bidSize: make([]int, 2*levels+1),
		askSize: make([]int, 2*levels+1),
		bids:    rbt.New[int, int](),
		asks:    rbt.New[int, int](),
	}

	for p := -levels; p <= levels; p++ {
		switch {
		case p <= -9:
			b.setSize(Bid, p, depth)
		case p <= -1:
			b.setSize(Bid, p, taper[-p-1])
		}
		switch {
		case p >= 9:
			b.setSize(Ask, p, depth)
		case p >= 1:
			b.setSize(Ask, p, taper[p-1])
		}
	}
	return b
}

// Levels returns the ladder half-width in ticks.
func (b *Book) Levels() int { return b.levels }

// Depth returns the configured far-from-touch resting quantity.
func (b *Book) Depth() int { return b.depth }

// TickIndex maps a price to its array index.
func (b *Book) TickIndex(price int) (int, error) {
	if price < -b.levels || price > b.levels {
		return 0, &InvalidPriceError{Price: price, Levels: b.levels}
	}
	return price + b.levels, nil
}

// SizeAt returns the resting quantity at a price on one side.
func (b *Book) SizeAt(side Side, price int) (int, error) {
	idx, err := b.TickIndex(price)
	if err != nil {
		return 0, err
	}
	return b.sizes(side)[idx], nil
}

// BestBid returns the highest tick with resting buy quantity.
func (b *Book) BestBid() (int, error) {
	if b.bids.Empty() {
		return 0, &EmptyBookError{Side: Bid}
	}
	return b.bids.Right().Key, nil
}

// BestAsk returns the lowest tick with resting sell quantity.
func (b *Book) BestAsk() (int, error) {
	if b.asks.Empty() {
		return 0, &EmptyBookError{Side: Ask}
	}
	return b.asks.Left().Key, nil
}

// Spread returns best ask minus best bid.
func (b *Book) Spread() (int, error) {
	ask, err := b.BestAsk()
	if err != nil {
		return 0, err
	}
	bid, err := b.BestBid()
	if err != nil {
		return 0, err
	}
	return ask - bid, nil
}

// Mid returns the midpoint of the best quotes.
func (b *Book) Mid() (float64, error) {
	ask, err := b.BestAsk()
	if err != nil {
		return 0, err
	}
	bid, err := b.BestBid()
	if err != nil {
		return 0, err
	}
	return float64(ask+bid) / 2, nil
}

// bidPosition returns the 1-based array position of the best bid.
func (b *Book) bidPosition() (int, error) {
	bid, err := b.BestBid()
	if err != nil {
		return 0, err
	}
	return bid + b.levels + 1, nil
}

// askPosition returns the 1-based array position of the best ask.
func (b *Book) askPosition() (int, error) {
	ask, err := b.BestAsk()
	if err != nil {
		return 0, err
	}
	return ask + b.levels + 1, nil
}

// MidPosition returns floor of the mean of the best-quote positions.
func (b *Book) MidPosition() (int, error) {
	bp, err := b.bidPosition()
	if err != nil {
		return 0, err
	}
	ap, err := b.askPosition()
	if err != nil {
		return 0, err
	}
	return (bp + ap) / 2, nil
}

// Shape returns the resting quantity profile around the mid position:
// band+1 bid quantities from band ticks below up to the mid position,
// followed by band ask quantities from the mid position upward. The
// result always has length 2*band+1.
func (b *Book) Shape(band int) ([]int, error) {
	mp, err := b.MidPosition()
	if err != nil {
		return nil, err
	}
	if band < 0 || mp-band-1 < 0 || mp+band-1 > 2*b.levels {
		return nil, fmt.Errorf("shape band %d does not fit ladder around mid position %d", band, mp)
	}

	shape := make([]int, 0, 2*band+1)
	for i := -band - 1; i < 0; i++ {
		shape = append(shape, b.bidSize[mp+i])
	}
	for i := 0; i < band; i++ {
		shape = append(shape, b.askSize[mp+i])
	}
	return shape, nil
}

// BidDepthFrom returns the total resting buy quantity at prices >= floor.
func (b *Book) BidDepthFrom(floor int) int {
	if floor < -b.levels {
		floor = -b.levels
	}
	total := 0
	if b.bids.Empty() {
		return 0
	}
	for p := b.bids.Right().Key; p >= floor; p-- {
		total += b.bidSize[p+b.levels]
	}
	return total
}

// AskDepthTo returns the total resting sell quantity at prices <= ceil.
func (b *Book) AskDepthTo(ceil int) int {
	if ceil > b.levels {
		ceil = b.levels
	}
	total := 0
	if b.asks.Empty() {
		return 0
	}
	for p := b.asks.Left().Key; p <= ceil; p++ {
		total += b.askSize[p+b.levels]
	}
	return total
}

// BidByDistance returns the resting buy quantities at distances 1..n
// below the reference price. Ticks past the ladder edge count as zero.
func (b *Book) BidByDistance(ref, n int) []int {
	out := make([]int, n)
	for d := 1; d <= n; d++ {
		p := ref - d
		if p < -b.levels {
			break
		}
		out[d-1] = b.bidSize[p+b.levels]
	}
	return out
}

// AskByDistance returns the resting sell quantities at distances 1..n
// above the reference price. Ticks past the ladder edge count as zero.
func (b *Book) AskByDistance(ref, n int) []int {
	out := make([]int, n)
	for d := 1; d <= n; d++ {
		p := ref + d
		if p > b.levels {
			break
		}
		out[d-1] = b.askSize[p+b.levels]
	}
	return out
}

func (b *Book) sizes(side Side) []int {
	if side == Bid {
		return b.bidSize
	}
	return b.askSize
}

func (b *Book) index(side Side) *rbt.Tree[int, int] {
	if side == Bid {
		return b.bids
	}
	return b.asks
}

// setSize writes a ladder cell and keeps the occupancy index in sync.
// Callers must have validated the price.
func (b *Book) setSize(side Side, price, qty int) {
	b.sizes(side)[price+b.levels] = qty
	if qty > 0 {
		b.index(side).Put(price, qty)
	} else {
		b.index(side).Remove(price)
	}
}
