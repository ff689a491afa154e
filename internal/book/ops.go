package book

import (
	"fmt"
	"math/rand"

	"github.com/TrellixVulnTeam/Market-Learn-B049/pkg/sample"
)

// MarketBuy executes qty units against the best ask.
func (b *Book) MarketBuy(qty int) error {
	p, err := b.BestAsk()
	if err != nil {
		return err
	}
	return b.reduce(Ask, p, qty)
}

// MarketSell executes qty units against the best bid.
func (b *Book) MarketSell(qty int) error {
	p, err := b.BestBid()
	if err != nil {
		return err
	}
	return b.reduce(Bid, p, qty)
}

// LimitBuy rests qty buy units at price.
func (b *Book) LimitBuy(price, qty int) error {
	return b.add(Bid, price, qty)
}

// LimitSell rests qty sell units at price.
func (b *Book) LimitSell(price, qty int) error {
	return b.add(Ask, price, qty)
}

// CancelBuy removes qty resting buy units at price.
func (b *Book) CancelBuy(price, qty int) error {
	return b.reduce(Bid, price, qty)
}

// CancelSell removes qty resting sell units at price.
func (b *Book) CancelSell(price, qty int) error {
	return b.reduce(Ask, price, qty)
}

// CancelBuyRandom removes qty buy units at a tick chosen by drawing one
// unit uniformly among the cancelable resting units nearest the touch
// and walking the cumulative quantity profile outward from the best bid
// until that unit is reached.
func (b *Book) CancelBuyRandom(rng *rand.Rand, cancelable, qty int) error {
	if cancelable <= 0 {
		return &EmptyBookError{Side: Bid}
	}
	bid, err := b.BestBid()
	if err != nil {
		return err
	}

	unit := sample.Uniform(rng, cancelable)
	cum := 0
	for p := bid; p >= -b.levels; p-- {
		cum += b.bidSize[p+b.levels]
		if cum >= unit {
			return b.reduce(Bid, p, qty)
		}
	}
	return fmt.Errorf("cancelable units %d exceed resting bid quantity %d", cancelable, cum)
}

// CancelSellRandom is the ask-side counterpart of CancelBuyRandom,
// walking upward from the best ask.
func (b *Book) CancelSellRandom(rng *rand.Rand, cancelable, qty int) error {
	if cancelable <= 0 {
		return &EmptyBookError{Side: Ask}
	}
	ask, err := b.BestAsk()
	if err != nil {
		return err
	}

	unit := sample.Uniform(rng, cancelable)
	cum := 0
	for p := ask; p <= b.levels; p++ {
		cum += b.askSize[p+b.levels]
		if cum >= unit {
			return b.reduce(Ask, p, qty)
		}
	}
	return fmt.Errorf("cancelable units %d exceed resting ask quantity %d", cancelable, cum)
}

func (b *Book) add(side Side, price, qty int) error {
	idx, err := b.TickIndex(price)
	if err != nil {
		return err
	}
	b.setSize(side, price, b.sizes(side)[idx]+qty)
	return nil
}

// reduce removes qty units at price, refusing to drive the cell
// negative.
func (b *Book) reduce(side Side, price, qty int) error {
	idx, err := b.TickIndex(price)
	if err != nil {
		return err
	}
	have := b.sizes(side)[idx]
	if have < qty {
		return &NegativeQuantityError{Side: side, Price: price, Have: have, Want: qty}
	}
	b.setSize(side, price, have-qty)
	return nil
}
