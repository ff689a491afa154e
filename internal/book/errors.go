package book

import "fmt"

// Side identifies one half of the ladder.
type Side int

const (
	// Bid is the buy side of the book.
	Bid Side = iota
	// Ask is the sell side of the book.
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// EmptyBookError is returned when a best-quote query or a market order
// hits a side with no resting orders.
type EmptyBookError struct {
	Side Side
}

func (e *EmptyBookError) Error() string {
	return "no resting orders on " + e.Side.String() + " side"
}

// InvalidPriceError is returned when a price falls outside the ladder
// range [-Levels, Levels].
type InvalidPriceError struct {
	Price  int
	Levels int
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("price %d outside ladder range [%d, %d]", e.Price, -e.Levels, e.Levels)
}

// NegativeQuantityError is returned when an execution or cancel would
// drive a ladder cell below zero. The ladder is left unchanged.
type NegativeQuantityError struct {
	Side  Side
	Price int
	Have  int
	Want  int
}

func (e *NegativeQuantityError) Error() string {
	return fmt.Sprintf("cannot remove %d unit(s) from %s level %d holding %d",
		e.Want, e.Side, e.Price, e.Have)
}
