package matching

import (
	"sync/atomic"
	"time"
)

// Side is one of the two directions an order can take.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Order is an immutable-on-arrival record with a mutable residual quantity.
// Price is carried as an integer tick count, not a float or decimal: the
// core never re-derives ticks from a decimal representation, it only
// compares them, so equality and ordering are exact. Conversion between an
// externally supplied decimal price and ticks happens at the API boundary,
// never here.
type Order struct {
	ID        int64
	Symbol    string
	Side      Side
	PriceTick int64
	Quantity  int64
	Timestamp time.Time
}

// Remaining reports the order's unfilled quantity.
func (o *Order) Remaining() int64 { return o.Quantity }

// Filled reports whether the order has no quantity left to match.
func (o *Order) Filled() bool { return o.Quantity <= 0 }

// IDGenerator assigns monotonically increasing order IDs. It is owned by a
// single engine instance (never a package-level global) so that multiple
// engines — e.g. one per test — never share ID space, per the source's
// re-architecture note: an atomic counter, not a true process-wide global.
type IDGenerator struct {
	next atomic.Int64
}

// NewIDGenerator returns a generator whose first Next() call yields 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next order ID. Safe for concurrent use; uniqueness is
// guaranteed, strict global ordering across producer goroutines is not.
func (g *IDGenerator) Next() int64 {
	return g.next.Add(1)
}

// NewOrder constructs an order from a generator, symbol, side, and
// tick/quantity pair. It never returns ErrInvalidOrder — malformed orders
// are still constructed so the caller can hand them to Book.Process, which
// treats non-positive price or quantity as a no-op per the error table.
// Valid reports whether price and quantity are strictly positive.
func NewOrder(gen *IDGenerator, symbol string, side Side, priceTick, quantity int64) *Order {
	return &Order{
		ID:        gen.Next(),
		Symbol:    symbol,
		Side:      side,
		PriceTick: priceTick,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}
}

// Valid reports whether the order's price and quantity satisfy the book's
// admission requirement (both strictly positive).
func (o *Order) Valid() bool {
	return o.PriceTick > 0 && o.Quantity > 0
}
