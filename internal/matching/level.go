package matching

import "github.com/gammazero/deque"

// Level is the FIFO of resting orders at a single (price, side). Insertion
// order within a level is the tie-breaker; front-of-deque is oldest, i.e.
// next to be consumed.
type Level struct {
	Price   int64
	orders  deque.Deque[*Order]
	resting int64 // sum of resting orders' quantity, kept incrementally
}

func newLevel(price int64) *Level {
	return &Level{Price: price}
}

// Len reports the number of resting orders at this level.
func (l *Level) Len() int { return l.orders.Len() }

// Empty reports whether the level has no resting orders. Empty levels are
// removed from the book immediately, per the book invariant.
func (l *Level) Empty() bool { return l.orders.Len() == 0 }

// RestingQuantity returns the sum of resting orders' residual quantities.
func (l *Level) RestingQuantity() int64 { return l.resting }

// PushBack appends an order to the tail of the FIFO — used when a residual
// order comes to rest.
func (l *Level) PushBack(o *Order) {
	l.orders.PushBack(o)
	l.resting += o.Quantity
}

// Front returns the head order without removing it, or nil if empty.
func (l *Level) Front() *Order {
	if l.orders.Len() == 0 {
		return nil
	}
	return l.orders.Front()
}

// PopFront removes and returns the head order.
func (l *Level) PopFront() *Order {
	o := l.orders.PopFront()
	l.resting -= o.Quantity
	return o
}

// adjustResting keeps the incremental resting-quantity total in sync when
// the head order's quantity is decremented in place during matching.
func (l *Level) adjustResting(delta int64) {
	l.resting += delta
}

// Snapshot returns the resting orders at this level, oldest first, without
// mutating the level. For diagnostics/tests only.
func (l *Level) Snapshot() []*Order {
	out := make([]*Order, 0, l.orders.Len())
	for i := 0; i < l.orders.Len(); i++ {
		out = append(out, l.orders.At(i))
	}
	return out
}
