package matching

import (
	"sync"
	"sync/atomic"
)

// Trade is emitted synchronously from Process for each head-order
// consumption step. The core does not persist or queue trades; it only
// counts them and, optionally, hands one to a caller-supplied hook. This is
// the "hook for future subscribers" the redesign calls for instead of a
// trade-event stream.
type Trade struct {
	Symbol         string
	PriceTick      int64
	Quantity       int64
	AggressorID    int64
	AggressorSide  Side
	RestingID      int64
}

// OrderSnapshot is a read-only view of a resting order, for diagnostics.
type OrderSnapshot struct {
	ID        int64
	Quantity  int64
	Timestamp int64 // UnixNano
}

// LevelSnapshot is a read-only view of one price level's resting orders,
// oldest (highest priority) first.
type LevelSnapshot struct {
	PriceTick int64
	Orders    []OrderSnapshot
}

// BookSnapshot is a point-in-time view of a book's resting liquidity. Bids
// are ordered best-first (descending price), asks best-first (ascending
// price), matching how the book itself orders each side.
type BookSnapshot struct {
	Symbol string
	Bids   []LevelSnapshot
	Asks   []LevelSnapshot
}

// Book is a per-symbol, two-sided, price-ordered ladder plus the matching
// algorithm and resting liquidity for that symbol. Callers (Partition, in
// this repository) are responsible for ensuring at most one goroutine ever
// calls Process for a given Book at a time — the design-(B) contract in the
// component design, so the hot match path itself never contends on a lock.
// mu only guards the ladders against a concurrent SnapshotResting: diagnostic
// reads (HTTP, the snapshot poller) run on their own goroutines and must not
// observe a tree mid-rotation.
type Book struct {
	symbol string
	mu     sync.RWMutex
	bids   *ladder // best = highest price
	asks   *ladder // best = lowest price

	totalOrders atomic.Int64
	totalTrades atomic.Int64

	onTrade     func(Trade)
	onProcessed func(*Order)
}

// BookOption configures optional Book behavior at construction.
type BookOption func(*Book)

// WithTradeHook registers a synchronous callback invoked once per trade,
// after the trade's quantity has already been applied to both sides. It
// must not block: Process never suspends, and a slow hook makes it suspend
// in practice. It must not call back into the same Book — reentrant use is
// undefined.
func WithTradeHook(fn func(Trade)) BookOption {
	return func(b *Book) { b.onTrade = fn }
}

// WithProcessedHook registers a synchronous callback invoked once per
// Process call, after that order has been fully handled (matched, rested,
// or rejected as invalid). It exists for callers — tests, chiefly — that
// need to know an order has cleared the pipeline without polling a counter.
// The same must-not-block, must-not-reenter constraints as WithTradeHook
// apply.
func WithProcessedHook(fn func(*Order)) BookOption {
	return func(b *Book) { b.onProcessed = fn }
}

// NewBook constructs an empty book for symbol.
func NewBook(symbol string, opts ...BookOption) *Book {
	b := &Book{
		symbol: symbol,
		bids:   newLadder(),
		asks:   newLadder(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Symbol returns the symbol this book matches.
func (b *Book) Symbol() string { return b.symbol }

// TotalOrders returns the number of Process calls observed so far. Safe to
// read concurrently with Process; may lag by one increment.
func (b *Book) TotalOrders() int64 { return b.totalOrders.Load() }

// TotalTrades returns the number of trades executed so far. Monotonic,
// non-decreasing, safe to read concurrently with Process.
func (b *Book) TotalTrades() int64 { return b.totalTrades.Load() }

// Process consumes a newly arrived order: it matches against the opposing
// side under price-time priority and rests any residual on its own side.
// Zero- or negative-price/quantity orders are a no-op (ErrInvalidOrder
// territory at the caller level; Book itself never returns an error here —
// it is total on well-formed and malformed input alike, and never panics).
func (b *Book) Process(o *Order) {
	b.totalOrders.Add(1)
	if b.onProcessed != nil {
		defer func() { b.onProcessed(o) }()
	}
	if !o.Valid() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var opposing, own *ladder
	var bestOpposing func() *Level
	var crossable func(levelPrice int64) bool

	if o.Side == Buy {
		opposing, own = b.asks, b.bids
		bestOpposing = opposing.minLevel
		crossable = func(levelPrice int64) bool { return levelPrice <= o.PriceTick }
	} else {
		opposing, own = b.bids, b.asks
		bestOpposing = opposing.maxLevel
		crossable = func(levelPrice int64) bool { return levelPrice >= o.PriceTick }
	}

	for o.Quantity > 0 {
		lvl := bestOpposing()
		if lvl == nil || !crossable(lvl.Price) {
			break
		}

		for o.Quantity > 0 && !lvl.Empty() {
			r := lvl.Front()
			fill := min(o.Quantity, r.Quantity)

			o.Quantity -= fill
			r.Quantity -= fill
			lvl.adjustResting(-fill)
			b.totalTrades.Add(1)

			if b.onTrade != nil {
				b.onTrade(Trade{
					Symbol:        b.symbol,
					PriceTick:     lvl.Price,
					Quantity:      fill,
					AggressorID:   o.ID,
					AggressorSide: o.Side,
					RestingID:     r.ID,
				})
			}

			if r.Quantity == 0 {
				lvl.PopFront()
			}
		}

		if lvl.Empty() {
			opposing.remove(lvl.Price)
		}
	}

	if o.Quantity > 0 {
		own.upsert(o.PriceTick).PushBack(o)
	}
}

// SnapshotResting returns the current resting liquidity, grouped by side
// and price, for diagnostics and tests. It does not mutate the book; it
// read-locks against a concurrent Process so the tree traversal below never
// runs mid-rotation.
func (b *Book) SnapshotResting() BookSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := BookSnapshot{Symbol: b.symbol}
	b.bids.forEachDescending(func(l *Level) bool {
		snap.Bids = append(snap.Bids, levelSnapshot(l))
		return true
	})
	b.asks.forEachAscending(func(l *Level) bool {
		snap.Asks = append(snap.Asks, levelSnapshot(l))
		return true
	})
	return snap
}

func levelSnapshot(l *Level) LevelSnapshot {
	orders := l.Snapshot()
	out := LevelSnapshot{PriceTick: l.Price, Orders: make([]OrderSnapshot, 0, len(orders))}
	for _, o := range orders {
		out.Orders = append(out.Orders, OrderSnapshot{ID: o.ID, Quantity: o.Quantity, Timestamp: o.Timestamp.UnixNano()})
	}
	return out
}
