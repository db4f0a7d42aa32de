package matching

import "fmt"

// Router provides O(1) static dispatch of an order to its owning partition.
// The symbol → partition table is built once at construction and never
// mutated afterward, so it is safe to share across every producer
// goroutine without synchronization.
type Router struct {
	table map[string]*Partition
	parts []*Partition
}

// NewRouter builds the dispatch table from partitions. It fails fast if two
// partitions claim the same symbol — the union of all partitions' symbols
// must be disjoint.
func NewRouter(partitions []*Partition) (*Router, error) {
	table := make(map[string]*Partition)
	for _, part := range partitions {
		for _, sym := range part.Symbols() {
			if existing, ok := table[sym]; ok {
				return nil, fmt.Errorf("%w: %q claimed by both %q and %q", ErrDuplicateSymbol, sym, existing.Name(), part.Name())
			}
			table[sym] = part
		}
	}
	return &Router{table: table, parts: append([]*Partition(nil), partitions...)}, nil
}

// Route looks up the partition owning order.Symbol and submits the order to
// it. It returns ErrUnknownSymbol, wrapped with the offending symbol, if no
// partition covers it — the order is never enqueued in that case.
func (r *Router) Route(o *Order) error {
	part, ok := r.table[o.Symbol]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSymbol, o.Symbol)
	}
	return part.Submit(o)
}

// Partitions returns the partitions this router dispatches across.
func (r *Router) Partitions() []*Partition { return append([]*Partition(nil), r.parts...) }

// Shutdown shuts down every partition this router dispatches across, and
// waits for their worker goroutines to exit; orders still queued are
// discarded, not processed.
func (r *Router) Shutdown() {
	for _, p := range r.parts {
		p.Shutdown()
	}
}
