package matching

import (
	"sync"
	"testing"
)

// TestRouterDispatchesBySymbol verifies O(1) static dispatch to the correct
// owning partition.
func TestRouterDispatchesBySymbol(t *testing.T) {
	gen := NewIDGenerator()
	var wg sync.WaitGroup
	wg.Add(2)
	hook := WithBookOptions(WithProcessedHook(func(*Order) { wg.Done() }))
	p1 := NewPartition("P1", []string{"AAA"}, WithWorkers(1), hook)
	p2 := NewPartition("P2", []string{"BBB"}, WithWorkers(1), hook)
	router, err := NewRouter([]*Partition{p1, p2})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	defer router.Shutdown()

	if err := router.Route(mustOrder(gen, "AAA", Buy, 100, 1)); err != nil {
		t.Fatalf("route AAA: %v", err)
	}
	if err := router.Route(mustOrder(gen, "BBB", Sell, 100, 1)); err != nil {
		t.Fatalf("route BBB: %v", err)
	}

	waitGroup(t, &wg)
	if p1.OrdersRead() != 1 || p2.OrdersRead() != 1 {
		t.Fatalf("orders read = p1:%d p2:%d, want 1 each", p1.OrdersRead(), p2.OrdersRead())
	}
}

// TestRouterUnknownSymbol: routing an order for a symbol no partition owns
// is reported to the caller without being enqueued anywhere.
func TestRouterUnknownSymbol(t *testing.T) {
	gen := NewIDGenerator()
	p1 := NewPartition("P1", []string{"AAA"}, WithWorkers(1))
	router, err := NewRouter([]*Partition{p1})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	defer router.Shutdown()

	if err := router.Route(mustOrder(gen, "ZZZ", Buy, 100, 1)); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

// TestRouterConstructionFailsOnDuplicateSymbol: two partitions claiming the
// same symbol must fail fast at router construction.
func TestRouterConstructionFailsOnDuplicateSymbol(t *testing.T) {
	p1 := NewPartition("P1", []string{"AAA"}, WithWorkers(1))
	p2 := NewPartition("P2", []string{"AAA"}, WithWorkers(1))
	defer p1.Shutdown()
	defer p2.Shutdown()

	_, err := NewRouter([]*Partition{p1, p2})
	if err == nil {
		t.Fatal("expected duplicate symbol error")
	}
}

// TestCrossPartitionIsolation covers scenario 6: interleaved orders for
// symbols owned by different partitions never interfere with each other's
// counters.
func TestCrossPartitionIsolation(t *testing.T) {
	gen := NewIDGenerator()
	var wg sync.WaitGroup
	wg.Add(10)
	hook := WithBookOptions(WithProcessedHook(func(*Order) { wg.Done() }))
	p1 := NewPartition("P1", []string{"AAA"}, WithWorkers(1), hook)
	p2 := NewPartition("P2", []string{"BBB"}, WithWorkers(1), hook)
	router, err := NewRouter([]*Partition{p1, p2})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	defer router.Shutdown()

	for i := 0; i < 5; i++ {
		if err := router.Route(mustOrder(gen, "AAA", Buy, 1000, 1)); err != nil {
			t.Fatalf("route AAA: %v", err)
		}
		if err := router.Route(mustOrder(gen, "BBB", Sell, 2000, 1)); err != nil {
			t.Fatalf("route BBB: %v", err)
		}
	}

	waitGroup(t, &wg)
	if p1.OrdersRead() != 5 || p2.OrdersRead() != 5 {
		t.Fatalf("orders read = p1:%d p2:%d, want 5 each", p1.OrdersRead(), p2.OrdersRead())
	}

	if p1.TotalTrades() != 0 || p2.TotalTrades() != 0 {
		t.Fatalf("unexpected trades: p1=%d p2=%d", p1.TotalTrades(), p2.TotalTrades())
	}
	if snap, ok := p1.BookSnapshot("AAA"); !ok || len(snap.Bids) != 1 || len(snap.Bids[0].Orders) != 5 || snap.Bids[0].Orders[0].Quantity != 1 {
		t.Fatalf("p1 book unexpected: %+v", snap)
	}
	if snap, ok := p2.BookSnapshot("BBB"); !ok || len(snap.Asks) != 1 || len(snap.Asks[0].Orders) != 5 || snap.Asks[0].Orders[0].Quantity != 1 {
		t.Fatalf("p2 book unexpected: %+v", snap)
	}
	if _, ok := p1.BookSnapshot("BBB"); ok {
		t.Fatal("p1 should not own BBB")
	}
}
