package ingress

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/lanternfin/matchcore/internal/matching"
)

// PriceRange is the per-symbol [min, max] decimal price band the synthetic
// load generator samples from. Grounded in the original driver's
// stockPriceRanges: symbol i (1-indexed within the universe) gets
// [10*i, 15*i].
type PriceRange struct {
	MinTicks int64
	MaxTicks int64
}

// BuildPriceRanges derives a PriceRange per symbol from its 1-based
// position in universe, quantized to tickSize, reproducing the original
// driver's per-stock band without hardcoding a "StockN" naming convention.
func BuildPriceRanges(universe []string, tickSize float64) map[string]PriceRange {
	ranges := make(map[string]PriceRange, len(universe))
	for i, sym := range universe {
		n := float64(i + 1)
		minPrice := 10.0 * n
		maxPrice := 15.0 * n
		ranges[sym] = PriceRange{
			MinTicks: int64(minPrice / tickSize),
			MaxTicks: int64(maxPrice / tickSize),
		}
	}
	return ranges
}

// DemoSource generates a synthetic order stream across several concurrent
// producer goroutines, each throttled to roughly one order per interval —
// the original driver's one-order-every-10-milliseconds-per-producer pace,
// carried forward as a configurable interval instead of a hardcoded
// Thread.sleep(10).
type DemoSource struct {
	router    *matching.Router
	gen       *matching.IDGenerator
	symbols   []string
	ranges    map[string]PriceRange
	producers int
	interval  time.Duration
	logger    *slog.Logger
}

// NewDemoSource builds a generator over universe using tickSize-derived
// price bands.
func NewDemoSource(router *matching.Router, gen *matching.IDGenerator, universe []string, tickSize float64, producers int, interval time.Duration, logger *slog.Logger) *DemoSource {
	if producers < 1 {
		producers = 1
	}
	return &DemoSource{
		router:    router,
		gen:       gen,
		symbols:   append([]string(nil), universe...),
		ranges:    BuildPriceRanges(universe, tickSize),
		producers: producers,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled, running Run's configured number of
// producer goroutines and waiting for them to exit.
func (s *DemoSource) Run(ctx context.Context) {
	if len(s.symbols) == 0 {
		return
	}
	var wg sync.WaitGroup
	for i := 0; i < s.producers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			s.produce(ctx, rand.New(rand.NewSource(seed)))
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
}

func (s *DemoSource) produce(ctx context.Context, rnd *rand.Rand) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sym := s.symbols[rnd.Intn(len(s.symbols))]
			rng := s.ranges[sym]
			span := rng.MaxTicks - rng.MinTicks
			priceTick := rng.MinTicks
			if span > 0 {
				priceTick += rnd.Int63n(span + 1)
			}
			side := matching.Buy
			if rnd.Intn(2) == 1 {
				side = matching.Sell
			}
			quantity := int64(1 + rnd.Intn(100))

			order := matching.NewOrder(s.gen, sym, side, priceTick, quantity)
			if err := s.router.Route(order); err != nil {
				s.logger.Warn("demo route failed", "symbol", sym, "error", err)
			}
		}
	}
}
