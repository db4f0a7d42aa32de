// Package metrics exposes the matching engine's counters over Prometheus,
// following pkg/metrics's shape (a struct of collectors, a Register step, a
// StartHTTPServer helper) but adapted to pull directly from the atomic
// counters the core package already keeps, rather than duplicating them.
package metrics

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lanternfin/matchcore/internal/matching"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matchcore"

// RouterCollector is a prometheus.Collector that reads a Router's
// partitions at scrape time. Because the core already keeps monotonic
// atomic counters (orders_read, total_trades per book), this avoids a
// second, independently-drifting set of counters — the metrics package
// polls, it never writes into the core.
type RouterCollector struct {
	router *matching.Router

	ordersRead  *prometheus.Desc
	totalTrades *prometheus.Desc
	symbols     *prometheus.Desc
}

// NewRouterCollector wraps router for Prometheus registration.
func NewRouterCollector(router *matching.Router) *RouterCollector {
	return &RouterCollector{
		router: router,
		ordersRead: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "partition", "orders_read_total"),
			"Total orders read from a partition's worker sub-queues.",
			[]string{"partition"}, nil,
		),
		totalTrades: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "partition", "trades_total"),
			"Total trades executed by a partition's books.",
			[]string{"partition"}, nil,
		),
		symbols: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "partition", "symbols_owned"),
			"Number of symbols owned by a partition.",
			[]string{"partition"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *RouterCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ordersRead
	ch <- c.totalTrades
	ch <- c.symbols
}

// Collect implements prometheus.Collector.
func (c *RouterCollector) Collect(ch chan<- prometheus.Metric) {
	for _, p := range c.router.Partitions() {
		stats := p.Stats()
		ch <- prometheus.MustNewConstMetric(c.ordersRead, prometheus.CounterValue, float64(stats.OrdersRead), stats.Name)
		ch <- prometheus.MustNewConstMetric(c.totalTrades, prometheus.CounterValue, float64(stats.TotalTrades), stats.Name)
		ch <- prometheus.MustNewConstMetric(c.symbols, prometheus.GaugeValue, float64(len(stats.Symbols)), stats.Name)
	}
}

// TradesTotal is a plain counter, incremented from the core's synchronous
// trade hook — one Inc per Trade, mirroring the observability output §6
// asks of the book layer directly rather than by polling.
var TradesTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "trades_total",
	Help:      "Total trades executed across all partitions, counted at the source via the book trade hook.",
})

// Register registers router's collector and the hook-driven counter with
// the default Prometheus registry.
func Register(router *matching.Router) error {
	if err := prometheus.Register(NewRouterCollector(router)); err != nil {
		return fmt.Errorf("metrics: register router collector: %w", err)
	}
	if err := prometheus.Register(TradesTotal); err != nil {
		return fmt.Errorf("metrics: register trades counter: %w", err)
	}
	return nil
}

// StartHTTPServer serves /metrics (or the configured path) on port in a
// background goroutine. It does not block; ListenAndServe errors are
// logged, not returned, matching pkg/metrics's own fire-and-forget style.
func StartHTTPServer(logger *slog.Logger, port int, path string) {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("starting metrics http server", "addr", addr, "path", path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics http server exited", "error", err)
		}
	}()
}
