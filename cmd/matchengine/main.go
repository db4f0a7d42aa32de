// Command matchengine runs the sharded matching engine: it loads
// configuration, builds one partition per configured shard behind a Router,
// exposes health/snapshot HTTP and Prometheus metrics, and feeds orders in
// from either a synthetic load generator or a Kafka topic depending on the
// selected mode.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lanternfin/matchcore/internal/config"
	"github.com/lanternfin/matchcore/internal/ingress"
	"github.com/lanternfin/matchcore/internal/logging"
	"github.com/lanternfin/matchcore/internal/matching"
	"github.com/lanternfin/matchcore/internal/metrics"
	"github.com/lanternfin/matchcore/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "configs/matchengine/config.toml", "path to config.toml")
	mode := flag.String("mode", "demo", "order source: demo or kafka")
	flag.Parse()

	// 1. load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. initialize logging
	log, err := logging.Init(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("starting matchengine",
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
		"mode", *mode,
		"universe_size", len(cfg.Universe),
	)

	// 3. build partitions and the router, wiring the trade hook to the
	// source-counted metrics counter.
	gen := matching.NewIDGenerator()
	partitions := make([]*matching.Partition, 0, len(cfg.Partitions))
	for _, pc := range cfg.Partitions {
		part := matching.NewPartition(pc.Name, pc.Symbols,
			matching.WithWorkers(cfg.Matching.Workers),
			matching.WithQueueCapacity(cfg.Matching.QueueCapacity),
			matching.WithPartitionLogger(log),
			matching.WithBookOptions(matching.WithTradeHook(func(t matching.Trade) {
				metrics.TradesTotal.Inc()
			})),
		)
		partitions = append(partitions, part)
	}
	router, err := matching.NewRouter(partitions)
	if err != nil {
		log.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	// 4. metrics
	if cfg.Metrics.Enabled {
		if err := metrics.Register(router); err != nil {
			log.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
		metrics.StartHTTPServer(log, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 5. health/snapshot HTTP surface
	httpServer := createHTTPServer(cfg, router)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		log.Info("starting http server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
		}
	}()

	// 6. optional resting-order snapshot persistence
	var poller *snapshot.Poller
	if cfg.Database.Enabled {
		repo, err := snapshot.NewGormRepository(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			log.Error("failed to open snapshot database, continuing without persistence", "error", err)
		} else {
			interval := time.Duration(cfg.Database.SnapshotIntervalMS) * time.Millisecond
			poller = snapshot.NewPoller(router, repo, interval, log)
		}
	}

	ingressCtx, cancelIngress := context.WithCancel(context.Background())

	if poller != nil {
		go poller.Run(ingressCtx)
	}

	// 7. start the configured order source
	var kafkaSource *ingress.KafkaSource
	switch *mode {
	case "kafka":
		kafkaSource = ingress.NewKafkaSource(cfg.Kafka, cfg.Matching.TickSize, router, gen, log)
		go kafkaSource.Run(ingressCtx)
	default:
		demo := ingress.NewDemoSource(router, gen, cfg.Universe, cfg.Matching.TickSize, cfg.Matching.Workers, 5*time.Millisecond, log)
		go demo.Run(ingressCtx)
	}

	// graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down matchengine")

	cancelIngress()
	if kafkaSource != nil {
		if err := kafkaSource.Close(); err != nil {
			log.Error("kafka source close error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", "error", err)
	}

	router.Shutdown()

	log.Info("matchengine stopped")
}

func createHTTPServer(cfg *config.Config, router *matching.Router) *http.Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	engine.GET("/partitions", func(c *gin.Context) {
		stats := make([]matching.Stats, 0, len(router.Partitions()))
		for _, p := range router.Partitions() {
			stats = append(stats, p.Stats())
		}
		c.JSON(http.StatusOK, stats)
	})

	engine.GET("/snapshot/:symbol", func(c *gin.Context) {
		symbol := c.Param("symbol")
		for _, p := range router.Partitions() {
			if snap, ok := p.BookSnapshot(symbol); ok {
				c.JSON(http.StatusOK, snap)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
