package ingress

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lanternfin/matchcore/internal/config"
	"github.com/lanternfin/matchcore/internal/matching"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// KafkaSource consumes JSON-encoded OrderMessages from a topic and routes
// each to the matching engine. It stands in for the load-driver / order-
// router seam the core spec places outside the engine itself.
type KafkaSource struct {
	reader   *kafka.Reader
	router   *matching.Router
	gen      *matching.IDGenerator
	tickSize decimal.Decimal
	logger   *slog.Logger
}

// NewKafkaSource builds a consumer for cfg.Topic in cfg.GroupID.
func NewKafkaSource(cfg config.KafkaConfig, tickSize float64, router *matching.Router, gen *matching.IDGenerator, logger *slog.Logger) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		SessionTimeout: 10 * time.Second,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
		MaxBytes:       10e6,
	})
	return &KafkaSource{
		reader:   reader,
		router:   router,
		gen:      gen,
		tickSize: decimal.NewFromFloat(tickSize),
		logger:   logger,
	}
}

// Run reads messages until ctx is cancelled. A read error while ctx is still
// live is logged and the read is retried; malformed messages are logged and
// skipped. No error ends the loop.
func (s *KafkaSource) Run(ctx context.Context) {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("kafka read failed", "error", err)
			continue
		}

		var dto OrderMessage
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			s.logger.Warn("dropping malformed kafka order message", "error", err)
			continue
		}

		order, err := ToOrder(s.gen, dto, s.tickSize)
		if err != nil {
			s.logger.Warn("dropping order message", "error", err)
			continue
		}

		if err := s.router.Route(order); err != nil {
			s.logger.Warn("route failed", "symbol", order.Symbol, "error", err)
		}
	}
}

// Close releases the underlying reader's connections.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
