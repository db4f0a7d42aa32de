// Package snapshot periodically persists each book's resting liquidity for
// crash inspection — the "future subscriber" the core's design notes ask
// for instead of a trade-event stream. It never touches the core's
// matching path directly; it only polls the read-safe Partition.BookSnapshot
// accessor on a timer.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lanternfin/matchcore/internal/matching"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is the persisted row for one book's resting-liquidity snapshot at
// a point in time, following the domain's own OrderBookSnapshot shape:
// bids/asks are stored as JSON text columns rather than normalized rows,
// since they are write-once, read-rarely diagnostic data.
type Record struct {
	gorm.Model
	Partition string `gorm:"column:partition;type:varchar(64);index"`
	Symbol    string `gorm:"column:symbol;type:varchar(20);index;not null"`
	BidsJSON  string `gorm:"column:bids;type:text"`
	AsksJSON  string `gorm:"column:asks;type:text"`
	Timestamp int64  `gorm:"column:timestamp;type:bigint"`
}

// Repository persists resting-liquidity snapshots.
type Repository interface {
	SaveSnapshot(ctx context.Context, rec *Record) error
}

// GormRepository is the MySQL-backed Repository implementation.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository opens dsn via the MySQL driver and migrates the
// snapshot table.
func NewGormRepository(dsn string, maxOpenConns, maxIdleConns int) (*GormRepository, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("snapshot: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("snapshot: automigrate: %w", err)
	}
	return &GormRepository{db: db}, nil
}

// SaveSnapshot inserts rec as a new row.
func (r *GormRepository) SaveSnapshot(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Poller reads every partition's books on an interval and persists a
// Record per symbol via repo.
type Poller struct {
	router   *matching.Router
	repo     Repository
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller builds a Poller over router, saving via repo every interval.
func NewPoller(router *matching.Router, repo Repository, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{router: router, repo: repo, interval: interval, logger: logger}
}

// Run blocks, polling until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	now := time.Now().Unix()
	for _, part := range p.router.Partitions() {
		for _, sym := range part.Symbols() {
			snap, ok := part.BookSnapshot(sym)
			if !ok {
				continue
			}
			bidsJSON, err := json.Marshal(snap.Bids)
			if err != nil {
				p.logger.Error("marshal bids failed", "symbol", sym, "error", err)
				continue
			}
			asksJSON, err := json.Marshal(snap.Asks)
			if err != nil {
				p.logger.Error("marshal asks failed", "symbol", sym, "error", err)
				continue
			}
			rec := &Record{
				Partition: part.Name(),
				Symbol:    sym,
				BidsJSON:  string(bidsJSON),
				AsksJSON:  string(asksJSON),
				Timestamp: now,
			}
			if err := p.repo.SaveSnapshot(ctx, rec); err != nil {
				p.logger.Error("save snapshot failed", "symbol", sym, "error", err)
			}
		}
	}
}
