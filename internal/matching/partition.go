package matching

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Stats is a point-in-time read of a partition's counters, shaped after the
// original driver's per-partition display (name, owned symbols, orders
// read, trades executed) even though console formatting itself lives
// outside the core.
type Stats struct {
	Name        string
	Symbols     []string
	OrdersRead  int64
	TotalTrades int64
}

type partitionConfig struct {
	workers  int
	queueCap int
	bookOpts []BookOption
	logger   *slog.Logger
}

// PartitionOption configures a Partition at construction.
type PartitionOption func(*partitionConfig)

// WithWorkers sets the worker pool size (design (B): one sub-queue and one
// exclusive book set per worker). The design default is 5.
func WithWorkers(n int) PartitionOption {
	return func(c *partitionConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithQueueCapacity sets the per-worker sub-queue buffer size. Submit blocks
// once a worker's sub-queue is full rather than dropping the order.
func WithQueueCapacity(n int) PartitionOption {
	return func(c *partitionConfig) {
		if n > 0 {
			c.queueCap = n
		}
	}
}

// WithBookOptions forwards options (e.g. WithTradeHook) to every Book the
// partition constructs.
func WithBookOptions(opts ...BookOption) PartitionOption {
	return func(c *partitionConfig) { c.bookOpts = append(c.bookOpts, opts...) }
}

// WithPartitionLogger attaches a logger to the partition. Neither the
// partition's workers nor matching itself write any log records to it.
func WithPartitionLogger(l *slog.Logger) PartitionOption {
	return func(c *partitionConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

type partitionWorker struct {
	id     int
	queue  chan *Order
	books  map[string]*Book
	closed atomic.Bool
}

// Partition owns a disjoint symbol set and the matching for those symbols.
// It implements design (B) from the component design: symbols are hashed
// to one of N workers at construction, each worker gets an exclusive
// sub-queue and an exclusive subset of the partition's books, so workers
// never contend on a book's lock (Book's lock only guards against concurrent
// snapshot reads) — two orders for the same symbol are always handled by the
// same worker, in submission order.
type Partition struct {
	name    string
	symbols []string
	books   map[string]*Book

	workers      []*partitionWorker
	workerOf     map[string]int
	ordersRead   atomic.Int64
	shuttingDown atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *slog.Logger
}

// NewPartition constructs a partition owning symbols and immediately starts
// its worker pool — resource acquisition happens at construction, per the
// concurrency model's resource discipline. An empty symbol set is allowed;
// the partition is simply idle.
func NewPartition(name string, symbols []string, opts ...PartitionOption) *Partition {
	cfg := partitionConfig{workers: 5, queueCap: 1024, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(symbols) > 0 && cfg.workers > len(symbols) {
		// no point in more workers than symbols under design (B): extra
		// workers would own zero books and sit idle forever.
		cfg.workers = len(symbols)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Partition{
		name:     name,
		symbols:  append([]string(nil), symbols...),
		books:    make(map[string]*Book, len(symbols)),
		workerOf: make(map[string]int, len(symbols)),
		ctx:      ctx,
		cancel:   cancel,
		logger:   cfg.logger,
	}

	p.workers = make([]*partitionWorker, cfg.workers)
	for i := range p.workers {
		p.workers[i] = &partitionWorker{
			id:    i,
			queue: make(chan *Order, cfg.queueCap),
			books: make(map[string]*Book),
		}
	}

	for _, sym := range symbols {
		book := NewBook(sym, cfg.bookOpts...)
		p.books[sym] = book
		idx := int(hashSymbol(sym) % uint32(cfg.workers))
		p.workerOf[sym] = idx
		p.workers[idx].books[sym] = book
	}

	for _, w := range p.workers {
		p.wg.Add(1)
		go p.runWorker(w)
	}

	return p
}

func hashSymbol(sym string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sym))
	return h.Sum32()
}

// Name returns the partition's name, for stats display.
func (p *Partition) Name() string { return p.name }

// Symbols returns the fixed symbol set this partition owns.
func (p *Partition) Symbols() []string { return append([]string(nil), p.symbols...) }

// HasSymbol reports whether this partition owns sym.
func (p *Partition) HasSymbol(sym string) bool {
	_, ok := p.books[sym]
	return ok
}

// OrdersRead returns the number of orders this partition's workers have
// dequeued so far. Safe to read concurrently; may lag by one increment.
func (p *Partition) OrdersRead() int64 { return p.ordersRead.Load() }

// TotalTrades sums TotalTrades() across every book this partition owns.
func (p *Partition) TotalTrades() int64 {
	var total int64
	for _, b := range p.books {
		total += b.TotalTrades()
	}
	return total
}

// Stats returns a snapshot of the partition's counters.
func (p *Partition) Stats() Stats {
	return Stats{
		Name:        p.name,
		Symbols:     p.Symbols(),
		OrdersRead:  p.OrdersRead(),
		TotalTrades: p.TotalTrades(),
	}
}

// BookSnapshot returns the resting-liquidity snapshot for sym, or false if
// this partition does not own sym.
func (p *Partition) BookSnapshot(sym string) (BookSnapshot, bool) {
	b, ok := p.books[sym]
	if !ok {
		return BookSnapshot{}, false
	}
	return b.SnapshotResting(), true
}

// Submit enqueues an order for matching. It is non-blocking as long as the
// owning worker's sub-queue has room; once shutdown has been signaled it
// returns ErrShuttingDown immediately and discards the order, per the
// discard-on-shutdown policy.
func (p *Partition) Submit(o *Order) error {
	if p.shuttingDown.Load() {
		return ErrShuttingDown
	}
	idx, ok := p.workerOf[o.Symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	select {
	case p.workers[idx].queue <- o:
		return nil
	case <-p.ctx.Done():
		return ErrShuttingDown
	}
}

func (p *Partition) runWorker(w *partitionWorker) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case o := <-w.queue:
			p.ordersRead.Add(1)
			book := w.books[o.Symbol]
			if book == nil {
				// unreachable under a correctly built router: workerOf and
				// w.books are derived from the same symbol set at
				// construction and never change afterward.
				continue
			}
			book.Process(o)
		}
	}
}

// Shutdown signals every worker to stop, per the discard policy: orders
// still sitting in a sub-queue are dropped, orders already resting in a
// book remain there for inspection via BookSnapshot. Shutdown blocks until
// every worker goroutine has exited.
func (p *Partition) Shutdown() {
	if !p.shuttingDown.CompareAndSwap(false, true) {
		return
	}
	p.cancel()
	p.wg.Wait()
}
