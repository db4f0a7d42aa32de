package matching

import "errors"

// Sentinel errors surfaced to callers. The core never logs or retries; it
// reports conditions and lets the caller decide policy.
var (
	// ErrUnknownSymbol is returned by Router.Route when no partition owns
	// the order's symbol.
	ErrUnknownSymbol = errors.New("matching: unknown symbol")

	// ErrDuplicateSymbol is returned by NewRouter when two partitions claim
	// the same symbol. Construction fails fast.
	ErrDuplicateSymbol = errors.New("matching: symbol claimed by more than one partition")

	// ErrInvalidOrder marks an order with non-positive price or quantity.
	// Processing such an order is a no-op, not fatal; this error exists so
	// callers that want to log or count rejects can distinguish the case.
	ErrInvalidOrder = errors.New("matching: invalid order")

	// ErrShuttingDown is returned by Partition.Submit once shutdown has
	// been signaled; the order is discarded, never enqueued.
	ErrShuttingDown = errors.New("matching: partition is shutting down")
)
