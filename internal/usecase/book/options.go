package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// Options represents configuration options for the Coordinator.
type Options struct {
	// Quantity is the target trade quantity used for the average execution
	// price sweeps.
	Quantity decimal.Decimal
	// DepthLimit is the number of levels requested on the snapshot fetch.
	DepthLimit int
	// UpdateInterval is the cycle trigger period. Binance offers depth streams
	// at 100ms and 1000ms.
	UpdateInterval time.Duration
	// QueueCapacity bounds the inbound update queue. When the queue is full the
	// oldest queued update is dropped and reported.
	QueueCapacity int
	// EventBuffer is the per-subscriber event channel capacity. Events beyond
	// a full buffer are dropped for that subscriber only.
	EventBuffer int
	// NewTicker builds the cycle trigger. Tests inject a manual ticker here.
	NewTicker TickerFactory
}

// DefaultOptions returns the default coordinator options.
func DefaultOptions() Options {
	return Options{
		Quantity:       decimal.NewFromInt(1),
		DepthLimit:     100,
		UpdateInterval: time.Second,
		QueueCapacity:  1024,
		EventBuffer:    64,
		NewTicker:      NewIntervalTicker,
	}
}
