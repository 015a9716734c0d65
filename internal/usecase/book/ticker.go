package book

import "time"

// Ticker is the periodic trigger driving update cycles. The coordinator only
// reads ticks, so tests can inject a manual implementation instead of wall
// clock time.
type Ticker interface {
	// C returns the channel ticks are delivered on.
	C() <-chan time.Time
	// Stop disables the ticker. Stop does not close the channel.
	Stop()
}

// TickerFactory builds a Ticker for the configured update interval.
type TickerFactory func(interval time.Duration) Ticker

type intervalTicker struct {
	ticker *time.Ticker
}

// NewIntervalTicker returns a Ticker backed by time.Ticker.
func NewIntervalTicker(interval time.Duration) Ticker {
	return &intervalTicker{ticker: time.NewTicker(interval)}
}

func (t *intervalTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *intervalTicker) Stop() {
	t.ticker.Stop()
}

// ManualTicker is a hand-driven Ticker for deterministic tests.
type ManualTicker struct {
	ch chan time.Time
}

// NewManualTicker returns a ManualTicker.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

// C returns the tick channel.
func (t *ManualTicker) C() <-chan time.Time {
	return t.ch
}

// Stop is a no-op.
func (t *ManualTicker) Stop() {}

// Tick delivers one tick, blocking until the coordinator consumes it.
func (t *ManualTicker) Tick() {
	t.ch <- time.Now()
}
