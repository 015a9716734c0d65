package book

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	marketdatav1 "github.com/tradekit/binance-orderbook/internal/domain/marketdata/v1"
	orderbookv1 "github.com/tradekit/binance-orderbook/internal/domain/orderbook/v1"
	"github.com/tradekit/binance-orderbook/pkg/errors"
	"github.com/tradekit/binance-orderbook/pkg/logger"
)

// State represents the coordinator lifecycle.
type State int32

const (
	// StateIdle means no subscription is active.
	StateIdle State = iota
	// StateSubscribing means the initial snapshot fetch is in flight.
	StateSubscribing
	// StateLive means the book is maintained from the update stream.
	StateLive
	// StateStopped means the subscription has ended.
	StateStopped
)

// Coordinator owns a local orderbook for one symbol. It sequences an initial
// depth snapshot with the stream of diff updates, merges each side concurrently,
// derives buy/sell average execution prices and fans typed events out to
// subscribers.
type Coordinator struct {
	symbol string
	source marketdatav1.Source
	logger logger.Interface
	opts   Options

	state atomic.Int32

	// cycleMu serializes update cycles, a tick arriving while a cycle runs
	// waits here.
	cycleMu  sync.Mutex
	snapshot *orderbookv1.Snapshot

	updates chan *orderbookv1.DepthUpdate

	subMu     sync.RWMutex
	subs      map[int]chan orderbookv1.Event
	nextSubID int

	ticker Ticker
	done   chan struct{}
}

// NewCoordinator creates a Coordinator for the given symbol over the given
// market data source.
func NewCoordinator(symbol string, source marketdatav1.Source, log logger.Interface, opts Options) *Coordinator {
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = DefaultOptions().QueueCapacity
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = DefaultOptions().EventBuffer
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewIntervalTicker
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = DefaultOptions().UpdateInterval
	}

	return &Coordinator{
		symbol:  symbol,
		source:  source,
		logger:  log,
		opts:    opts,
		updates: make(chan *orderbookv1.DepthUpdate, opts.QueueCapacity),
		subs:    make(map[int]chan orderbookv1.Event),
		done:    make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Events registers a subscriber and returns its event channel together with a
// cancel function. Events are dropped per subscriber when its buffer is full so
// a slow consumer never blocks the update cycle.
func (c *Coordinator) Events() (<-chan orderbookv1.Event, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan orderbookv1.Event, c.opts.EventBuffer)
	c.subs[id] = ch

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribe opens the update stream, fetches the initial snapshot and starts
// the periodic update cycle. It blocks until the snapshot is fetched. On
// failure no state is retained and the coordinator stays Idle.
func (c *Coordinator) Subscribe(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateSubscribing)) {
		return errors.NewTracer(fmt.Sprintf("subscribe in state %d, want idle", c.State()))
	}

	// Open the stream before fetching the snapshot so no update published
	// between the two is missed. Early updates are discarded by the staleness
	// check instead.
	err := c.source.OpenUpdateStream(ctx, c.symbol, marketdatav1.StreamHandlers{
		OnUpdate: c.enqueue,
		OnOpen: func() {
			c.publish(orderbookv1.Event{Type: orderbookv1.EventStreamConnected})
		},
		OnClose: func() {
			c.publish(orderbookv1.Event{Type: orderbookv1.EventStreamClosed})
		},
		OnError: func(err error) {
			c.publish(orderbookv1.Event{Type: orderbookv1.EventError, Err: err})
		},
	})
	if err != nil {
		c.state.Store(int32(StateIdle))
		tracerErr := errors.TracerFromError(errors.NewCodedError(errors.StreamConnectError, err))
		c.publish(orderbookv1.Event{Type: orderbookv1.EventError, Err: tracerErr})
		return tracerErr
	}

	snapshot, err := c.source.FetchSnapshot(ctx, c.symbol, c.opts.DepthLimit)
	if err != nil {
		c.state.Store(int32(StateIdle))
		tracerErr := errors.TracerFromError(errors.NewCodedError(errors.SnapshotFetchError, err))
		c.publish(orderbookv1.Event{Type: orderbookv1.EventError, Err: tracerErr})
		return tracerErr
	}

	c.cycleMu.Lock()
	c.snapshot = snapshot
	c.cycleMu.Unlock()

	c.state.Store(int32(StateLive))
	c.logger.Info("depth subscription live",
		logger.Field{Key: "symbol", Value: c.symbol},
		logger.Field{Key: "lastUpdateId", Value: snapshot.LastUpdateID},
		logger.Field{Key: "bids", Value: len(snapshot.Bids)},
		logger.Field{Key: "asks", Value: len(snapshot.Asks)},
	)

	// initial snapshot goes out before any diff is merged
	c.publish(orderbookv1.Event{Type: orderbookv1.EventSnapshotUpdated, Snapshot: snapshot.Clone()})

	c.ticker = c.opts.NewTicker(c.opts.UpdateInterval)
	go c.run()

	return nil
}

// Unsubscribe stops the periodic trigger and discards the snapshot. A cycle in
// progress finishes, no new cycle starts. Closing the underlying stream is the
// source's responsibility.
func (c *Coordinator) Unsubscribe() {
	if !c.state.CompareAndSwap(int32(StateLive), int32(StateStopped)) {
		return
	}

	close(c.done)
	c.ticker.Stop()

	c.cycleMu.Lock()
	c.snapshot = nil
	c.cycleMu.Unlock()

	c.logger.Info("depth subscription stopped", logger.Field{Key: "symbol", Value: c.symbol})
}

// run consumes ticks until Unsubscribe.
func (c *Coordinator) run() {
	for {
		select {
		case <-c.done:
			return
		case <-c.ticker.C():
			c.cycle()
		}
	}
}

// enqueue adds a stream update to the bounded inbound queue. When the queue is
// full the oldest queued update is dropped and reported, keeping the freshest
// data; the staleness check makes the eventual apply order safe.
func (c *Coordinator) enqueue(update *orderbookv1.DepthUpdate) {
	for {
		select {
		case c.updates <- update:
			return
		default:
		}

		select {
		case dropped := <-c.updates:
			err := errors.NewCodedError(errors.UpdateDroppedError,
				fmt.Errorf("queue full, dropped update %d-%d", dropped.FirstUpdateID, dropped.LastUpdateID))
			c.logger.Warn("inbound update queue full",
				logger.Field{Key: "symbol", Value: c.symbol},
				logger.Field{Key: "droppedLastUpdateId", Value: dropped.LastUpdateID},
			)
			c.publish(orderbookv1.Event{Type: orderbookv1.EventError, Err: err})
		default:
		}
	}
}

// cycle drains the inbound queue and applies every pending update in arrival
// order, then publishes the merged snapshot once. Cycles never overlap.
func (c *Coordinator) cycle() {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	// not yet ready, nothing to do this cycle
	if c.snapshot == nil {
		return
	}

	applied := false
	for {
		select {
		case update := <-c.updates:
			if c.apply(update) {
				applied = true
			}
		default:
			if applied {
				c.publish(orderbookv1.Event{
					Type:     orderbookv1.EventSnapshotUpdated,
					Snapshot: c.snapshot.Clone(),
				})
			}
			return
		}
	}
}

// apply merges one diff update into the snapshot. The two sides are merged and
// priced concurrently; each goroutine touches only its own side of the snapshot
// and publishes its own side events. Returns false when the update was stale.
func (c *Coordinator) apply(update *orderbookv1.DepthUpdate) bool {
	// already reflected in the snapshot, typical right after the initial fetch
	if update.LastUpdateID <= c.snapshot.LastUpdateID {
		c.logger.Debug("discarding stale depth update",
			logger.Field{Key: "symbol", Value: c.symbol},
			logger.Field{Key: "updateLastId", Value: update.LastUpdateID},
			logger.Field{Key: "snapshotLastId", Value: c.snapshot.LastUpdateID},
		)
		return false
	}

	// A gap means diffs were lost between the snapshot and this update. It is
	// reported for observability but the update is still applied, recovery is
	// the caller's concern.
	if update.FirstUpdateID > c.snapshot.LastUpdateID+1 {
		err := errors.NewCodedError(errors.SequenceGapError,
			fmt.Errorf("update %d-%d does not follow snapshot %d",
				update.FirstUpdateID, update.LastUpdateID, c.snapshot.LastUpdateID))
		c.logger.Warn("sequence gap in depth stream",
			logger.Field{Key: "symbol", Value: c.symbol},
			logger.Field{Key: "firstUpdateId", Value: update.FirstUpdateID},
			logger.Field{Key: "snapshotLastId", Value: c.snapshot.LastUpdateID},
		)
		c.publish(orderbookv1.Event{Type: orderbookv1.EventError, Err: err})
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		c.snapshot.Asks = orderbookv1.MergeDepth(c.snapshot.Asks, update.Asks, orderbookv1.PriceAscending)
		c.publishSide(orderbookv1.SideBuy, c.snapshot.Asks)
	}()

	go func() {
		defer wg.Done()
		c.snapshot.Bids = orderbookv1.MergeDepth(c.snapshot.Bids, update.Bids, orderbookv1.PriceDescending)
		c.publishSide(orderbookv1.SideSell, c.snapshot.Bids)
	}()

	wg.Wait()

	c.snapshot.LastUpdateID = update.LastUpdateID
	return true
}

// publishSide emits the per-side notifications after a merge: the level list,
// the best-of-side level and the average execution price for the direction that
// trades against the side (buy prices sweep asks, sell prices sweep bids).
func (c *Coordinator) publishSide(side orderbookv1.Side, levels orderbookv1.BookSide) {
	listEvent := orderbookv1.EventAsksUpdated
	bestEvent := orderbookv1.EventBestAskChanged
	priceEvent := orderbookv1.EventBuyPriceUpdated
	if side == orderbookv1.SideSell {
		listEvent = orderbookv1.EventBidsUpdated
		bestEvent = orderbookv1.EventBestBidChanged
		priceEvent = orderbookv1.EventSellPriceUpdated
	}

	c.publish(orderbookv1.Event{Type: listEvent, Levels: levels.Clone()})

	if best, ok := levels.Best(); ok {
		c.publish(orderbookv1.Event{Type: bestEvent, Best: &best})
	}

	avg, filled := orderbookv1.SweepAveragePrice(c.opts.Quantity, levels)
	c.publish(orderbookv1.Event{
		Type:           priceEvent,
		AveragePrice:   avg,
		FilledQuantity: filled,
	})
}

// publish fans an event out to every subscriber without blocking. Subscribers
// with a full buffer miss the event.
func (c *Coordinator) publish(event orderbookv1.Event) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, ch := range c.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
