package orderbookv1

import "github.com/shopspring/decimal"

// EventType identifies which part of the book an Event carries.
type EventType string

const (
	// EventSnapshotUpdated carries the full snapshot after a completed update cycle.
	EventSnapshotUpdated EventType = "snapshot_updated"
	// EventBidsUpdated carries the bid side after a merge.
	EventBidsUpdated EventType = "bids_updated"
	// EventAsksUpdated carries the ask side after a merge.
	EventAsksUpdated EventType = "asks_updated"
	// EventBestBidChanged carries the top bid level after a merge.
	EventBestBidChanged EventType = "best_bid_changed"
	// EventBestAskChanged carries the top ask level after a merge.
	EventBestAskChanged EventType = "best_ask_changed"
	// EventBuyPriceUpdated carries the average execution price for a buy,
	// derived from the ask side.
	EventBuyPriceUpdated EventType = "buy_price_updated"
	// EventSellPriceUpdated carries the average execution price for a sell,
	// derived from the bid side.
	EventSellPriceUpdated EventType = "sell_price_updated"
	// EventStreamConnected signals the depth stream connection opened.
	EventStreamConnected EventType = "stream_connected"
	// EventStreamClosed signals the depth stream connection closed.
	EventStreamClosed EventType = "stream_closed"
	// EventError carries a non-fatal error raised by the transport or the
	// update cycle.
	EventError EventType = "error"
)

// Event is a typed notification published to subscribers. Only the fields
// relevant to Type are populated; subscribers filter on Type instead of binding
// independent callbacks.
type Event struct {
	Type EventType `json:"type"`

	// Snapshot is set for EventSnapshotUpdated. It is a private copy, safe to
	// retain across cycles.
	Snapshot *Snapshot `json:"snapshot,omitempty"`

	// Levels is set for EventBidsUpdated and EventAsksUpdated.
	Levels BookSide `json:"levels,omitempty"`

	// Best is set for EventBestBidChanged and EventBestAskChanged.
	Best *PriceLevel `json:"best,omitempty"`

	// AveragePrice and FilledQuantity are set for the price events.
	// FilledQuantity below the requested quantity signals a partial sweep.
	AveragePrice   decimal.Decimal `json:"averagePrice,omitempty"`
	FilledQuantity decimal.Decimal `json:"filledQuantity,omitempty"`

	// Err is set for EventError.
	Err error `json:"-"`
}
