package orderbookv1

import (
	"github.com/shopspring/decimal"
)

// PriceLevel represents resting liquidity at a single price. Quantity is always
// the absolute amount available at the price, never a delta. Inside an update a
// zero quantity marks the level for removal; a stored book side never contains one.
type PriceLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// String returns the level as quantity@price.
func (l PriceLevel) String() string {
	return l.Quantity.String() + "@" + l.Price.String()
}

// Ordering declares the price order of a book side.
type Ordering int

const (
	// PriceAscending is the ask side ordering, best (lowest) price first.
	PriceAscending Ordering = iota
	// PriceDescending is the bid side ordering, best (highest) price first.
	PriceDescending
)

// BookSide is one ordered side of the book. Prices are unique and sorted per the
// side's Ordering, so the first level is always the best price.
type BookSide []PriceLevel

// Best returns the top level of the side, or false when the side is empty.
func (s BookSide) Best() (PriceLevel, bool) {
	if len(s) == 0 {
		return PriceLevel{}, false
	}
	return s[0], true
}

// Clone returns an independent copy of the side.
func (s BookSide) Clone() BookSide {
	if s == nil {
		return nil
	}
	cloned := make(BookSide, len(s))
	copy(cloned, s)
	return cloned
}

// Snapshot is a point-in-time copy of both book sides. LastUpdateID identifies
// the last diff update incorporated and is monotonically non-decreasing over
// the snapshot's lifetime.
type Snapshot struct {
	LastUpdateID uint64   `json:"lastUpdateId"`
	Bids         BookSide `json:"bids"`
	Asks         BookSide `json:"asks"`
}

// BestBid returns the highest bid, or false when there are no bids.
func (s *Snapshot) BestBid() (PriceLevel, bool) {
	return s.Bids.Best()
}

// BestAsk returns the lowest ask, or false when there are no asks.
func (s *Snapshot) BestAsk() (PriceLevel, bool) {
	return s.Asks.Best()
}

// Clone returns a deep copy of the snapshot. Published snapshots are clones so
// subscribers never observe in-place mutation from later update cycles.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		LastUpdateID: s.LastUpdateID,
		Bids:         s.Bids.Clone(),
		Asks:         s.Asks.Clone(),
	}
}

// DepthUpdate is a batch of absolute-quantity level changes to apply atomically
// to both sides. FirstUpdateID and LastUpdateID delimit the venue sequence range
// covered by the batch.
type DepthUpdate struct {
	FirstUpdateID uint64       `json:"firstUpdateId"`
	LastUpdateID  uint64       `json:"lastUpdateId"`
	Bids          []PriceLevel `json:"bids"`
	Asks          []PriceLevel `json:"asks"`
}

// Side identifies a trade direction. A buy executes against asks, a sell
// against bids.
type Side string

const (
	// SideBuy prices an order lifting the ask side.
	SideBuy Side = "buy"
	// SideSell prices an order hitting the bid side.
	SideSell Side = "sell"
)
