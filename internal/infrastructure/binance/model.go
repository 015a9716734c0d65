package binance

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/tradekit/binance-orderbook/internal/domain/orderbook/v1"
)

// depthLevel decodes the ["price", "quantity"] string tuples Binance uses on
// both the depth endpoint and the diff stream.
type depthLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *depthLevel) UnmarshalJSON(data []byte) error {
	var tuple []string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 2 {
		return fmt.Errorf("depth level: want [price, quantity], got %d elements", len(tuple))
	}

	price, err := decimal.NewFromString(tuple[0])
	if err != nil {
		return fmt.Errorf("depth level price %q: %w", tuple[0], err)
	}
	quantity, err := decimal.NewFromString(tuple[1])
	if err != nil {
		return fmt.Errorf("depth level quantity %q: %w", tuple[1], err)
	}

	l.Price = price
	l.Quantity = quantity
	return nil
}

// depthSnapshotResponse models GET /api/v3/depth.
type depthSnapshotResponse struct {
	LastUpdateID uint64       `json:"lastUpdateId"`
	Bids         []depthLevel `json:"bids"`
	Asks         []depthLevel `json:"asks"`
}

func (r depthSnapshotResponse) toSnapshot() *orderbookv1.Snapshot {
	return &orderbookv1.Snapshot{
		LastUpdateID: r.LastUpdateID,
		Bids:         toLevels(r.Bids),
		Asks:         toLevels(r.Asks),
	}
}

// depthStreamMessage models one message from the <symbol>@depth diff stream.
type depthStreamMessage struct {
	EventType     string       `json:"e"`
	EventTime     int64        `json:"E"`
	Symbol        string       `json:"s"`
	FirstUpdateID uint64       `json:"U"`
	LastUpdateID  uint64       `json:"u"`
	Bids          []depthLevel `json:"b"`
	Asks          []depthLevel `json:"a"`
}

func (m depthStreamMessage) toDepthUpdate() *orderbookv1.DepthUpdate {
	return &orderbookv1.DepthUpdate{
		FirstUpdateID: m.FirstUpdateID,
		LastUpdateID:  m.LastUpdateID,
		Bids:          toLevels(m.Bids),
		Asks:          toLevels(m.Asks),
	}
}

// apiError models the {code, msg} error body of the REST API.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e apiError) Error() string {
	return fmt.Sprintf("binance: code %d, %s", e.Code, e.Msg)
}

func toLevels(levels []depthLevel) []orderbookv1.PriceLevel {
	if levels == nil {
		return nil
	}
	out := make([]orderbookv1.PriceLevel, len(levels))
	for i, l := range levels {
		out[i] = orderbookv1.PriceLevel{Price: l.Price, Quantity: l.Quantity}
	}
	return out
}
