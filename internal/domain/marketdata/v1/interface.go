package marketdatav1

import (
	"context"

	orderbookv1 "github.com/tradekit/binance-orderbook/internal/domain/orderbook/v1"
)

// StreamHandlers are the side-channel notifications delivered asynchronously by
// an open depth update stream. Nil handlers are skipped.
type StreamHandlers struct {
	// OnUpdate delivers a decoded diff update.
	OnUpdate func(update *orderbookv1.DepthUpdate)
	// OnOpen signals the stream connection opened.
	OnOpen func()
	// OnClose signals the stream connection closed.
	OnClose func()
	// OnError reports a stream-level failure. The stream keeps reading after
	// decode failures; read failures close the stream.
	OnError func(err error)
}

// Source provides point-in-time depth snapshots and a live stream of diff
// updates for a symbol.
//
//go:generate mockgen -source interface.go -destination=mock/source_mock.go -package=marketdata_mock
type Source interface {
	// FetchSnapshot downloads the current depth snapshot. depthLimit must be
	// one of the values the venue accepts; an invalid limit is rejected before
	// any network call.
	FetchSnapshot(ctx context.Context, symbol string, depthLimit int) (*orderbookv1.Snapshot, error)

	// OpenUpdateStream connects the diff depth stream and starts delivering
	// updates to the handlers until the stream fails, Close is called or ctx is
	// cancelled. It returns once the connection is established.
	OpenUpdateStream(ctx context.Context, symbol string, handlers StreamHandlers) error

	// Close tears down the stream connection, if any.
	Close() error
}
