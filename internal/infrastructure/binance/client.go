package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	marketdatav1 "github.com/tradekit/binance-orderbook/internal/domain/marketdata/v1"
	orderbookv1 "github.com/tradekit/binance-orderbook/internal/domain/orderbook/v1"
	"github.com/tradekit/binance-orderbook/pkg/config"
	"github.com/tradekit/binance-orderbook/pkg/errors"
	"github.com/tradekit/binance-orderbook/pkg/logger"
)

// validDepthLimits are the level counts the depth endpoint accepts.
var validDepthLimits = []int{5, 10, 20, 50, 100, 500, 1000, 5000}

// validUpdateSpeeds are the diff stream intervals the venue offers, in ms.
var validUpdateSpeeds = []int{100, 1000}

const streamEventDepthUpdate = "depthUpdate"

// Client is the Binance market data source: depth snapshots over REST and diff
// depth updates over a websocket stream.
type Client struct {
	restBaseURL   string
	wsBaseURL     string
	updateSpeedMs int
	httpClient    *http.Client
	logger        logger.Interface

	connMu sync.Mutex
	conn   *websocket.Conn
}

var _ marketdatav1.Source = (*Client)(nil)

// NewClient creates a Client against the configured endpoints. updateSpeedMs
// must be 100 or 1000.
func NewClient(cfg config.BinanceConfig, updateSpeedMs int, log logger.Interface) (*Client, error) {
	if !containsInt(validUpdateSpeeds, updateSpeedMs) {
		return nil, errors.NewCodedError(errors.ErrInvalidUpdateSpeed,
			fmt.Errorf("update speed %dms not offered, allowed values are 100 and 1000", updateSpeedMs))
	}

	return &Client{
		restBaseURL:   strings.TrimRight(cfg.RestBaseURL, "/"),
		wsBaseURL:     strings.TrimRight(cfg.WebsocketBaseURL, "/"),
		updateSpeedMs: updateSpeedMs,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        log,
	}, nil
}

// FetchSnapshot downloads the current depth snapshot for the symbol.
// https://github.com/binance/binance-spot-api-docs/blob/master/rest-api.md#order-book
func (c *Client) FetchSnapshot(ctx context.Context, symbol string, depthLimit int) (*orderbookv1.Snapshot, error) {
	// depth limit is venue specific, reject before any network call
	if !containsInt(validDepthLimits, depthLimit) {
		return nil, errors.NewCodedError(errors.ErrInvalidDepthLimit,
			fmt.Errorf("depth limit %d not accepted, allowed values are %v", depthLimit, validDepthLimits))
	}

	url := fmt.Sprintf("%s/depth?symbol=%s&limit=%d", c.restBaseURL, strings.ToUpper(symbol), depthLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewCodedError(errors.SnapshotFetchError, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewCodedError(errors.SnapshotFetchError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewCodedError(errors.SnapshotFetchError, err)
	}

	if resp.StatusCode != http.StatusOK {
		var venueErr apiError
		if err := json.Unmarshal(body, &venueErr); err == nil && venueErr.Msg != "" {
			return nil, errors.NewCodedError(errors.SnapshotFetchError, venueErr)
		}
		return nil, errors.NewCodedError(errors.SnapshotFetchError,
			fmt.Errorf("depth request returned status %d", resp.StatusCode))
	}

	var snapshot depthSnapshotResponse
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, errors.NewCodedError(errors.SnapshotFetchError, err)
	}

	c.logger.Debug("depth snapshot fetched",
		logger.Field{Key: "symbol", Value: symbol},
		logger.Field{Key: "lastUpdateId", Value: snapshot.LastUpdateID},
	)

	return snapshot.toSnapshot(), nil
}

// OpenUpdateStream connects the diff depth stream and starts a read loop that
// delivers decoded updates to the handlers.
// https://github.com/binance/binance-spot-api-docs/blob/master/web-socket-streams.md#diff-depth-stream
func (c *Client) OpenUpdateStream(ctx context.Context, symbol string, handlers marketdatav1.StreamHandlers) error {
	url := fmt.Sprintf("%s/%s@depth@%dms", c.wsBaseURL, strings.ToLower(symbol), c.updateSpeedMs)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return errors.NewCodedError(errors.StreamConnectError, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.logger.Info("depth stream connected", logger.Field{Key: "url", Value: url})
	if handlers.OnOpen != nil {
		handlers.OnOpen()
	}

	go c.readLoop(conn, handlers)

	return nil
}

// Close tears down the stream connection, if any.
func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// readLoop reads stream messages until the connection fails or is closed.
// Decode failures are reported and skipped, read failures end the loop.
func (c *Client) readLoop(conn *websocket.Conn, handlers marketdatav1.StreamHandlers) {
	defer func() {
		if handlers.OnClose != nil {
			handlers.OnClose()
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			if handlers.OnError != nil {
				handlers.OnError(errors.NewCodedError(errors.StreamReadError, err))
			}
			return
		}

		var msg depthStreamMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if handlers.OnError != nil {
				handlers.OnError(errors.NewCodedError(errors.StreamDecodeError, err))
			}
			continue
		}

		if msg.EventType != streamEventDepthUpdate {
			continue
		}

		if handlers.OnUpdate != nil {
			handlers.OnUpdate(msg.toDepthUpdate())
		}
	}
}

func containsInt(values []int, value int) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
