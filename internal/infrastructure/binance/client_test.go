package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	marketdatav1 "github.com/tradekit/binance-orderbook/internal/domain/marketdata/v1"
	orderbookv1 "github.com/tradekit/binance-orderbook/internal/domain/orderbook/v1"
	"github.com/tradekit/binance-orderbook/pkg/config"
	pkgerrors "github.com/tradekit/binance-orderbook/pkg/errors"
	loggerMock "github.com/tradekit/binance-orderbook/pkg/logger/mock"
)

func testEndpoints(restURL, wsURL string) config.BinanceConfig {
	return config.BinanceConfig{RestBaseURL: restURL, WebsocketBaseURL: wsURL}
}

func newTestLogger(ctrl *gomock.Controller) *loggerMock.MockInterface {
	log := loggerMock.NewMockInterface(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

func newTestClient(t *testing.T, ctrl *gomock.Controller, restURL, wsURL string, updateSpeedMs int) *Client {
	t.Helper()
	client, err := NewClient(testEndpoints(restURL, wsURL), updateSpeedMs, newTestLogger(ctrl))
	require.NoError(t, err)
	return client
}

func TestNewClient_RejectsUnknownUpdateSpeed(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := NewClient(testEndpoints("http://localhost", "ws://localhost"), 250, newTestLogger(ctrl))

	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrInvalidUpdateSpeed, pkgerrors.CodeOf(err))
}

func TestFetchSnapshot_RejectsUnknownDepthLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("the depth limit must be rejected before any request is made")
	}))
	defer server.Close()

	client := newTestClient(t, ctrl, server.URL, "ws://unused", 1000)

	_, err := client.FetchSnapshot(context.Background(), "BTCUSDT", 42)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrInvalidDepthLimit, pkgerrors.CodeOf(err))
}

func TestFetchSnapshot_DecodesDepthResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/depth", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"), "symbol is upper-cased on the wire")
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"lastUpdateId": 160,
			"bids": [["19501.25", "3.531878"], ["19500.10", "0.5"]],
			"asks": [["19501.88", "0.195983"]]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, ctrl, server.URL, "ws://unused", 1000)

	snapshot, err := client.FetchSnapshot(context.Background(), "btcusdt", 5)

	require.NoError(t, err)
	assert.Equal(t, uint64(160), snapshot.LastUpdateID)
	require.Equal(t, 2, len(snapshot.Bids))
	require.Equal(t, 1, len(snapshot.Asks))
	assert.True(t, snapshot.Bids[0].Price.Equal(decimal.RequireFromString("19501.25")))
	assert.True(t, snapshot.Bids[0].Quantity.Equal(decimal.RequireFromString("3.531878")))
	assert.True(t, snapshot.Asks[0].Price.Equal(decimal.RequireFromString("19501.88")))
}

func TestFetchSnapshot_SurfacesVenueError(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": -1121, "msg": "Invalid symbol."}`))
	}))
	defer server.Close()

	client := newTestClient(t, ctrl, server.URL, "ws://unused", 1000)

	_, err := client.FetchSnapshot(context.Background(), "NOSUCH", 100)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.SnapshotFetchError, pkgerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Invalid symbol.")
}

func TestFetchSnapshot_SurfacesUnexpectedStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := newTestClient(t, ctrl, server.URL, "ws://unused", 1000)

	_, err := client.FetchSnapshot(context.Background(), "BTCUSDT", 100)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.SnapshotFetchError, pkgerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "502")
}

func TestOpenUpdateStream_DeliversDecodedUpdates(t *testing.T) {
	ctrl := gomock.NewController(t)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/btcusdt@depth@100ms", r.URL.Path, "stream name is lower-cased and carries the speed")

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// a real diff update
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{
			"e": "depthUpdate", "E": 123456789, "s": "BTCUSDT",
			"U": 157, "u": 160,
			"b": [["0.0024", "10"]],
			"a": [["0.0026", "100"], ["0.0027", "0"]]
		}`)))
		// a foreign event type, silently skipped
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"e": "trade"}`)))
		// garbage, reported as a decode failure but the loop keeps reading
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))

		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client := newTestClient(t, ctrl, "http://unused", wsURL, 100)
	defer client.Close()

	opened := make(chan struct{}, 1)
	closed := make(chan struct{}, 1)
	updates := make(chan *orderbookv1.DepthUpdate, 4)
	streamErrs := make(chan error, 4)

	err := client.OpenUpdateStream(context.Background(), "BTCUSDT", marketdatav1.StreamHandlers{
		OnUpdate: func(u *orderbookv1.DepthUpdate) { updates <- u },
		OnOpen:   func() { opened <- struct{}{} },
		OnClose:  func() { closed <- struct{}{} },
		OnError:  func(err error) { streamErrs <- err },
	})
	require.NoError(t, err)

	select {
	case <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the open callback")
	}

	select {
	case update := <-updates:
		assert.Equal(t, uint64(157), update.FirstUpdateID)
		assert.Equal(t, uint64(160), update.LastUpdateID)
		require.Equal(t, 1, len(update.Bids))
		require.Equal(t, 2, len(update.Asks))
		assert.True(t, update.Bids[0].Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, update.Asks[1].Quantity.IsZero(), "zero quantity removals pass through untouched")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the decoded update")
	}

	select {
	case err := <-streamErrs:
		assert.Equal(t, pkgerrors.StreamDecodeError, pkgerrors.CodeOf(err))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the decode failure report")
	}

	// a normal closure ends the loop without a read error
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the close callback")
	}
	select {
	case err := <-streamErrs:
		t.Fatalf("unexpected stream error after normal closure: %v", err)
	default:
	}
}

func TestOpenUpdateStream_DialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := newTestClient(t, ctrl, "http://unused", "ws://127.0.0.1:1", 1000)

	err := client.OpenUpdateStream(context.Background(), "BTCUSDT", marketdatav1.StreamHandlers{})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.StreamConnectError, pkgerrors.CodeOf(err))
}

func TestClose_WithoutStreamIsANoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := newTestClient(t, ctrl, "http://unused", "ws://unused", 1000)

	assert.NoError(t, client.Close())
}
