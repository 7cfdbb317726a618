package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOFuturesBot/helpers"
	"gitlab.com/aoterocom/AOFuturesBot/mocks"
	"gitlab.com/aoterocom/AOFuturesBot/models"
	"gitlab.com/aoterocom/AOFuturesBot/orders"
)

func newTestService() (*TradingService, *mocks.ExchangeMock, *bytes.Buffer) {
	var out bytes.Buffer
	exchange := mocks.NewExchangeMock()
	return NewTradingService(exchange, helpers.NewLogger(&out, nil), time.Second), exchange, &out
}

func TestPlaceMarketOrder(t *testing.T) {
	ts, exchange, out := newTestService()

	order, err := ts.PlaceMarketOrder(context.Background(), " btcusdt ", "buy", "0.001")

	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", order.Symbol)
	require.Len(t, exchange.Requests, 1)
	assert.Equal(t, models.OrderTypeMarket, exchange.Requests[0].Type)
	assert.Equal(t, models.SideTypeBuy, exchange.Requests[0].Side)
	assert.Contains(t, out.String(), "| INFO     | TradingBot | Placing MARKET order: BUY 0.001 BTCUSDT")
	assert.Contains(t, out.String(), "| DEBUG    | TradingBot | Full order response:")
}

func TestPlaceLimitOrderDefaultsToGTC(t *testing.T) {
	ts, exchange, out := newTestService()

	_, err := ts.PlaceLimitOrder(context.Background(), "ETHUSDT", "SELL", "0.5", "3500.25", "")

	require.NoError(t, err)
	require.Len(t, exchange.Requests, 1)
	assert.Equal(t, models.TimeInForceGTC, exchange.Requests[0].TimeInForce)
	assert.Equal(t, "3500.25", exchange.Requests[0].Price.String())
	assert.Contains(t, out.String(), "Placing LIMIT order: SELL 0.5 ETHUSDT @ 3500.25")
}

func TestPlaceStopLimitOrder(t *testing.T) {
	ts, exchange, out := newTestService()

	order, err := ts.PlaceStopLimitOrder(context.Background(), "BTCUSDT", "BUY", "0.01", "65100", "65000", "GTC")

	require.NoError(t, err)
	assert.Equal(t, "65000", order.StopPrice)
	assert.Equal(t, models.OrderTypeStop, exchange.Requests[0].Type)
	assert.Contains(t, out.String(), "Placing STOP-LIMIT order: BUY 0.01 BTCUSDT @ 65100 (stop: 65000)")
}

func TestInvalidInputNeverReachesExchange(t *testing.T) {
	ts, exchange, _ := newTestService()
	ctx := context.Background()

	_, err := ts.PlaceMarketOrder(ctx, "", "BUY", "1")
	assert.ErrorIs(t, err, orders.ErrInvalidInput)
	_, err = ts.PlaceMarketOrder(ctx, "BTCUSDT", "HOLD", "1")
	assert.ErrorIs(t, err, orders.ErrInvalidInput)
	_, err = ts.PlaceLimitOrder(ctx, "BTCUSDT", "BUY", "1", "-5", "GTC")
	assert.ErrorIs(t, err, orders.ErrInvalidInput)
	_, err = ts.PlaceStopLimitOrder(ctx, "BTCUSDT", "BUY", "1", "100", "abc", "GTC")
	assert.ErrorIs(t, err, orders.ErrInvalidInput)
	_, err = ts.CancelOrder(ctx, "BTCUSDT", "x12")
	assert.ErrorIs(t, err, orders.ErrInvalidInput)
	_, err = ts.GetOpenOrders(ctx, "   ")
	assert.ErrorIs(t, err, orders.ErrInvalidInput)

	assert.Equal(t, 0, exchange.CallCount())
}

func TestExchangeErrorIsReturnedUntranslated(t *testing.T) {
	ts, exchange, out := newTestService()
	apiErr := &models.ExchangeError{Code: -2019, Message: "Margin is insufficient."}
	exchange.Err = apiErr

	_, err := ts.PlaceMarketOrder(context.Background(), "BTCUSDT", "BUY", "100")

	assert.Same(t, apiErr, err)
	assert.Contains(t, out.String(), "| ERROR    | TradingBot | Error code: -2019, Message: Margin is insufficient.")
}

func TestOtherErrorsAreLogged(t *testing.T) {
	ts, exchange, out := newTestService()
	exchange.Err = errors.New("connection refused")

	_, err := ts.GetPositions(context.Background())

	assert.EqualError(t, err, "connection refused")
	assert.Contains(t, out.String(), "Error fetching positions: connection refused")
}

func TestCancelOrder(t *testing.T) {
	ts, exchange, out := newTestService()

	order, err := ts.CancelOrder(context.Background(), "btcusdt", "42")

	require.NoError(t, err)
	assert.Equal(t, int64(42), order.OrderID)
	assert.Equal(t, models.OrderStatusTypeCanceled, order.Status)
	assert.Equal(t, []string{"CancelOrder"}, exchange.Calls)
	assert.Contains(t, out.String(), "Order 42 for BTCUSDT cancelled")
}

func TestGetOpenOrdersAllSymbols(t *testing.T) {
	ts, exchange, out := newTestService()
	exchange.Orders = []models.Order{{Symbol: "BTCUSDT", OrderID: 1}, {Symbol: "ETHUSDT", OrderID: 2}}

	openOrders, err := ts.GetOpenOrders(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, openOrders, 2)
	assert.Equal(t, []string{"GetOpenOrders:"}, exchange.Calls)
	assert.Contains(t, out.String(), "Found 2 open order(s)")
}

func TestConnect(t *testing.T) {
	ts, exchange, out := newTestService()

	require.NoError(t, ts.Connect(context.Background(), "TESTNET", "https://testnet.binancefuture.com"))
	assert.Equal(t, []string{"Ping"}, exchange.Calls)
	assert.Contains(t, out.String(), "Mode: TESTNET")

	exchange.Err = &models.ExchangeError{Code: -2015, Message: "Invalid API-key, IP, or permissions for action."}
	assert.Error(t, ts.Connect(context.Background(), "TESTNET", ""))
}

func TestDescribe(t *testing.T) {
	request, err := orders.NewMarketOrder("BTCUSDT", "SELL", "0.250")
	require.NoError(t, err)

	assert.Equal(t, "MARKET order: SELL 0.25 BTCUSDT", Describe(request))
}
