package paper

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOFuturesBot/models"
)

func newTestPaperService(prices StaticPrices) *PaperService {
	service := NewPaperService(prices, decimal.NewFromInt(10000))
	service.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return service
}

func marketOrder(symbol string, side models.OrderSide, quantity string) models.OrderRequest {
	return models.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     models.OrderTypeMarket,
		Quantity: decimal.RequireFromString(quantity),
	}
}

func TestMarketOrderFills(t *testing.T) {
	prices := StaticPrices{"BTCUSDT": "40000"}
	service := newTestPaperService(prices)
	ctx := context.Background()

	order, err := service.CreateOrder(ctx, marketOrder("BTCUSDT", models.SideTypeBuy, "0.5"))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusTypeFilled, order.Status)
	assert.Equal(t, int64(1), order.OrderID)
	assert.Equal(t, "0.5", order.ExecutedQuantity)
	assert.Equal(t, "40000", order.AvgPrice)
	assert.Equal(t, "0", order.Price)
	assert.Equal(t, int64(1700000000000), order.UpdateTime)

	prices["BTCUSDT"] = "41000"
	positions, err := service.GetPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "0.5", positions[0].PositionAmt)
	assert.Equal(t, "40000", positions[0].EntryPrice)
	assert.Equal(t, "500", positions[0].UnRealizedProfit)

	balance, err := service.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10000", balance.Assets[0].WalletBalance)
	assert.Equal(t, "10500", balance.Assets[0].AvailableBalance)
}

func TestClosingPositionRealizesPNL(t *testing.T) {
	prices := StaticPrices{"ETHUSDT": "2000"}
	service := newTestPaperService(prices)
	ctx := context.Background()

	_, err := service.CreateOrder(ctx, marketOrder("ETHUSDT", models.SideTypeSell, "2.5"))
	require.NoError(t, err)

	prices["ETHUSDT"] = "1990"
	_, err = service.CreateOrder(ctx, marketOrder("ETHUSDT", models.SideTypeBuy, "2.5"))
	require.NoError(t, err)

	positions, err := service.GetPositions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0", positions[0].PositionAmt)

	balance, err := service.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10025", balance.Assets[0].WalletBalance)
}

func TestFlippingPositionResetsEntry(t *testing.T) {
	prices := StaticPrices{"ETHUSDT": "2000"}
	service := newTestPaperService(prices)
	ctx := context.Background()

	_, err := service.CreateOrder(ctx, marketOrder("ETHUSDT", models.SideTypeBuy, "1"))
	require.NoError(t, err)
	prices["ETHUSDT"] = "2100"
	_, err = service.CreateOrder(ctx, marketOrder("ETHUSDT", models.SideTypeSell, "3"))
	require.NoError(t, err)

	positions, err := service.GetPositions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-2", positions[0].PositionAmt)
	assert.Equal(t, "2100", positions[0].EntryPrice)
}

func TestLimitOrderRestsUntilCancelled(t *testing.T) {
	service := newTestPaperService(nil)
	ctx := context.Background()

	order, err := service.CreateOrder(ctx, models.OrderRequest{
		Symbol:      "BTCUSDT",
		Side:        models.SideTypeBuy,
		Type:        models.OrderTypeLimit,
		Quantity:    decimal.RequireFromString("0.01"),
		Price:       decimal.RequireFromString("30000"),
		TimeInForce: models.TimeInForceGTC,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusTypeNew, order.Status)
	assert.Equal(t, "30000", order.Price)

	open, err := service.GetOpenOrders(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Len(t, open, 1)

	open, err = service.GetOpenOrders(ctx, "ETHUSDT")
	require.NoError(t, err)
	assert.Empty(t, open)

	balance, err := service.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9700", balance.Assets[0].AvailableBalance)

	cancelled, err := service.CancelOrder(ctx, "BTCUSDT", order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusTypeCanceled, cancelled.Status)

	open, err = service.GetOpenOrders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestCancelUnknownOrder(t *testing.T) {
	service := newTestPaperService(nil)

	_, err := service.CancelOrder(context.Background(), "BTCUSDT", 99)

	var exchangeErr *models.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, int64(-2011), exchangeErr.Code)
}

func TestMarketOrderWithoutPrice(t *testing.T) {
	service := newTestPaperService(StaticPrices{})

	_, err := service.CreateOrder(context.Background(), marketOrder("DOGEUSDT", models.SideTypeBuy, "10"))

	assert.Error(t, err)
}

func TestFallbackPrices(t *testing.T) {
	prices := FallbackPrices{Primary: StaticPrices{"BTCUSDT": "70000"}, Secondary: DefaultPrices}

	price, err := prices.GetPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "70000", price)

	price, err = prices.GetPrice(context.Background(), "ETHUSDT")
	require.NoError(t, err)
	assert.Equal(t, "3500", price)

	_, err = FallbackPrices{Primary: StaticPrices{}}.GetPrice(context.Background(), "ETHUSDT")
	assert.Error(t, err)
}
