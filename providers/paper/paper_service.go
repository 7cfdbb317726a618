package paper

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/aoterocom/AOFuturesBot/interfaces"
	"gitlab.com/aoterocom/AOFuturesBot/models"
)

// QuoteAsset is the margin asset of the simulated account
const QuoteAsset = "USDT"

// unknownOrder mirrors the exchange rejection for a missing order
var unknownOrder = models.ExchangeError{Code: -2011, Message: "Unknown order sent."}

type paperPosition struct {
	amount decimal.Decimal
	entry  decimal.Decimal
}

// PaperService simulates a one-way futures account in memory. Market orders
// fill at the quoted price, other orders rest until cancelled.
type PaperService struct {
	mutex      sync.Mutex
	prices     interfaces.PriceSource
	lastPrices map[string]decimal.Decimal
	wallet     decimal.Decimal
	nextID     int64
	openOrders []models.Order
	positions  map[string]*paperPosition
	now        func() time.Time
}

func NewPaperService(prices interfaces.PriceSource, walletBalance decimal.Decimal) *PaperService {
	return &PaperService{
		prices:     prices,
		lastPrices: map[string]decimal.Decimal{},
		wallet:     walletBalance,
		nextID:     1,
		positions:  map[string]*paperPosition{},
		now:        time.Now,
	}
}

func (paperService *PaperService) Ping(ctx context.Context) error {
	return nil
}

func (paperService *PaperService) CreateOrder(ctx context.Context, request models.OrderRequest) (models.Order, error) {
	paperService.mutex.Lock()
	defer paperService.mutex.Unlock()

	order := models.Order{
		Symbol:           request.Symbol,
		OrderID:          paperService.nextID,
		ClientOrderID:    request.ClientOrderID,
		OrigQuantity:     request.Quantity.String(),
		ExecutedQuantity: "0",
		Price:            "0",
		StopPrice:        "0",
		Type:             request.Type,
		Side:             request.Side,
		TimeInForce:      request.TimeInForce,
		UpdateTime:       paperService.now().UnixMilli(),
	}
	if request.HasPrice() {
		order.Price = request.Price.String()
	}
	if request.HasStopPrice() {
		order.StopPrice = request.StopPrice.String()
	}

	if request.Type != models.OrderTypeMarket {
		order.Status = models.OrderStatusTypeNew
		paperService.nextID++
		paperService.openOrders = append(paperService.openOrders, order)
		return order, nil
	}

	price, err := paperService.markPrice(ctx, request.Symbol)
	if err != nil {
		return models.Order{}, err
	}
	paperService.nextID++

	quantity := request.Quantity
	if request.Side == models.SideTypeSell {
		quantity = quantity.Neg()
	}
	paperService.fill(request.Symbol, quantity, price)

	order.Status = models.OrderStatusTypeFilled
	order.ExecutedQuantity = request.Quantity.String()
	order.AvgPrice = price.String()
	return order, nil
}

func (paperService *PaperService) CancelOrder(ctx context.Context, symbol string, orderID int64) (models.Order, error) {
	paperService.mutex.Lock()
	defer paperService.mutex.Unlock()

	for i, order := range paperService.openOrders {
		if order.OrderID == orderID && order.Symbol == symbol {
			paperService.openOrders = append(paperService.openOrders[:i], paperService.openOrders[i+1:]...)
			order.Status = models.OrderStatusTypeCanceled
			order.UpdateTime = paperService.now().UnixMilli()
			return order, nil
		}
	}
	err := unknownOrder
	return models.Order{}, &err
}

func (paperService *PaperService) GetAccountBalance(ctx context.Context) (models.AccountBalance, error) {
	paperService.mutex.Lock()
	defer paperService.mutex.Unlock()

	locked := decimal.Zero
	for _, order := range paperService.openOrders {
		price, _ := decimal.NewFromString(order.Price)
		quantity, _ := decimal.NewFromString(order.OrigQuantity)
		locked = locked.Add(price.Mul(quantity))
	}

	unrealized := decimal.Zero
	for symbol, position := range paperService.positions {
		unrealized = unrealized.Add(paperService.unrealized(ctx, symbol, position))
	}

	return models.AccountBalance{
		CanTrade: true,
		Assets: []models.AssetBalance{{
			Asset:            QuoteAsset,
			AvailableBalance: paperService.wallet.Add(unrealized).Sub(locked).Round(8).String(),
			WalletBalance:    paperService.wallet.Round(8).String(),
			UnrealizedProfit: unrealized.Round(8).String(),
		}},
	}, nil
}

func (paperService *PaperService) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	paperService.mutex.Lock()
	defer paperService.mutex.Unlock()

	var orders []models.Order
	for _, order := range paperService.openOrders {
		if symbol == "" || order.Symbol == symbol {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (paperService *PaperService) GetPositions(ctx context.Context) ([]models.Position, error) {
	paperService.mutex.Lock()
	defer paperService.mutex.Unlock()

	symbols := make([]string, 0, len(paperService.positions))
	for symbol := range paperService.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	positions := make([]models.Position, 0, len(symbols))
	for _, symbol := range symbols {
		position := paperService.positions[symbol]
		mark, _ := paperService.markPrice(ctx, symbol)
		positions = append(positions, models.Position{
			Symbol:           symbol,
			PositionAmt:      position.amount.String(),
			EntryPrice:       position.entry.Round(8).String(),
			MarkPrice:        mark.String(),
			UnRealizedProfit: paperService.unrealized(ctx, symbol, position).Round(8).String(),
			Leverage:         "1",
		})
	}
	return positions, nil
}

// fill applies a signed quantity to the symbol position and books any
// realized PNL into the wallet.
func (paperService *PaperService) fill(symbol string, quantity decimal.Decimal, price decimal.Decimal) {
	position, ok := paperService.positions[symbol]
	if !ok {
		position = &paperPosition{}
		paperService.positions[symbol] = position
	}

	if position.amount.IsZero() || position.amount.Sign() == quantity.Sign() {
		total := position.amount.Abs().Add(quantity.Abs())
		position.entry = position.entry.Mul(position.amount.Abs()).Add(price.Mul(quantity.Abs())).Div(total)
		position.amount = position.amount.Add(quantity)
		return
	}

	closed := decimal.Min(position.amount.Abs(), quantity.Abs())
	realized := price.Sub(position.entry).Mul(closed)
	if position.amount.IsNegative() {
		realized = realized.Neg()
	}
	paperService.wallet = paperService.wallet.Add(realized)

	previous := position.amount
	position.amount = position.amount.Add(quantity)
	switch {
	case position.amount.IsZero():
		position.entry = decimal.Zero
	case position.amount.Sign() != previous.Sign():
		position.entry = price
	}
}

func (paperService *PaperService) unrealized(ctx context.Context, symbol string, position *paperPosition) decimal.Decimal {
	if position.amount.IsZero() {
		return decimal.Zero
	}
	mark, err := paperService.markPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero
	}
	return mark.Sub(position.entry).Mul(position.amount)
}

// markPrice quotes symbol, falling back to the last price seen for it
func (paperService *PaperService) markPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if paperService.prices != nil {
		quote, err := paperService.prices.GetPrice(ctx, symbol)
		if err == nil {
			price, err := decimal.NewFromString(quote)
			if err == nil && price.IsPositive() {
				paperService.lastPrices[symbol] = price
				return price, nil
			}
		}
	}
	if price, ok := paperService.lastPrices[symbol]; ok {
		return price, nil
	}
	return decimal.Zero, fmt.Errorf("error: no price available for %s", symbol)
}

// StaticPrices is a fixed price table usable as a PriceSource offline
type StaticPrices map[string]string

func (s StaticPrices) GetPrice(ctx context.Context, symbol string) (string, error) {
	price, ok := s[symbol]
	if !ok {
		return "", fmt.Errorf("error: no static price for %s", symbol)
	}
	return price, nil
}

// DefaultPrices seeds paper trading when no live quote can be fetched
var DefaultPrices = StaticPrices{
	"BTCUSDT": "65000",
	"ETHUSDT": "3500",
	"BNBUSDT": "600",
	"SOLUSDT": "150",
}

// FallbackPrices asks Primary first and Secondary when Primary fails
type FallbackPrices struct {
	Primary   interfaces.PriceSource
	Secondary interfaces.PriceSource
}

func (f FallbackPrices) GetPrice(ctx context.Context, symbol string) (string, error) {
	price, err := f.Primary.GetPrice(ctx, symbol)
	if err == nil {
		return price, nil
	}
	if f.Secondary == nil {
		return "", err
	}
	return f.Secondary.GetPrice(ctx, symbol)
}
