package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/aoterocom/AOFuturesBot/helpers"
	"gitlab.com/aoterocom/AOFuturesBot/interfaces"
	"gitlab.com/aoterocom/AOFuturesBot/models"
	"gitlab.com/aoterocom/AOFuturesBot/orders"
)

// TradingService validates requests, calls the exchange and logs both
// outcomes. Errors are returned as received.
type TradingService struct {
	exchangeService interfaces.ExchangeService
	logger          *helpers.SessionLogger
	timeout         time.Duration
}

func NewTradingService(exchangeService interfaces.ExchangeService, logger *helpers.SessionLogger, timeout time.Duration) *TradingService {
	return &TradingService{
		exchangeService: exchangeService,
		logger:          logger,
		timeout:         timeout,
	}
}

// Connect checks credentials and connectivity before the session starts
func (ts *TradingService) Connect(ctx context.Context, mode string, baseURL string) error {
	ts.logger.Infoln("Initializing Binance client...")
	ts.logger.Infoln("Mode: " + mode)
	if baseURL != "" {
		ts.logger.Infoln("Base URL: " + baseURL)
	}
	ts.logger.Infoln("Testing API connection...")

	ctx, cancel := ts.withTimeout(ctx)
	defer cancel()
	if err := ts.exchangeService.Ping(ctx); err != nil {
		ts.logError("Error during initialization", err)
		return err
	}
	ts.logger.Infoln("✓ Successfully connected to Binance Futures API")
	return nil
}

func (ts *TradingService) PlaceMarketOrder(ctx context.Context, symbol, side, quantity string) (models.Order, error) {
	request, err := orders.NewMarketOrder(symbol, side, quantity)
	if err != nil {
		ts.logger.Warnln("Rejected market order: " + err.Error())
		return models.Order{}, err
	}
	return ts.PlaceOrder(ctx, request)
}

func (ts *TradingService) PlaceLimitOrder(ctx context.Context, symbol, side, quantity, price, timeInForce string) (models.Order, error) {
	request, err := orders.NewLimitOrder(symbol, side, quantity, price, timeInForce)
	if err != nil {
		ts.logger.Warnln("Rejected limit order: " + err.Error())
		return models.Order{}, err
	}
	return ts.PlaceOrder(ctx, request)
}

func (ts *TradingService) PlaceStopLimitOrder(ctx context.Context, symbol, side, quantity, price, stopPrice, timeInForce string) (models.Order, error) {
	request, err := orders.NewStopLimitOrder(symbol, side, quantity, price, stopPrice, timeInForce)
	if err != nil {
		ts.logger.Warnln("Rejected stop-limit order: " + err.Error())
		return models.Order{}, err
	}
	return ts.PlaceOrder(ctx, request)
}

// PlaceOrder submits an already validated request
func (ts *TradingService) PlaceOrder(ctx context.Context, request models.OrderRequest) (models.Order, error) {
	ts.logger.Infoln("Placing " + Describe(request))

	ctx, cancel := ts.withTimeout(ctx)
	defer cancel()
	order, err := ts.exchangeService.CreateOrder(ctx, request)
	if err != nil {
		ts.logError(fmt.Sprintf("Error placing %s order", request.Type.Label()), err)
		return models.Order{}, err
	}

	ts.logger.Notifyln(fmt.Sprintf("✓ %s order placed: %s %s %s (ID %d, %s)", request.Type.Label(),
		request.Side, request.Quantity, request.Symbol, order.OrderID, order.Status))
	ts.logger.Debugln(fmt.Sprintf("Full order response: %+v", order))
	return order, nil
}

func (ts *TradingService) CancelOrder(ctx context.Context, symbol string, orderID string) (models.Order, error) {
	validSymbol, err := orders.ValidateSymbol(symbol)
	if err != nil {
		return models.Order{}, err
	}
	id, err := orders.ValidateOrderID(orderID)
	if err != nil {
		return models.Order{}, err
	}
	ts.logger.Infoln(fmt.Sprintf("Cancelling order %d for %s...", id, validSymbol))

	ctx, cancel := ts.withTimeout(ctx)
	defer cancel()
	order, err := ts.exchangeService.CancelOrder(ctx, validSymbol, id)
	if err != nil {
		ts.logError("Error cancelling order", err)
		return models.Order{}, err
	}

	ts.logger.Notifyln(fmt.Sprintf("✓ Order %d for %s cancelled", id, validSymbol))
	ts.logger.Debugln(fmt.Sprintf("Cancellation response: %+v", order))
	return order, nil
}

func (ts *TradingService) GetAccountBalance(ctx context.Context) (models.AccountBalance, error) {
	ts.logger.Infoln("Fetching account balance...")

	ctx, cancel := ts.withTimeout(ctx)
	defer cancel()
	balance, err := ts.exchangeService.GetAccountBalance(ctx)
	if err != nil {
		ts.logError("Error fetching balance", err)
		return models.AccountBalance{}, err
	}
	ts.logger.Debugln(fmt.Sprintf("Balance data: %+v", balance))
	return balance, nil
}

// GetOpenOrders lists open orders, for every symbol when symbol is blank
func (ts *TradingService) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	var err error
	suffix := ""
	if symbol != "" {
		if symbol, err = orders.ValidateSymbol(symbol); err != nil {
			return nil, err
		}
		suffix = " for " + symbol
	}
	ts.logger.Infoln("Fetching open orders" + suffix + "...")

	ctx, cancel := ts.withTimeout(ctx)
	defer cancel()
	openOrders, err := ts.exchangeService.GetOpenOrders(ctx, symbol)
	if err != nil {
		ts.logError("Error fetching open orders", err)
		return nil, err
	}
	ts.logger.Infoln(fmt.Sprintf("Found %d open order(s)", len(openOrders)))
	ts.logger.Debugln(fmt.Sprintf("Orders: %+v", openOrders))
	return openOrders, nil
}

func (ts *TradingService) GetPositions(ctx context.Context) ([]models.Position, error) {
	ts.logger.Infoln("Fetching positions...")

	ctx, cancel := ts.withTimeout(ctx)
	defer cancel()
	positions, err := ts.exchangeService.GetPositions(ctx)
	if err != nil {
		ts.logError("Error fetching positions", err)
		return nil, err
	}
	ts.logger.Debugln(fmt.Sprintf("Positions: %+v", positions))
	return positions, nil
}

// Describe renders a request the way it is logged and previewed
func Describe(request models.OrderRequest) string {
	description := fmt.Sprintf("%s order: %s %s %s", request.Type.Label(), request.Side, request.Quantity, request.Symbol)
	if request.HasPrice() {
		description += " @ " + request.Price.String()
	}
	if request.HasStopPrice() {
		description += " (stop: " + request.StopPrice.String() + ")"
	}
	return description
}

func (ts *TradingService) logError(action string, err error) {
	var exchangeErr *models.ExchangeError
	if errors.As(err, &exchangeErr) {
		ts.logger.Errorln(fmt.Sprintf("Binance API Error: %v", err))
		ts.logger.Errorln(fmt.Sprintf("Error code: %d, Message: %s", exchangeErr.Code, exchangeErr.Message))
		return
	}
	ts.logger.Errorln(fmt.Sprintf("%s: %v", action, err))
}

func (ts *TradingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ts.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, ts.timeout)
}
