package binance

import (
	"context"
	"errors"
	"fmt"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/google/uuid"
	"gitlab.com/aoterocom/AOFuturesBot/models"
)

const (
	TestnetBaseURL = "https://testnet.binancefuture.com"
	MainnetBaseURL = "https://fapi.binance.com"
)

// BinanceService talks to the USDⓈ-M futures REST API
type BinanceService struct {
	binanceClient *futures.Client
}

func NewBinanceService(apiKey string, apiSecret string, baseURL string) *BinanceService {
	client := futures.NewClient(apiKey, apiSecret)
	client.BaseURL = baseURL
	return &BinanceService{
		binanceClient: client,
	}
}

func (binanceService *BinanceService) Ping(ctx context.Context) error {
	if err := binanceService.binanceClient.NewPingService().Do(ctx); err != nil {
		return exchangeError(err)
	}
	if _, err := binanceService.binanceClient.NewGetAccountService().Do(ctx); err != nil {
		return exchangeError(err)
	}
	return nil
}

func (binanceService *BinanceService) CreateOrder(ctx context.Context, request models.OrderRequest) (models.Order, error) {
	clientOrderID := request.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	preparedOrder := binanceService.binanceClient.NewCreateOrderService().Symbol(request.Symbol).
		Side(futures.SideType(request.Side)).Type(futures.OrderType(request.Type)).
		Quantity(request.Quantity.String()).NewClientOrderID(clientOrderID)

	if request.HasPrice() {
		preparedOrder = preparedOrder.Price(request.Price.String()).
			TimeInForce(futures.TimeInForceType(request.TimeInForce))
	}
	if request.HasStopPrice() {
		preparedOrder = preparedOrder.StopPrice(request.StopPrice.String())
	}

	order, err := preparedOrder.Do(ctx)
	if err != nil {
		return models.Order{}, exchangeError(err)
	}
	return binanceService.orderResponseToOrder(*order), nil
}

func (binanceService *BinanceService) CancelOrder(ctx context.Context, symbol string, orderID int64) (models.Order, error) {
	order, err := binanceService.binanceClient.NewCancelOrderService().Symbol(symbol).
		OrderID(orderID).Do(ctx)
	if err != nil {
		return models.Order{}, exchangeError(err)
	}
	return binanceService.cancelResponseToOrder(*order), nil
}

func (binanceService *BinanceService) GetAccountBalance(ctx context.Context) (models.AccountBalance, error) {
	account, err := binanceService.binanceClient.NewGetAccountService().Do(ctx)
	if err != nil {
		return models.AccountBalance{}, exchangeError(err)
	}

	balance := models.AccountBalance{CanTrade: account.CanTrade}
	for _, asset := range account.Assets {
		balance.Assets = append(balance.Assets, models.AssetBalance{
			Asset:            asset.Asset,
			AvailableBalance: asset.AvailableBalance,
			WalletBalance:    asset.WalletBalance,
			UnrealizedProfit: asset.UnrealizedProfit,
		})
	}
	return balance, nil
}

func (binanceService *BinanceService) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	service := binanceService.binanceClient.NewListOpenOrdersService()
	if symbol != "" {
		service = service.Symbol(symbol)
	}
	orders, err := service.Do(ctx)
	if err != nil {
		return nil, exchangeError(err)
	}
	return binanceService.orderListToModelsOrderList(orders), nil
}

func (binanceService *BinanceService) GetPositions(ctx context.Context) ([]models.Position, error) {
	risks, err := binanceService.binanceClient.NewGetPositionRiskService().Do(ctx)
	if err != nil {
		return nil, exchangeError(err)
	}

	positions := make([]models.Position, 0, len(risks))
	for _, risk := range risks {
		positions = append(positions, models.Position{
			Symbol:           risk.Symbol,
			PositionAmt:      risk.PositionAmt,
			EntryPrice:       risk.EntryPrice,
			MarkPrice:        risk.MarkPrice,
			UnRealizedProfit: risk.UnRealizedProfit,
			Leverage:         risk.Leverage,
		})
	}
	return positions, nil
}

// GetPrice returns the last traded price of symbol. It needs no credentials.
func (binanceService *BinanceService) GetPrice(ctx context.Context, symbol string) (string, error) {
	prices, err := binanceService.binanceClient.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", exchangeError(err)
	}
	for _, price := range prices {
		if price.Symbol == symbol {
			return price.Price, nil
		}
	}
	return "", fmt.Errorf("error: no price returned for %s", symbol)
}

func (binanceService *BinanceService) orderResponseToOrder(o futures.CreateOrderResponse) models.Order {
	return models.Order{
		Symbol:           o.Symbol,
		OrderID:          o.OrderID,
		ClientOrderID:    o.ClientOrderID,
		Price:            o.Price,
		AvgPrice:         o.AvgPrice,
		OrigQuantity:     o.OrigQuantity,
		ExecutedQuantity: o.ExecutedQuantity,
		Status:           models.OrderStatusType(o.Status),
		Type:             models.OrderType(o.Type),
		Side:             models.OrderSide(o.Side),
		StopPrice:        o.StopPrice,
		TimeInForce:      models.TimeInForce(o.TimeInForce),
		UpdateTime:       o.UpdateTime,
	}
}

func (binanceService *BinanceService) cancelResponseToOrder(o futures.CancelOrderResponse) models.Order {
	return models.Order{
		Symbol:           o.Symbol,
		OrderID:          o.OrderID,
		ClientOrderID:    o.ClientOrderID,
		Price:            o.Price,
		OrigQuantity:     o.OrigQuantity,
		ExecutedQuantity: o.ExecutedQuantity,
		Status:           models.OrderStatusType(o.Status),
		Type:             models.OrderType(o.Type),
		Side:             models.OrderSide(o.Side),
		StopPrice:        o.StopPrice,
		TimeInForce:      models.TimeInForce(o.TimeInForce),
		UpdateTime:       o.UpdateTime,
	}
}

func (binanceService *BinanceService) orderToModelsOrder(o futures.Order) models.Order {
	return models.Order{
		Symbol:           o.Symbol,
		OrderID:          o.OrderID,
		ClientOrderID:    o.ClientOrderID,
		Price:            o.Price,
		AvgPrice:         o.AvgPrice,
		OrigQuantity:     o.OrigQuantity,
		ExecutedQuantity: o.ExecutedQuantity,
		Status:           models.OrderStatusType(o.Status),
		Type:             models.OrderType(o.Type),
		Side:             models.OrderSide(o.Side),
		StopPrice:        o.StopPrice,
		TimeInForce:      models.TimeInForce(o.TimeInForce),
		UpdateTime:       o.UpdateTime,
	}
}

func (binanceService *BinanceService) orderListToModelsOrderList(ol []*futures.Order) []models.Order {
	modelsOrderList := make([]models.Order, 0, len(ol))
	for _, binOrder := range ol {
		modelsOrderList = append(modelsOrderList, binanceService.orderToModelsOrder(*binOrder))
	}
	return modelsOrderList
}

// exchangeError keeps the exchange code and message and hides the SDK type
func exchangeError(err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return &models.ExchangeError{Code: apiErr.Code, Message: apiErr.Message}
	}
	return err
}
