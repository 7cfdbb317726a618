package mocks

import (
	"context"
	"sync"

	"gitlab.com/aoterocom/AOFuturesBot/models"
)

// ExchangeMock answers every call with canned data and records what it was
// asked to do.
type ExchangeMock struct {
	mu sync.Mutex

	Err       error
	Order     models.Order
	Balance   models.AccountBalance
	Orders    []models.Order
	Positions []models.Position

	Calls    []string
	Requests []models.OrderRequest
}

func NewExchangeMock() *ExchangeMock {
	return &ExchangeMock{
		Order: models.Order{
			Symbol:           "BTCUSDT",
			OrderID:          1234,
			Status:           models.OrderStatusTypeNew,
			Type:             models.OrderTypeMarket,
			Side:             models.SideTypeBuy,
			OrigQuantity:     "0.001",
			ExecutedQuantity: "0",
		},
		Balance: models.AccountBalance{
			CanTrade: true,
			Assets: []models.AssetBalance{
				{Asset: "USDT", AvailableBalance: "1000", WalletBalance: "1000"},
			},
		},
	}
}

func (m *ExchangeMock) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
	return m.Err
}

// CallCount is the number of exchange calls made so far
func (m *ExchangeMock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *ExchangeMock) Ping(ctx context.Context) error {
	return m.record("Ping")
}

func (m *ExchangeMock) CreateOrder(ctx context.Context, request models.OrderRequest) (models.Order, error) {
	if err := m.record("CreateOrder"); err != nil {
		return models.Order{}, err
	}
	m.mu.Lock()
	m.Requests = append(m.Requests, request)
	m.mu.Unlock()

	order := m.Order
	order.Symbol = request.Symbol
	order.Side = request.Side
	order.Type = request.Type
	order.OrigQuantity = request.Quantity.String()
	if request.HasPrice() {
		order.Price = request.Price.String()
	}
	if request.HasStopPrice() {
		order.StopPrice = request.StopPrice.String()
	}
	return order, nil
}

func (m *ExchangeMock) CancelOrder(ctx context.Context, symbol string, orderID int64) (models.Order, error) {
	if err := m.record("CancelOrder"); err != nil {
		return models.Order{}, err
	}
	order := m.Order
	order.Symbol = symbol
	order.OrderID = orderID
	order.Status = models.OrderStatusTypeCanceled
	return order, nil
}

func (m *ExchangeMock) GetAccountBalance(ctx context.Context) (models.AccountBalance, error) {
	if err := m.record("GetAccountBalance"); err != nil {
		return models.AccountBalance{}, err
	}
	return m.Balance, nil
}

func (m *ExchangeMock) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	if err := m.record("GetOpenOrders:" + symbol); err != nil {
		return nil, err
	}
	return m.Orders, nil
}

func (m *ExchangeMock) GetPositions(ctx context.Context) ([]models.Position, error) {
	if err := m.record("GetPositions"); err != nil {
		return nil, err
	}
	return m.Positions, nil
}
