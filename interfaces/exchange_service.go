package interfaces

import (
	"context"

	"gitlab.com/aoterocom/AOFuturesBot/models"
)

// ExchangeService is the authenticated futures client. Failures reported by
// the exchange come back as *models.ExchangeError.
type ExchangeService interface {
	Ping(ctx context.Context) error
	CreateOrder(ctx context.Context, request models.OrderRequest) (models.Order, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (models.Order, error)
	GetAccountBalance(ctx context.Context) (models.AccountBalance, error)
	// GetOpenOrders lists every symbol when symbol is empty
	GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error)
	GetPositions(ctx context.Context) ([]models.Position, error)
}

// PriceSource quotes the current mark price of a symbol
type PriceSource interface {
	GetPrice(ctx context.Context, symbol string) (string, error)
}
