package models

import "github.com/shopspring/decimal"

// Order is the exchange view of a futures order, as returned by order
// placement, cancellation and open-orders queries.
type Order struct {
	Symbol           string          `json:"symbol"`
	OrderID          int64           `json:"orderId"`
	ClientOrderID    string          `json:"clientOrderId"`
	Price            string          `json:"price"`
	AvgPrice         string          `json:"avgPrice"`
	OrigQuantity     string          `json:"origQty"`
	ExecutedQuantity string          `json:"executedQty"`
	Status           OrderStatusType `json:"status"`
	Type             OrderType       `json:"type"`
	Side             OrderSide       `json:"side"`
	StopPrice        string          `json:"stopPrice"`
	TimeInForce      TimeInForce     `json:"timeInForce"`
	UpdateTime       int64           `json:"updateTime"`
}

// OrderRequest is a validated order ready to be sent to the exchange.
// Build it with the constructors in the orders package.
type OrderRequest struct {
	Symbol        string
	Side          OrderSide
	Type          OrderType
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	StopPrice     decimal.Decimal
	TimeInForce   TimeInForce
	ClientOrderID string
}

// HasPrice reports whether the order type carries a limit price
func (r OrderRequest) HasPrice() bool {
	return r.Type == OrderTypeLimit || r.Type == OrderTypeStop
}

// HasStopPrice reports whether the order type carries a trigger price
func (r OrderRequest) HasStopPrice() bool {
	return r.Type == OrderTypeStop || r.Type == OrderTypeStopMarket || r.Type == OrderTypeTakeProfitMarket
}

// OrderStatusType define order status type
type OrderStatusType string

// OrderType define order type
type OrderType string

// OrderSide define order side
type OrderSide string

// TimeInForce define how long an order stays on the book
type TimeInForce string

// Global enums
const (
	SideTypeBuy  OrderSide = "BUY"
	SideTypeSell OrderSide = "SELL"

	OrderTypeMarket           OrderType = "MARKET"
	OrderTypeLimit            OrderType = "LIMIT"
	OrderTypeStop             OrderType = "STOP"
	OrderTypeStopMarket       OrderType = "STOP_MARKET"
	OrderTypeTakeProfitMarket OrderType = "TAKE_PROFIT_MARKET"

	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
	TimeInForceGTX TimeInForce = "GTX"

	OrderStatusTypeNew             OrderStatusType = "NEW"
	OrderStatusTypePartiallyFilled OrderStatusType = "PARTIALLY_FILLED"
	OrderStatusTypeFilled          OrderStatusType = "FILLED"
	OrderStatusTypeCanceled        OrderStatusType = "CANCELED"
	OrderStatusTypeRejected        OrderStatusType = "REJECTED"
	OrderStatusTypeExpired         OrderStatusType = "EXPIRED"
)

// Label is the human name of the order type used in previews and log lines
func (t OrderType) Label() string {
	if t == OrderTypeStop {
		return "STOP-LIMIT"
	}
	return string(t)
}
