package orders

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gitlab.com/aoterocom/AOFuturesBot/models"
)

// ValidateSymbol trims and upper-cases a trading pair symbol
func ValidateSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", invalid("symbol", "Symbol cannot be empty")
	}
	return symbol, nil
}

// ValidateSide accepts BUY or SELL in any case
func ValidateSide(raw string) (models.OrderSide, error) {
	side := models.OrderSide(strings.ToUpper(strings.TrimSpace(raw)))
	if side != models.SideTypeBuy && side != models.SideTypeSell {
		return "", invalid("side", "Invalid side. Must be BUY or SELL")
	}
	return side, nil
}

// ValidateQuantity parses a strictly positive order quantity
func ValidateQuantity(raw string) (decimal.Decimal, error) {
	return positive("quantity", "Invalid quantity. Must be a positive number", raw)
}

// ValidatePrice parses a strictly positive price. It is used for both the
// limit price and the stop price.
func ValidatePrice(raw string) (decimal.Decimal, error) {
	return positive("price", "Invalid price. Must be a positive number", raw)
}

// ValidateTimeInForce defaults to GTC when raw is blank
func ValidateTimeInForce(raw string) (models.TimeInForce, error) {
	tif := models.TimeInForce(strings.ToUpper(strings.TrimSpace(raw)))
	switch tif {
	case "":
		return models.TimeInForceGTC, nil
	case models.TimeInForceGTC, models.TimeInForceIOC, models.TimeInForceFOK, models.TimeInForceGTX:
		return tif, nil
	}
	return "", invalid("timeInForce", "Invalid time in force. Must be GTC, IOC, FOK or GTX")
}

// ValidateOrderID parses the exchange order id used for cancellation
func ValidateOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("orderId", "Invalid order ID. Must be a positive integer")
	}
	return id, nil
}

func positive(field string, message string, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !value.IsPositive() {
		return decimal.Zero, invalid(field, message)
	}
	return value, nil
}

// NewMarketOrder validates the raw fields of a market order
func NewMarketOrder(symbol, side, quantity string) (models.OrderRequest, error) {
	return newOrder(models.OrderTypeMarket, symbol, side, quantity, "", "", "")
}

// NewLimitOrder validates the raw fields of a limit order
func NewLimitOrder(symbol, side, quantity, price, timeInForce string) (models.OrderRequest, error) {
	return newOrder(models.OrderTypeLimit, symbol, side, quantity, price, "", timeInForce)
}

// NewStopLimitOrder validates the raw fields of a stop-limit order. price is
// the limit price used once stopPrice triggers.
func NewStopLimitOrder(symbol, side, quantity, price, stopPrice, timeInForce string) (models.OrderRequest, error) {
	return newOrder(models.OrderTypeStop, symbol, side, quantity, price, stopPrice, timeInForce)
}

func newOrder(orderType models.OrderType, symbol, side, quantity, price, stopPrice, timeInForce string) (models.OrderRequest, error) {
	var err error
	req := models.OrderRequest{Type: orderType}

	if req.Symbol, err = ValidateSymbol(symbol); err != nil {
		return models.OrderRequest{}, err
	}
	if req.Side, err = ValidateSide(side); err != nil {
		return models.OrderRequest{}, err
	}
	if req.Quantity, err = ValidateQuantity(quantity); err != nil {
		return models.OrderRequest{}, err
	}
	if req.HasPrice() {
		if req.Price, err = ValidatePrice(price); err != nil {
			return models.OrderRequest{}, err
		}
		if req.TimeInForce, err = ValidateTimeInForce(timeInForce); err != nil {
			return models.OrderRequest{}, err
		}
	}
	if req.HasStopPrice() {
		if req.StopPrice, err = ValidatePrice(stopPrice); err != nil {
			return models.OrderRequest{}, &InvalidInputError{Field: "stopPrice", Message: "Invalid stop price. Must be a positive number"}
		}
	}
	return req, nil
}
