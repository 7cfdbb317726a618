package orders

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/aoterocom/AOFuturesBot/models"
)

// TimeLayout is how order update times are shown
const TimeLayout = "2006-01-02 15:04:05"

// NoPositions labels the single row shown when nothing is open
const NoPositions = "No open positions"

// PNLTag classifies an unrealized PNL for colouring
type PNLTag string

const (
	PNLPositive PNLTag = "positive"
	PNLNegative PNLTag = "negative"
)

// Field is a label/value row of an order table
type Field struct {
	Label string
	Value string
}

// BalanceRow is one asset of the balance table
type BalanceRow struct {
	Asset     string
	Available string
	Total     string
}

// PositionRow is one line of the positions table
type PositionRow struct {
	Symbol     string
	Side       string
	Amount     string
	EntryPrice string
	PNL        string
	Tag        PNLTag
}

// IsSentinel reports whether the row stands for "no positions"
func (r PositionRow) IsSentinel() bool {
	return r.Symbol == NoPositions && r.Side == ""
}

// Strings returns the row cells in column order
func (r PositionRow) Strings() []string {
	return []string{r.Symbol, r.Side, r.Amount, r.EntryPrice, r.PNL}
}

// FormatOrder projects the recognised order fields, in display order, skipping
// the ones that are absent, empty or zero.
func FormatOrder(order models.Order) []Field {
	candidates := []Field{
		{"Order ID", strconv.FormatInt(order.OrderID, 10)},
		{"Symbol", order.Symbol},
		{"Side", string(order.Side)},
		{"Type", string(order.Type)},
		{"Status", string(order.Status)},
		{"Quantity", order.OrigQuantity},
		{"Price", order.Price},
		{"Stop Price", order.StopPrice},
		{"Executed Qty", order.ExecutedQuantity},
		{"Time", ""},
	}
	if order.UpdateTime != 0 {
		candidates[len(candidates)-1].Value = time.UnixMilli(order.UpdateTime).Local().Format(TimeLayout)
	}

	fields := make([]Field, 0, len(candidates))
	for _, field := range candidates {
		if field.Value == "" || field.Value == "0" {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

// FormatBalance lists the assets holding a positive wallet balance
func FormatBalance(balance models.AccountBalance) ([]BalanceRow, error) {
	var rows []BalanceRow
	for _, asset := range balance.Assets {
		wallet, err := parse("walletBalance", asset.WalletBalance)
		if err != nil {
			return nil, err
		}
		if !wallet.IsPositive() {
			continue
		}
		available, err := parse("availableBalance", asset.AvailableBalance)
		if err != nil {
			return nil, err
		}
		rows = append(rows, BalanceRow{
			Asset:     asset.Asset,
			Available: available.StringFixed(8),
			Total:     wallet.StringFixed(8),
		})
	}
	return rows, nil
}

// FormatPositions lists the non-flat positions. When none qualify a single
// NoPositions row is returned instead of an empty slice.
func FormatPositions(positions []models.Position) ([]PositionRow, error) {
	var rows []PositionRow
	for _, position := range positions {
		amount, err := parse("positionAmt", position.PositionAmt)
		if err != nil {
			return nil, err
		}
		if amount.IsZero() {
			continue
		}
		pnl, err := parse("unRealizedProfit", position.UnRealizedProfit)
		if err != nil {
			return nil, err
		}

		side := "LONG"
		if amount.IsNegative() {
			side = "SHORT"
		}
		tag := PNLPositive
		if pnl.IsNegative() {
			tag = PNLNegative
		}
		rows = append(rows, PositionRow{
			Symbol:     position.Symbol,
			Side:       side,
			Amount:     position.PositionAmt,
			EntryPrice: position.EntryPrice,
			PNL:        strconv.FormatFloat(pnl.InexactFloat64(), 'f', 2, 64),
			Tag:        tag,
		})
	}

	if len(rows) == 0 {
		return []PositionRow{{Symbol: NoPositions}}, nil
	}
	return rows, nil
}

func parse(field string, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &FormatError{Field: field, Value: value, Err: err}
	}
	return d, nil
}
