package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"gitlab.com/aoterocom/AOFuturesBot/helpers"
	"gitlab.com/aoterocom/AOFuturesBot/models"
	"gitlab.com/aoterocom/AOFuturesBot/orders"
	"gitlab.com/aoterocom/AOFuturesBot/services"
)

// Snapshot is everything one dashboard refresh shows
type Snapshot struct {
	Balance   []orders.BalanceRow
	Positions []orders.PositionRow
	Orders    []models.Order
	Err       error
	Time      time.Time
}

// Dashboard is the full-screen watch view
type Dashboard struct {
	TradingService  *services.TradingService
	Logger          *helpers.SessionLogger
	RefreshInterval time.Duration
	Mode            string
}

func NewDashboard(tradingService *services.TradingService, logger *helpers.SessionLogger, refreshInterval time.Duration, mode string) *Dashboard {
	return &Dashboard{
		TradingService:  tradingService,
		Logger:          logger,
		RefreshInterval: refreshInterval,
		Mode:            mode,
	}
}

func (d *Dashboard) Run(ctx context.Context) error {
	if err := termui.Init(); err != nil {
		d.Logger.Errorln(fmt.Sprintf("failed to initialize termui: %v", err))
		return err
	}
	defer termui.Close()

	d.render(d.Snapshot(ctx))

	uiEvents := termui.PollEvents()
	ticker := time.NewTicker(d.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				d.Logger.Infoln("Exited by keyboard interrupt")
				return nil
			case "<Resize>":
				termui.Clear()
				d.render(d.Snapshot(ctx))
			}
		case <-ticker.C:
			d.render(d.Snapshot(ctx))
		case <-ctx.Done():
			return nil
		}
	}
}

// Snapshot fetches and formats the account state. The first failure stops
// the refresh and is reported in the status panel.
func (d *Dashboard) Snapshot(ctx context.Context) Snapshot {
	snapshot := Snapshot{Time: time.Now()}

	balance, err := d.TradingService.GetAccountBalance(ctx)
	if err == nil {
		snapshot.Balance, err = orders.FormatBalance(balance)
	}
	if err != nil {
		snapshot.Err = err
		return snapshot
	}

	positions, err := d.TradingService.GetPositions(ctx)
	if err == nil {
		snapshot.Positions, err = orders.FormatPositions(positions)
	}
	if err != nil {
		snapshot.Err = err
		return snapshot
	}

	snapshot.Orders, snapshot.Err = d.TradingService.GetOpenOrders(ctx, "")
	return snapshot
}

func (d *Dashboard) render(snapshot Snapshot) {
	width, height := termui.TerminalDimensions()

	status := widgets.NewParagraph()
	status.Title = "Binance Futures " + d.Mode
	status.BorderStyle.Fg = termui.ColorCyan
	status.Text = StatusText(snapshot)
	status.SetRect(0, 0, width, 4)

	balanceTable := widgets.NewTable()
	balanceTable.Title = "Account Balance"
	balanceTable.Rows = BalanceRows(snapshot.Balance)
	balanceTable.TextStyle = termui.NewStyle(termui.ColorWhite)
	balanceTable.RowSeparator = false
	balanceTable.SetRect(0, 4, width/2, 4+tableHeight(balanceTable.Rows))

	positionsTable := widgets.NewTable()
	positionsTable.Title = "Open Positions"
	rows, negative := PositionRows(snapshot.Positions)
	positionsTable.Rows = rows
	positionsTable.RowSeparator = false
	positionsTable.TextStyle = termui.NewStyle(termui.ColorWhite)
	for _, i := range negative {
		positionsTable.RowStyles[i] = termui.NewStyle(termui.ColorRed)
	}
	positionsTable.SetRect(width/2, 4, width, 4+tableHeight(rows))

	top := 4 + max(tableHeight(balanceTable.Rows), tableHeight(rows))
	ordersTable := widgets.NewTable()
	ordersTable.Title = "Open Orders"
	ordersTable.Rows = OpenOrderRows(snapshot.Orders)
	ordersTable.RowSeparator = false
	ordersTable.TextStyle = termui.NewStyle(termui.ColorWhite)
	ordersTable.SetRect(0, top, width, min(height, top+tableHeight(ordersTable.Rows)))

	termui.Render(status, balanceTable, positionsTable, ordersTable)
}

// StatusText is the body of the status panel
func StatusText(snapshot Snapshot) string {
	text := "Last refresh: " + snapshot.Time.Format(orders.TimeLayout) + "   (q to quit)\n"
	if snapshot.Err != nil {
		return text + "[Error: " + snapshot.Err.Error() + "](fg:red)"
	}
	return text + fmt.Sprintf("Open orders: %d", len(snapshot.Orders))
}

// BalanceRows is the header plus one row per asset
func BalanceRows(rows []orders.BalanceRow) [][]string {
	table := [][]string{balanceHeader}
	for _, row := range rows {
		table = append(table, []string{row.Asset, row.Available, row.Total})
	}
	return table
}

// PositionRows returns the table rows and the indexes of losing positions
func PositionRows(rows []orders.PositionRow) ([][]string, []int) {
	table := [][]string{positionsHeader}
	var negative []int
	for _, row := range rows {
		if row.Tag == orders.PNLNegative {
			negative = append(negative, len(table))
		}
		table = append(table, row.Strings())
	}
	return table, negative
}

func OpenOrderRows(openOrders []models.Order) [][]string {
	table := [][]string{openOrderHeader}
	for _, order := range openOrders {
		table = append(table, openOrderCells(order))
	}
	return table
}

func tableHeight(rows [][]string) int {
	return len(rows) + 2
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
