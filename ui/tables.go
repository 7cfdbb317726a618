package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gitlab.com/aoterocom/AOFuturesBot/models"
	"gitlab.com/aoterocom/AOFuturesBot/orders"
)

var (
	balanceHeader   = []string{"Asset", "Available", "Total"}
	positionsHeader = []string{"Symbol", "Side", "Amount", "Entry Price", "Unrealized PNL"}
	openOrderHeader = []string{"Order ID", "Symbol", "Side", "Type", "Quantity", "Price", "Stop Price", "Status"}

	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	titleColor   = color.New(color.FgCyan, color.Bold)
)

func newTable(w io.Writer, title string, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetCaption(true, title)
	table.SetAutoWrapText(false)
	return table
}

// RenderOrder prints the Order Details table
func RenderOrder(w io.Writer, order models.Order) {
	table := newTable(w, "Order Details", []string{"Field", "Value"})
	for _, field := range orders.FormatOrder(order) {
		table.Append([]string{field.Label, field.Value})
	}
	table.Render()
}

// RenderOpenOrders prints one row per resting order
func RenderOpenOrders(w io.Writer, openOrders []models.Order) {
	table := newTable(w, "Open Orders", openOrderHeader)
	for _, order := range openOrders {
		table.Append(openOrderCells(order))
	}
	table.Render()
}

func RenderBalance(w io.Writer, rows []orders.BalanceRow) {
	table := newTable(w, "Account Balance", balanceHeader)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, row := range rows {
		table.Append([]string{row.Asset, row.Available, row.Total})
	}
	table.Render()
}

// RenderPositions prints the Open Positions table, PNL in green or red
func RenderPositions(w io.Writer, rows []orders.PositionRow) {
	table := newTable(w, "Open Positions", positionsHeader)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, row := range rows {
		if row.IsSentinel() {
			table.Append(row.Strings())
			continue
		}
		pnlColor := tablewriter.Colors{tablewriter.FgGreenColor}
		if row.Tag == orders.PNLNegative {
			pnlColor = tablewriter.Colors{tablewriter.FgRedColor}
		}
		table.Rich(row.Strings(), []tablewriter.Colors{{}, {}, {}, {}, pnlColor})
	}
	table.Render()
}

func openOrderCells(order models.Order) []string {
	return []string{
		strconv.FormatInt(order.OrderID, 10),
		order.Symbol,
		string(order.Side),
		order.Type.Label(),
		order.OrigQuantity,
		order.Price,
		order.StopPrice,
		string(order.Status),
	}
}

func success(w io.Writer, message string) {
	successColor.Fprintln(w, message)
}

func warning(w io.Writer, message string) {
	warningColor.Fprintln(w, message)
}

func title(w io.Writer, message string) {
	titleColor.Fprintln(w, message)
}

// failure prints "<prefix>: <message>"
func failure(w io.Writer, prefix string, message string) {
	errorColor.Fprint(w, prefix+":")
	fmt.Fprintln(w, " "+message)
}

func separator(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("─", 50))
}
