package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gitlab.com/aoterocom/AOFuturesBot/helpers"
	"gitlab.com/aoterocom/AOFuturesBot/models"
	"gitlab.com/aoterocom/AOFuturesBot/orders"
	"gitlab.com/aoterocom/AOFuturesBot/services"
)

var sides = []string{string(models.SideTypeBuy), string(models.SideTypeSell)}

type menuEntry struct {
	key    string
	label  string
	action func(ctx context.Context) error
}

// Shell is the interactive menu loop. One action runs at a time and any
// failure brings the user back to the menu.
type Shell struct {
	TradingService *services.TradingService
	Prompter       Prompter
	Out            io.Writer
	Logger         *helpers.SessionLogger
	menu           []menuEntry
}

func NewShell(tradingService *services.TradingService, prompter Prompter, out io.Writer, logger *helpers.SessionLogger) *Shell {
	shell := &Shell{
		TradingService: tradingService,
		Prompter:       prompter,
		Out:            out,
		Logger:         logger,
	}
	shell.menu = []menuEntry{
		{"1", "Place Market Order", shell.placeMarketOrder},
		{"2", "Place Limit Order", shell.placeLimitOrder},
		{"3", "Place Stop-Limit Order", shell.placeStopLimitOrder},
		{"4", "View Account Balance", shell.viewBalance},
		{"5", "View Open Orders", shell.viewOpenOrders},
		{"6", "View Positions", shell.viewPositions},
		{"7", "Cancel Order", shell.cancelOrder},
		{"0", "Exit", nil},
	}
	return shell
}

// Banner prints the session header
func (s *Shell) Banner(mode string) {
	title(s.Out, "Binance Futures Trading Bot")
	fmt.Fprintf(s.Out, "Mode: %s\n", mode)
	if s.Logger.Path() != "" {
		fmt.Fprintf(s.Out, "Log file: %s\n", s.Logger.Path())
	}
	fmt.Fprintln(s.Out)
}

// Run loops until Exit is chosen, the input ends or ctx is cancelled
func (s *Shell) Run(ctx context.Context) error {
	items := make([]string, len(s.menu))
	for i, entry := range s.menu {
		items[i] = entry.key + ". " + entry.label
	}

	for {
		if ctx.Err() != nil {
			s.interrupted()
			return nil
		}

		choice, err := s.Prompter.Select("Main Menu", items)
		if errors.Is(err, ErrQuit) {
			s.interrupted()
			return nil
		}
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(s.menu) {
			warning(s.Out, "Unknown option")
			continue
		}

		entry := s.menu[choice]
		if entry.action == nil {
			s.goodbye()
			return nil
		}

		err = entry.action(ctx)
		if errors.Is(err, ErrQuit) {
			s.interrupted()
			return nil
		}
		if err != nil {
			Report(s.Out, s.Logger, err)
		}
		separator(s.Out)
	}
}

func (s *Shell) placeMarketOrder(ctx context.Context) error {
	title(s.Out, "\nPlace Market Order")
	symbol, side, quantity, err := s.askOrder()
	if err != nil {
		return err
	}

	s.preview([][2]string{{"Type", "MARKET"}, {"Symbol", symbol}, {"Side", side}, {"Quantity", quantity}})
	if ok, err := s.confirm("Place this order"); !ok {
		return err
	}

	order, err := s.TradingService.PlaceMarketOrder(ctx, symbol, side, quantity)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	RenderOrder(s.Out, order)
	success(s.Out, "✓ Order executed successfully!")
	return nil
}

func (s *Shell) placeLimitOrder(ctx context.Context) error {
	title(s.Out, "\nPlace Limit Order")
	symbol, side, quantity, err := s.askOrder()
	if err != nil {
		return err
	}
	price, err := s.Prompter.Ask("Limit Price", "")
	if err != nil {
		return err
	}
	timeInForce, err := s.Prompter.Ask("Time in force", string(models.TimeInForceGTC))
	if err != nil {
		return err
	}

	s.preview([][2]string{{"Type", "LIMIT"}, {"Symbol", symbol}, {"Side", side}, {"Quantity", quantity},
		{"Price", price}, {"Time in force", timeInForce}})
	if ok, err := s.confirm("Place this order"); !ok {
		return err
	}

	order, err := s.TradingService.PlaceLimitOrder(ctx, symbol, side, quantity, price, timeInForce)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	RenderOrder(s.Out, order)
	success(s.Out, "✓ Order placed successfully!")
	return nil
}

func (s *Shell) placeStopLimitOrder(ctx context.Context) error {
	title(s.Out, "\nPlace Stop-Limit Order")
	symbol, side, quantity, err := s.askOrder()
	if err != nil {
		return err
	}
	stopPrice, err := s.Prompter.Ask("Stop Price (trigger)", "")
	if err != nil {
		return err
	}
	price, err := s.Prompter.Ask("Limit Price (execution)", "")
	if err != nil {
		return err
	}

	s.preview([][2]string{{"Type", "STOP-LIMIT"}, {"Symbol", symbol}, {"Side", side}, {"Quantity", quantity},
		{"Stop Price", stopPrice}, {"Limit Price", price}})
	if ok, err := s.confirm("Place this order"); !ok {
		return err
	}

	order, err := s.TradingService.PlaceStopLimitOrder(ctx, symbol, side, quantity, price, stopPrice, "")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	RenderOrder(s.Out, order)
	success(s.Out, "✓ Order placed successfully!")
	return nil
}

func (s *Shell) viewBalance(ctx context.Context) error {
	title(s.Out, "\nFetching account balance...")
	balance, err := s.TradingService.GetAccountBalance(ctx)
	if err != nil {
		return err
	}
	rows, err := orders.FormatBalance(balance)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	RenderBalance(s.Out, rows)
	return nil
}

func (s *Shell) viewOpenOrders(ctx context.Context) error {
	title(s.Out, "\nFetching open orders...")
	symbol, err := s.Prompter.Ask("Symbol (leave empty for all)", "")
	if err != nil {
		return err
	}
	openOrders, err := s.TradingService.GetOpenOrders(ctx, symbol)
	if err != nil {
		return err
	}
	if len(openOrders) == 0 {
		warning(s.Out, "No open orders found")
		return nil
	}
	fmt.Fprintln(s.Out)
	RenderOpenOrders(s.Out, openOrders)
	return nil
}

func (s *Shell) viewPositions(ctx context.Context) error {
	title(s.Out, "\nFetching positions...")
	positions, err := s.TradingService.GetPositions(ctx)
	if err != nil {
		return err
	}
	rows, err := orders.FormatPositions(positions)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	RenderPositions(s.Out, rows)
	return nil
}

func (s *Shell) cancelOrder(ctx context.Context) error {
	title(s.Out, "\nCancel Order")
	symbol, err := s.Prompter.Ask("Symbol", "")
	if err != nil {
		return err
	}
	orderID, err := s.Prompter.Ask("Order ID", "")
	if err != nil {
		return err
	}

	ok, err := s.Prompter.Confirm(fmt.Sprintf("Cancel order %s for %s", orderID, symbol))
	if err != nil {
		return err
	}
	if !ok {
		warning(s.Out, "Cancellation aborted")
		return nil
	}

	if _, err := s.TradingService.CancelOrder(ctx, symbol, orderID); err != nil {
		return err
	}
	success(s.Out, "✓ Order cancelled successfully!")
	return nil
}

func (s *Shell) askOrder() (symbol string, side string, quantity string, err error) {
	if symbol, err = s.Prompter.Ask("Symbol (e.g., BTCUSDT)", ""); err != nil {
		return
	}
	index, err := s.Prompter.Select("Side", sides)
	if err != nil {
		return
	}
	side = sides[index]
	quantity, err = s.Prompter.Ask("Quantity", "")
	return
}

func (s *Shell) preview(fields [][2]string) {
	warning(s.Out, "\nOrder Preview:")
	for _, field := range fields {
		fmt.Fprintf(s.Out, "  %s: %s\n", field[0], field[1])
	}
}

// confirm returns ok=false with a nil error when the user declines
func (s *Shell) confirm(label string) (bool, error) {
	ok, err := s.Prompter.Confirm(label)
	if err != nil {
		return false, err
	}
	if !ok {
		warning(s.Out, "Order cancelled")
	}
	return ok, nil
}

// Report prints err the way the user should see it. Unexpected failures are
// also logged; the others were logged where they happened.
func Report(w io.Writer, logger *helpers.SessionLogger, err error) {
	var invalidInput *orders.InvalidInputError
	var exchangeErr *models.ExchangeError
	var formatErr *orders.FormatError
	switch {
	case errors.As(err, &invalidInput):
		failure(w, "Error", invalidInput.Message)
	case errors.As(err, &exchangeErr):
		failure(w, "API Error", fmt.Sprintf("%s (code %d)", exchangeErr.Message, exchangeErr.Code))
	case errors.As(err, &formatErr):
		logger.Errorln("Could not format response: " + formatErr.Error())
		failure(w, "Error", formatErr.Error())
	default:
		logger.Errorln("Unexpected error: " + err.Error())
		failure(w, "Unexpected error", err.Error())
	}
}

func (s *Shell) interrupted() {
	warning(s.Out, "\nInterrupted by user")
	s.Logger.Infoln("Session interrupted by user")
	s.logsSaved()
}

func (s *Shell) goodbye() {
	title(s.Out, "\nThank you for using the Trading Bot!")
	s.logsSaved()
}

func (s *Shell) logsSaved() {
	if s.Logger.Path() != "" {
		fmt.Fprintf(s.Out, "Logs saved to: %s\n", s.Logger.Path())
	}
}
