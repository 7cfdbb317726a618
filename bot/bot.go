package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOFuturesBot/config"
	"gitlab.com/aoterocom/AOFuturesBot/helpers"
	"gitlab.com/aoterocom/AOFuturesBot/interfaces"
	"gitlab.com/aoterocom/AOFuturesBot/orders"
	"gitlab.com/aoterocom/AOFuturesBot/providers/binance"
	"gitlab.com/aoterocom/AOFuturesBot/providers/paper"
	"gitlab.com/aoterocom/AOFuturesBot/services"
	"gitlab.com/aoterocom/AOFuturesBot/ui"
)

// Bot owns one session: configuration, log file and exchange connection
type Bot struct {
	Out io.Writer

	config         *config.Config
	logger         *helpers.SessionLogger
	tradingService *services.TradingService

	// newExchange is replaced in tests
	newExchange func(cfg *config.Config) interfaces.ExchangeService
}

func NewBot(out io.Writer) *Bot {
	return &Bot{Out: out, newExchange: newExchangeService}
}

func newExchangeService(cfg *config.Config) interfaces.ExchangeService {
	if cfg.Paper {
		prices := paper.FallbackPrices{
			Primary:   binance.NewBinanceService("", "", cfg.BaseURL()),
			Secondary: paper.DefaultPrices,
		}
		return paper.NewPaperService(prices, cfg.PaperBalance)
	}
	return binance.NewBinanceService(cfg.APIKey, cfg.APISecret, cfg.BaseURL())
}

// Session wraps a command so it runs inside a started session that is
// closed afterwards, whatever the outcome.
func (b *Bot) Session(action func(ctx context.Context, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := b.start(ctx, c); err != nil {
			return err
		}
		defer b.stop()
		return action(ctx, c)
	}
}

func (b *Bot) start(ctx context.Context, c *cli.Context) error {
	cfg, err := b.loadConfig(c)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(b.Out, "Configuration Error: %v\n\n", err)
		fmt.Fprintln(b.Out, "Please update your .env file with valid API credentials.")
		fmt.Fprintln(b.Out, "Get credentials from: "+binance.TestnetBaseURL)
		return cli.Exit("", 1)
	}
	b.config = cfg

	if b.logger, err = helpers.NewSessionLogger(cfg.LogDir, b.console(cfg, c)); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.TelegramOutput {
		b.logger.AddHook(helpers.NewTelegramHook(cfg.TelegramToken, cfg.TelegramChatID))
	}

	b.tradingService = services.NewTradingService(b.newExchange(cfg), b.logger, cfg.RequestTimeout)
	if err := b.tradingService.Connect(ctx, cfg.Mode(), cfg.BaseURL()); err != nil {
		ui.Report(b.Out, b.logger, err)
		b.stop()
		return cli.Exit("", 1)
	}
	return nil
}

// console is where log lines are echoed, nil for none. The dashboard owns
// the whole terminal, so watch never echoes.
func (b *Bot) console(cfg *config.Config, c *cli.Context) io.Writer {
	if !cfg.LogConsole || c.Bool("quiet") {
		return nil
	}
	if c.Command != nil && c.Command.Name == watchCommand {
		return nil
	}
	return b.Out
}

func (b *Bot) stop() {
	if b.logger == nil {
		return
	}
	if err := b.logger.Close(); err != nil {
		fmt.Fprintln(b.Out, "error closing log file: "+err.Error())
	}
}

// loadConfig reads the env file and lets explicit flags override it
func (b *Bot) loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("testnet") {
		cfg.Testnet = c.Bool("testnet")
	}
	if c.IsSet("paper") {
		cfg.Paper = c.Bool("paper")
	}
	if c.IsSet("log-dir") {
		cfg.LogDir = c.String("log-dir")
	}
	if c.IsSet("timeout") {
		if cfg.RequestTimeout, err = config.ParseDuration(c.String("timeout")); err != nil {
			return nil, fmt.Errorf("error parsing --timeout: %w", err)
		}
	}
	if c.IsSet("refresh") {
		if cfg.RefreshInterval, err = config.ParseDuration(c.String("refresh")); err != nil {
			return nil, fmt.Errorf("error parsing --refresh: %w", err)
		}
	}
	return cfg, nil
}

func (b *Bot) Shell(ctx context.Context, c *cli.Context) error {
	shell := ui.NewShell(b.tradingService, ui.NewTerminalPrompter(), b.Out, b.logger)
	shell.Banner(b.config.Mode())
	return shell.Run(ctx)
}

func (b *Bot) Watch(ctx context.Context, c *cli.Context) error {
	return ui.NewDashboard(b.tradingService, b.logger, b.config.RefreshInterval, b.config.Mode()).Run(ctx)
}

func (b *Bot) Market(ctx context.Context, c *cli.Context) error {
	order, err := b.tradingService.PlaceMarketOrder(ctx, c.String("symbol"), c.String("side"), c.String("quantity"))
	if err != nil {
		return b.fail(err)
	}
	ui.RenderOrder(b.Out, order)
	return nil
}

func (b *Bot) Limit(ctx context.Context, c *cli.Context) error {
	order, err := b.tradingService.PlaceLimitOrder(ctx, c.String("symbol"), c.String("side"), c.String("quantity"),
		c.String("price"), c.String("tif"))
	if err != nil {
		return b.fail(err)
	}
	ui.RenderOrder(b.Out, order)
	return nil
}

func (b *Bot) StopLimit(ctx context.Context, c *cli.Context) error {
	order, err := b.tradingService.PlaceStopLimitOrder(ctx, c.String("symbol"), c.String("side"), c.String("quantity"),
		c.String("price"), c.String("stop-price"), c.String("tif"))
	if err != nil {
		return b.fail(err)
	}
	ui.RenderOrder(b.Out, order)
	return nil
}

func (b *Bot) Cancel(ctx context.Context, c *cli.Context) error {
	order, err := b.tradingService.CancelOrder(ctx, c.String("symbol"), c.String("order-id"))
	if err != nil {
		return b.fail(err)
	}
	ui.RenderOrder(b.Out, order)
	return nil
}

func (b *Bot) Balance(ctx context.Context, c *cli.Context) error {
	balance, err := b.tradingService.GetAccountBalance(ctx)
	if err != nil {
		return b.fail(err)
	}
	rows, err := orders.FormatBalance(balance)
	if err != nil {
		return b.fail(err)
	}
	ui.RenderBalance(b.Out, rows)
	return nil
}

func (b *Bot) Orders(ctx context.Context, c *cli.Context) error {
	openOrders, err := b.tradingService.GetOpenOrders(ctx, c.String("symbol"))
	if err != nil {
		return b.fail(err)
	}
	if len(openOrders) == 0 {
		fmt.Fprintln(b.Out, "No open orders found")
		return nil
	}
	ui.RenderOpenOrders(b.Out, openOrders)
	return nil
}

func (b *Bot) Positions(ctx context.Context, c *cli.Context) error {
	positions, err := b.tradingService.GetPositions(ctx)
	if err != nil {
		return b.fail(err)
	}
	rows, err := orders.FormatPositions(positions)
	if err != nil {
		return b.fail(err)
	}
	ui.RenderPositions(b.Out, rows)
	return nil
}

// fail reports err and turns it into a non-zero exit status
func (b *Bot) fail(err error) error {
	ui.Report(b.Out, b.logger, err)
	if errors.Is(err, orders.ErrInvalidInput) {
		return cli.Exit("", 2)
	}
	return cli.Exit("", 1)
}
