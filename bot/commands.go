package bot

import (
	"github.com/urfave/cli/v2"
)

const watchCommand = "watch"

var (
	symbolFlag   = &cli.StringFlag{Name: "symbol", Aliases: []string{"s"}, Usage: "trading pair, e.g. BTCUSDT", Required: true}
	sideFlag     = &cli.StringFlag{Name: "side", Usage: "BUY or SELL", Required: true}
	quantityFlag = &cli.StringFlag{Name: "quantity", Aliases: []string{"q"}, Usage: "order quantity", Required: true}
	priceFlag    = &cli.StringFlag{Name: "price", Aliases: []string{"p"}, Usage: "limit price", Required: true}
	tifFlag      = &cli.StringFlag{Name: "tif", Usage: "time in force: GTC, IOC, FOK or GTX", Value: "GTC"}
)

// App builds the command line: the interactive shell by default, one-shot
// commands for scripting and the watch dashboard.
func (b *Bot) App() *cli.App {
	return &cli.App{
		Name:   "futuresbot",
		Usage:  "Binance USDT-M futures trading bot",
		Writer: b.Out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "file to load environment variables from"},
			&cli.BoolFlag{Name: "testnet", Usage: "use the futures testnet (default from TESTNET, true)"},
			&cli.BoolFlag{Name: "paper", Usage: "simulate orders locally, no credentials needed"},
			&cli.StringFlag{Name: "log-dir", Usage: "directory for session log files"},
			&cli.StringFlag{Name: "timeout", Usage: "per request timeout, e.g. 10s"},
			&cli.BoolFlag{Name: "quiet", Usage: "do not echo log lines to the terminal"},
		},
		Action: b.Session(b.Shell),
		Commands: []*cli.Command{
			{
				Name:   "shell",
				Usage:  "interactive menu",
				Action: b.Session(b.Shell),
			},
			{
				Name:   "market",
				Usage:  "place a market order",
				Flags:  []cli.Flag{symbolFlag, sideFlag, quantityFlag},
				Action: b.Session(b.Market),
			},
			{
				Name:   "limit",
				Usage:  "place a limit order",
				Flags:  []cli.Flag{symbolFlag, sideFlag, quantityFlag, priceFlag, tifFlag},
				Action: b.Session(b.Limit),
			},
			{
				Name:  "stop-limit",
				Usage: "place a stop-limit order",
				Flags: []cli.Flag{symbolFlag, sideFlag, quantityFlag, priceFlag, tifFlag,
					&cli.StringFlag{Name: "stop-price", Usage: "trigger price", Required: true}},
				Action: b.Session(b.StopLimit),
			},
			{
				Name:  "cancel",
				Usage: "cancel an open order",
				Flags: []cli.Flag{symbolFlag,
					&cli.StringFlag{Name: "order-id", Usage: "exchange order id", Required: true}},
				Action: b.Session(b.Cancel),
			},
			{
				Name:   "balance",
				Usage:  "show account balance",
				Action: b.Session(b.Balance),
			},
			{
				Name:  "orders",
				Usage: "list open orders",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "symbol", Aliases: []string{"s"}, Usage: "only this pair"}},
				Action: b.Session(b.Orders),
			},
			{
				Name:   "positions",
				Usage:  "show open positions",
				Action: b.Session(b.Positions),
			},
			{
				Name:  watchCommand,
				Usage: "live dashboard of balance, positions and orders",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "refresh", Usage: "refresh interval, e.g. 5s (default from REFRESH_INTERVAL)"}},
				Action: b.Session(b.Watch),
			},
		},
	}
}
