package bot

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOFuturesBot/config"
	"gitlab.com/aoterocom/AOFuturesBot/interfaces"
	"gitlab.com/aoterocom/AOFuturesBot/mocks"
	"gitlab.com/aoterocom/AOFuturesBot/models"
)

type testRun struct {
	out      *bytes.Buffer
	exitCode int
	logDir   string
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"BINANCE_API_KEY", "BINANCE_API_SECRET", "TESTNET", "PAPER", "LOG_DIR",
		"LOG_CONSOLE", "REQUEST_TIMEOUT", "REFRESH_INTERVAL", "PAPER_BALANCE", "telegramOutput"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, exchange *mocks.ExchangeMock, args ...string) *testRun {
	result := &testRun{out: &bytes.Buffer{}, logDir: t.TempDir()}
	exiter := cli.OsExiter
	cli.OsExiter = func(code int) { result.exitCode = code }
	t.Cleanup(func() { cli.OsExiter = exiter })

	b := NewBot(result.out)
	b.newExchange = func(cfg *config.Config) interfaces.ExchangeService { return exchange }

	global := []string{"futuresbot", "--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-dir", result.logDir, "--quiet"}
	_ = b.App().Run(append(global, args...))
	return result
}

func TestMarketCommand(t *testing.T) {
	clearEnv(t)
	exchange := mocks.NewExchangeMock()

	result := run(t, exchange, "--paper", "market", "--symbol", "btcusdt", "--side", "buy", "--quantity", "0.001")

	assert.Equal(t, 0, result.exitCode)
	require.Len(t, exchange.Requests, 1)
	assert.Equal(t, "BTCUSDT", exchange.Requests[0].Symbol)
	assert.Equal(t, []string{"Ping", "CreateOrder"}, exchange.Calls)
	assert.Contains(t, result.out.String(), "1234")

	logs, err := filepath.Glob(filepath.Join(result.logDir, "trading_bot_*.log"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestLimitCommandInvalidPrice(t *testing.T) {
	clearEnv(t)
	exchange := mocks.NewExchangeMock()

	result := run(t, exchange, "--paper", "limit", "-s", "BTCUSDT", "--side", "SELL", "-q", "1", "-p", "0")

	assert.Equal(t, 2, result.exitCode)
	assert.Equal(t, []string{"Ping"}, exchange.Calls)
	assert.Contains(t, result.out.String(), "Invalid price. Must be a positive number")
}

func TestStopLimitAndCancelCommands(t *testing.T) {
	clearEnv(t)
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_API_SECRET", "secret")
	exchange := mocks.NewExchangeMock()

	result := run(t, exchange, "stop-limit", "-s", "ETHUSDT", "--side", "BUY", "-q", "2", "-p", "3100", "--stop-price", "3050")
	assert.Equal(t, 0, result.exitCode)
	require.Len(t, exchange.Requests, 1)
	assert.Equal(t, models.OrderTypeStop, exchange.Requests[0].Type)
	assert.Equal(t, models.TimeInForceGTC, exchange.Requests[0].TimeInForce)

	result = run(t, exchange, "cancel", "-s", "ETHUSDT", "--order-id", "5")
	assert.Equal(t, 0, result.exitCode)
	assert.Contains(t, result.out.String(), "CANCELED")
}

func TestConnectionFailure(t *testing.T) {
	clearEnv(t)
	exchange := mocks.NewExchangeMock()
	exchange.Err = &models.ExchangeError{Code: -2015, Message: "Invalid API-key, IP, or permissions for action."}

	result := run(t, exchange, "--paper", "balance")

	assert.Equal(t, 1, result.exitCode)
	assert.Equal(t, []string{"Ping"}, exchange.Calls)
	assert.Contains(t, result.out.String(), "Invalid API-key, IP, or permissions for action. (code -2015)")
}

func TestMissingCredentials(t *testing.T) {
	clearEnv(t)
	exchange := mocks.NewExchangeMock()

	result := run(t, exchange, "balance")

	assert.Equal(t, 1, result.exitCode)
	assert.Empty(t, exchange.Calls)
	assert.Contains(t, result.out.String(), "Configuration Error: API credentials not found")
}

func TestPositionsAndOrdersCommands(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAPER", "true")
	exchange := mocks.NewExchangeMock()

	result := run(t, exchange, "positions")
	assert.Equal(t, 0, result.exitCode)
	assert.Contains(t, result.out.String(), "No open positions")

	result = run(t, exchange, "orders", "-s", "btcusdt")
	assert.Equal(t, 0, result.exitCode)
	assert.Contains(t, result.out.String(), "No open orders found")
	assert.Contains(t, exchange.Calls, "GetOpenOrders:BTCUSDT")
}

func TestWatchDoesNotEchoLogs(t *testing.T) {
	clearEnv(t)
	exiter := cli.OsExiter
	cli.OsExiter = func(code int) { t.Errorf("unexpected exit %d", code) }
	t.Cleanup(func() { cli.OsExiter = exiter })

	for _, command := range []string{watchCommand, "balance"} {
		var out bytes.Buffer
		b := NewBot(&out)
		b.newExchange = func(cfg *config.Config) interfaces.ExchangeService { return mocks.NewExchangeMock() }
		refresh := func(ctx context.Context, c *cli.Context) error {
			_, err := b.tradingService.GetAccountBalance(ctx)
			return err
		}
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "env-file"},
				&cli.StringFlag{Name: "log-dir"},
				&cli.BoolFlag{Name: "paper"},
			},
			Commands: []*cli.Command{{Name: command, Action: b.Session(refresh)}},
		}

		require.NoError(t, app.Run([]string{"futuresbot", "--env-file", filepath.Join(t.TempDir(), "none.env"),
			"--log-dir", t.TempDir(), "--paper", command}))

		if command == watchCommand {
			assert.NotContains(t, out.String(), "INFO:")
		} else {
			assert.Contains(t, out.String(), "INFO: Fetching account balance...")
		}
	}
}
