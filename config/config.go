package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gitlab.com/aoterocom/AOFuturesBot/providers/binance"
)

const placeholderKey = "your_api_key_here"

var (
	ErrMissingCredentials     = errors.New("API credentials not found. Please set BINANCE_API_KEY and BINANCE_API_SECRET in .env file")
	ErrPlaceholderCredentials = errors.New("please update .env file with your actual API credentials from " + binance.TestnetBaseURL)
)

type Config struct {
	APIKey          string
	APISecret       string
	Testnet         bool
	Paper           bool
	PaperBalance    decimal.Decimal
	LogDir          string
	LogConsole      bool
	RequestTimeout  time.Duration
	RefreshInterval time.Duration
	TelegramOutput  bool
	TelegramToken   string
	TelegramChatID  string
}

// Load reads envFile, when present, into the environment and builds a Config
// from it. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		APIKey:     os.Getenv("BINANCE_API_KEY"),
		APISecret:  os.Getenv("BINANCE_API_SECRET"),
		Testnet:    boolEnv("TESTNET", true),
		Paper:      boolEnv("PAPER", false),
		LogDir:     os.Getenv("LOG_DIR"),
		LogConsole: boolEnv("LOG_CONSOLE", true),

		TelegramOutput: boolEnv("telegramOutput", false),
		TelegramToken:  os.Getenv("telegramToken"),
		TelegramChatID: os.Getenv("telegramChatId"),
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}

	var err error
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = durationEnv("REFRESH_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}

	cfg.PaperBalance = decimal.NewFromInt(10000)
	if raw := os.Getenv("PAPER_BALANCE"); raw != "" {
		if cfg.PaperBalance, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("error parsing PAPER_BALANCE %q: %w", raw, err)
		}
	}

	return cfg, nil
}

// Validate checks the settings needed to reach the exchange
func (c *Config) Validate() error {
	if c.TelegramOutput && (c.TelegramToken == "" || c.TelegramChatID == "") {
		return errors.New("error: telegramOutput set to true but telegramToken or telegramChatId not found")
	}
	if c.Paper {
		return nil
	}
	if c.APIKey == "" || c.APISecret == "" {
		return ErrMissingCredentials
	}
	if c.APIKey == placeholderKey {
		return ErrPlaceholderCredentials
	}
	return nil
}

// BaseURL is the futures REST endpoint for the selected network
func (c *Config) BaseURL() string {
	if c.Testnet {
		return binance.TestnetBaseURL
	}
	return binance.MainnetBaseURL
}

// Mode names the selected network for banners and logs
func (c *Config) Mode() string {
	switch {
	case c.Paper:
		return "PAPER"
	case c.Testnet:
		return "TESTNET"
	}
	return "MAINNET"
}

// ParseDuration accepts Go durations plus day and week units ("1d", "2w")
func ParseDuration(raw string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return d, nil
}
