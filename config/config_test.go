package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, []string{"BTC-USDT", "ETH-USDT"}, cfg.Trading.Symbols)
	assert.True(t, cfg.Exchange.DryRun)
	assert.Equal(t, 5, cfg.Exchange.Leverage)
	assert.Equal(t, 0.0005, cfg.Risk.FeeRate)
	assert.Equal(t, 0.02, cfg.Risk.StopLossPct)
	assert.Equal(t, 0.04, cfg.Risk.TakeProfitPct)
	assert.Equal(t, 100.0, cfg.Trading.OrderSizes["DOGE"])
	assert.Equal(t, 7, cfg.Indicators.FastMA)
	assert.Equal(t, 25, cfg.Indicators.SlowMA)
	assert.Equal(t, "logs/trade_history.json", cfg.Journal.Path)
	assert.NoError(t, cfg.Validate())

	trade, report, qa, quantum, cooldown := cfg.Schedule.Intervals()
	assert.Equal(t, 15*time.Minute, trade)
	assert.Equal(t, time.Hour, report)
	assert.Equal(t, 5*time.Second, qa)
	assert.Equal(t, 3*time.Second, quantum)
	assert.Equal(t, 10*time.Second, cooldown)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing symbols", func(c *Config) { c.Trading.Symbols = nil }, "trading.symbols is required"},
		{"bad symbol", func(c *Config) { c.Trading.Symbols = []string{"BTCUSDT"} }, "trading.symbols"},
		{"bad timeframe", func(c *Config) { c.Trading.Timeframe = "15x" }, "trading.timeframe"},
		{"short candle limit", func(c *Config) { c.Trading.CandleLimit = 10 }, "trading.candle_limit must be at least 30"},
		{"zero amount", func(c *Config) { c.Trading.DefaultAmount = 0 }, "trading.default_amount must be positive"},
		{"negative size", func(c *Config) { c.Trading.OrderSizes["ETH"] = -1 }, "trading.order_sizes[ETH] must be positive"},
		{"no strategies", func(c *Config) { c.Trading.Strategies = nil }, "trading.strategies is required"},
		{"unknown strategy", func(c *Config) { c.Trading.Strategies = []string{"rsi"} }, "unknown strategy"},
		{"tolerance", func(c *Config) { c.Trading.Tolerance = 1.5 }, "trading.harmonic_tolerance"},
		{"risk", func(c *Config) { c.Risk.StopLossPct = 0 }, "stop_loss_pct must be positive"},
		{"leverage", func(c *Config) { c.Exchange.Leverage = 0 }, "exchange.leverage must be positive"},
		{"live without keys", func(c *Config) { c.Exchange.DryRun = false }, "exchange.api_key and exchange.secret_key required"},
		{"interval", func(c *Config) { c.Schedule.QAInterval = "soon" }, "schedule.qa_interval must be a positive duration"},
		{"email", func(c *Config) { c.Email.Enabled = true }, "email smtp_host, smtp_port and to required"},
		{"ai key", func(c *Config) { c.AI.Enabled = true }, "ai.api_key required"},
		{"journal type", func(c *Config) { c.Journal.Type = "csv" }, "unknown journal kind"},
		{"journal path", func(c *Config) { c.Journal.Path = "" }, "journal.path required for json journal"},
		{"memory journal needs no path", func(c *Config) { c.Journal.Type = "memory"; c.Journal.Path = "" }, ""},
		{"cache addr", func(c *Config) { c.Cache.Enabled = true; c.Cache.Addr = "" }, "cache.addr required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Trading.Symbols = []string{"SOL-USDT"}
			cfg.Trading.Strategies = []string{"ma_cross", "harmonic"}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Trading.Symbols, loaded.Trading.Symbols)
			assert.Equal(t, cfg.Trading.Strategies, loaded.Trading.Strategies)
			assert.Equal(t, cfg.Risk, loaded.Risk)
			assert.Equal(t, cfg.Indicators, loaded.Indicators)
			assert.Equal(t, cfg.Schedule, loaded.Schedule)
		})
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("trading:\n  symbols: [DOGE-USDT]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"DOGE-USDT"}, cfg.Trading.Symbols)
	assert.Equal(t, "15m", cfg.Trading.Timeframe)
	assert.Equal(t, 50, cfg.Trading.CandleLimit)

	cfg, err = Parse([]byte(`{"exchange": {"leverage": 10}}`))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Exchange.Leverage)
	assert.True(t, cfg.Exchange.DryRun)

	_, err = Parse([]byte("trading: [unclosed"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.Exchange.APIKey = "from-file"
	env := map[string]string{
		EnvSecretKey: "sec",
		EnvGeminiKey: "gem",
		EnvSMTPPass:  "pw",
		EnvLineToken: "line",
		EnvAPIKey:    "  ",
	}
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "from-file", cfg.Exchange.APIKey)
	assert.Equal(t, "sec", cfg.Exchange.SecretKey)
	assert.Equal(t, "gem", cfg.AI.APIKey)
	assert.Equal(t, "pw", cfg.Email.Password)
	assert.Equal(t, "line", cfg.Line.Token)
}

func TestCacheTTL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 7*time.Minute+30*time.Second, cfg.CacheTTL())
	cfg.Cache.TTL = "20s"
	assert.Equal(t, 20*time.Second, cfg.CacheTTL())
}

func TestStrategyOptions(t *testing.T) {
	cfg := Default()
	cfg.Trading.Tolerance = 0.05
	assert.Equal(t, 0.05, cfg.StrategyOptions().Tolerance)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}
