package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/strategies"
)

// Config represents the complete bot configuration
type Config struct {
	Exchange   ExchangeConfig    `json:"exchange" yaml:"exchange"`
	Trading    TradingConfig     `json:"trading" yaml:"trading"`
	Indicators indicators.Params `json:"indicators" yaml:"indicators"`
	Risk       risk.Policy       `json:"risk" yaml:"risk"`
	Schedule   ScheduleConfig    `json:"schedule" yaml:"schedule"`
	Email      EmailConfig       `json:"email" yaml:"email"`
	Line       LineConfig        `json:"line" yaml:"line"`
	AI         AIConfig          `json:"ai" yaml:"ai"`
	QA         QAConfig          `json:"qa" yaml:"qa"`
	Journal    JournalConfig     `json:"journal" yaml:"journal"`
	Cache      CacheConfig       `json:"cache" yaml:"cache"`
	Log        LogConfig         `json:"log" yaml:"log"`
}

// ExchangeConfig contains gateway settings. With DryRun set no order
// reaches the exchange; candles are still fetched from it.
type ExchangeConfig struct {
	APIKey       string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	SecretKey    string  `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	BaseURL      string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	DryRun       bool    `json:"dry_run" yaml:"dry_run"`
	Leverage     int     `json:"leverage" yaml:"leverage"`
	StartBalance float64 `json:"start_balance" yaml:"start_balance"`
}

// TradingConfig contains the traded symbols and strategy selection
type TradingConfig struct {
	Symbols       []string           `json:"symbols" yaml:"symbols"`
	Timeframe     string             `json:"timeframe" yaml:"timeframe"`
	CandleLimit   int                `json:"candle_limit" yaml:"candle_limit"`
	DefaultAmount float64            `json:"default_amount" yaml:"default_amount"`
	OrderSizes    map[string]float64 `json:"order_sizes,omitempty" yaml:"order_sizes,omitempty"`
	Strategies    []string           `json:"strategies" yaml:"strategies"`
	Tolerance     float64            `json:"harmonic_tolerance" yaml:"harmonic_tolerance"`
}

// ScheduleConfig contains task intervals, e.g. "15m", "1h", "5s"
type ScheduleConfig struct {
	TradeInterval  string `json:"trade_interval" yaml:"trade_interval"`
	ReportInterval string `json:"report_interval" yaml:"report_interval"`
	QAInterval     string `json:"qa_interval" yaml:"qa_interval"`
	Quantum        string `json:"quantum" yaml:"quantum"`
	Cooldown       string `json:"cooldown" yaml:"cooldown"`
	MarketReport   bool   `json:"market_report" yaml:"market_report"`
}

type EmailConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Host     string `json:"smtp_host" yaml:"smtp_host"`
	Port     int    `json:"smtp_port" yaml:"smtp_port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	To       string `json:"to" yaml:"to"`
}

type LineConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Token   string `json:"channel_access_token,omitempty" yaml:"channel_access_token,omitempty"`
	UserID  string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
}

type AIConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model   string `json:"model" yaml:"model"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

type QAConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	File    string `json:"file" yaml:"file"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type string `json:"type" yaml:"type"` // "json", "sqlite" or "memory"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// CacheConfig enables the Redis candle cache
type CacheConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
	TTL      string `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// Environment variables that override secrets left empty in the file.
const (
	EnvAPIKey     = "BINGX_API_KEY"
	EnvSecretKey  = "BINGX_SECRET_KEY"
	EnvGeminiKey  = "GEMINI_API_KEY"
	EnvSMTPPass   = "SMTP_PASSWORD"
	EnvLineToken  = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineUserID = "LINE_USER_ID"
)

// LoadFromFile loads configuration from a file (JSON or YAML). Fields
// missing from the file keep their Default values; environment secrets
// are applied before validation.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes data over Default. YAML is tried first, then JSON.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overlays non-empty secret environment variables.
func (c *Config) ApplyEnv() { c.applyEnv(os.Getenv) }

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Exchange.APIKey, EnvAPIKey)
	set(&c.Exchange.SecretKey, EnvSecretKey)
	set(&c.AI.APIKey, EnvGeminiKey)
	set(&c.Email.Password, EnvSMTPPass)
	set(&c.Line.Token, EnvLineToken)
	set(&c.Line.UserID, EnvLineUserID)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Trading.Symbols) == 0 {
		return fmt.Errorf("trading.symbols is required")
	}
	for _, s := range c.Trading.Symbols {
		if _, err := market.ParseSymbol(s); err != nil {
			return fmt.Errorf("trading.symbols: %w", err)
		}
	}
	if _, err := market.ParseTimeframe(c.Trading.Timeframe); err != nil {
		return fmt.Errorf("trading.timeframe: %w", err)
	}
	if c.Trading.CandleLimit < indicators.MinLookback {
		return fmt.Errorf("trading.candle_limit must be at least %d", indicators.MinLookback)
	}
	if c.Trading.DefaultAmount <= 0 {
		return fmt.Errorf("trading.default_amount must be positive")
	}
	for k, v := range c.Trading.OrderSizes {
		if v <= 0 {
			return fmt.Errorf("trading.order_sizes[%s] must be positive", k)
		}
	}
	if len(c.Trading.Strategies) == 0 {
		return fmt.Errorf("trading.strategies is required")
	}
	for _, name := range c.Trading.Strategies {
		if _, err := strategies.New(name, strategies.DefaultOptions()); err != nil {
			return fmt.Errorf("trading.strategies: %w", err)
		}
	}
	if c.Trading.Tolerance < 0 || c.Trading.Tolerance >= 1 {
		return fmt.Errorf("trading.harmonic_tolerance must be between 0 and 1")
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if c.Exchange.Leverage <= 0 {
		return fmt.Errorf("exchange.leverage must be positive")
	}
	if !c.Exchange.DryRun && (c.Exchange.APIKey == "" || c.Exchange.SecretKey == "") {
		return fmt.Errorf("exchange.api_key and exchange.secret_key required when dry_run is false")
	}
	if c.Exchange.DryRun && c.Exchange.StartBalance <= 0 {
		return fmt.Errorf("exchange.start_balance must be positive")
	}
	for name, v := range map[string]string{
		"schedule.trade_interval":  c.Schedule.TradeInterval,
		"schedule.report_interval": c.Schedule.ReportInterval,
		"schedule.qa_interval":     c.Schedule.QAInterval,
		"schedule.quantum":         c.Schedule.Quantum,
		"schedule.cooldown":        c.Schedule.Cooldown,
	} {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration, got %q", name, v)
		}
	}
	if c.Email.Enabled && (c.Email.Host == "" || c.Email.Port <= 0 || c.Email.To == "") {
		return fmt.Errorf("email smtp_host, smtp_port and to required when enabled")
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key required when ai is enabled")
	}
	if c.QA.Enabled && c.QA.File == "" {
		return fmt.Errorf("qa.file required when qa is enabled")
	}
	kind, err := journal.ParseKind(c.Journal.Type)
	if err != nil {
		return fmt.Errorf("journal.type: %w", err)
	}
	if kind != journal.KindMemory && c.Journal.Path == "" {
		return fmt.Errorf("journal.path required for %s journal", kind)
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache.addr required when cache is enabled")
	}
	return nil
}

// Intervals returns the parsed schedule durations. Call after Validate.
func (s ScheduleConfig) Intervals() (trade, report, qa, quantum, cooldown time.Duration) {
	parse := func(v string) time.Duration {
		d, _ := time.ParseDuration(v)
		return d
	}
	return parse(s.TradeInterval), parse(s.ReportInterval), parse(s.QAInterval), parse(s.Quantum), parse(s.Cooldown)
}

// CacheTTL defaults to half the candle timeframe.
func (c *Config) CacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.Cache.TTL); err == nil && d > 0 {
		return d
	}
	if tf, err := market.ParseTimeframe(c.Trading.Timeframe); err == nil {
		return tf / 2
	}
	return time.Minute
}

// StrategyOptions builds the options passed to every strategy factory.
func (c *Config) StrategyOptions() strategies.Options {
	opts := strategies.DefaultOptions()
	if c.Trading.Tolerance > 0 {
		opts.Tolerance = c.Trading.Tolerance
	}
	return opts
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Exchange: ExchangeConfig{
			DryRun:       true,
			Leverage:     5,
			StartBalance: 1000,
		},
		Trading: TradingConfig{
			Symbols:       []string{"BTC-USDT", "ETH-USDT"},
			Timeframe:     "15m",
			CandleLimit:   50,
			DefaultAmount: 0.001,
			OrderSizes: map[string]float64{
				"BTC":  0.001,
				"ETH":  0.01,
				"SOL":  0.5,
				"DOGE": 100,
				"BNB":  0.1,
			},
			Strategies: []string{"ma_cross"},
			Tolerance:  0.10,
		},
		Indicators: indicators.DefaultParams(),
		Risk:       risk.DefaultPolicy(),
		Schedule: ScheduleConfig{
			TradeInterval:  "15m",
			ReportInterval: "60m",
			QAInterval:     "5s",
			Quantum:        "3s",
			Cooldown:       "10s",
		},
		Email: EmailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		AI: AIConfig{
			Model: "gemini-1.5-flash",
		},
		QA: QAConfig{
			File: "questions.json",
		},
		Journal: JournalConfig{
			Type: journal.KindJSON,
			Path: "logs/trade_history.json",
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}
