package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/internal/logging"
)

const defaultConfigPath = "config.yaml"

var rootCmd = &cobra.Command{
	Use:   "cryptobot",
	Short: "An automated multi-symbol crypto futures trading bot",
	Long: `Cryptobot scans perpetual futures markets on a fixed schedule, computes
technical indicators, combines strategy votes into one signal and manages
one position per symbol with stop-loss and take-profit limits.

It provides tools for:
  - Running the trading loop (dry-run or live on BingX)
  - Replaying candle CSV files through the same decision pipeline
  - Querying and exporting the trade journal
  - Managing the AI question queue

Secrets may be supplied through BINGX_API_KEY, BINGX_SECRET_KEY,
GEMINI_API_KEY, SMTP_PASSWORD and LINE_CHANNEL_ACCESS_TOKEN.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.Setup(logLevel, !logJSON)
	},
}

var (
	configPath string
	logLevel   string
	logJSON    bool

	logger = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write JSON logs instead of console output")
}

// loadConfig reads the config file. A missing default file falls back to
// the built-in defaults plus environment secrets.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err == nil {
		return cfg, nil
	}
	if configPath != defaultConfigPath || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger.Warn().Str("path", configPath).Msg("config file not found, using defaults")
	cfg = config.Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default config: %w", err)
	}
	return cfg, nil
}
