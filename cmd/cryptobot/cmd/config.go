package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/strategies"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage bot configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  cryptobot config init -o config.yaml
  cryptobot config validate -c config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings. Secrets are left
empty; supply them through the environment.

Example:
  cryptobot config init -o config.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  cryptobot config validate -c config.yaml`,
	RunE: runConfigValidate,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", defaultConfigPath, "output config file path")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  cryptobot run -c %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	mode := "dry-run"
	if !cfg.Exchange.DryRun {
		mode = "live"
	}
	fmt.Printf("✓ Configuration valid: %s\n", configPath)
	fmt.Printf("  Symbols: %v (%s, %d candles)\n", cfg.Trading.Symbols, cfg.Trading.Timeframe, cfg.Trading.CandleLimit)
	fmt.Printf("  Strategies: %v (available: %v)\n", cfg.Trading.Strategies, strategies.Names())
	fmt.Printf("  Risk: stop %.1f%%, target %.1f%%, fee %.3f%%\n",
		cfg.Risk.StopLossPct*100, cfg.Risk.TakeProfitPct*100, cfg.Risk.FeeRate*100)
	fmt.Printf("  Exchange: %s, leverage %dx\n", mode, cfg.Exchange.Leverage)
	fmt.Printf("  Journal: %s %s\n", cfg.Journal.Type, cfg.Journal.Path)
	return nil
}
