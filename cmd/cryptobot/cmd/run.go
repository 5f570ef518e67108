package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop",
	Long: `Run the scheduler: the trading scan, the optional periodic market report
and the optional question queue, until interrupted.

With dry_run (the default) orders go to the in-process simulator; candles
are always read from the exchange.

Examples:
  cryptobot run -c config.yaml
  cryptobot run --once
  cryptobot run --dry-run=false`,
	RunE: runRun,
}

var (
	runOnce   bool
	runDryRun bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runOnce, "once", false, "run a single trading cycle and exit")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", true, "simulate orders instead of sending them (overrides config when set)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Exchange.DryRun = runDryRun
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}

	a, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Strs("symbols", cfg.Trading.Symbols).
		Str("timeframe", cfg.Trading.Timeframe).
		Strs("strategies", cfg.Trading.Strategies).
		Bool("dry_run", cfg.Exchange.DryRun).
		Msg("cryptobot starting")

	if err := a.trader.Setup(ctx); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if runOnce {
		return a.trader.RunCycle(ctx)
	}
	return a.scheduler.Run(ctx)
}
