package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/backtest"
	"github.com/rustyeddy/cryptobot/journal"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a candle CSV through the strategy pipeline",
	Long: `Replay historical candles through the same indicator, strategy and
position logic as the live loop, using the simulator and an in-memory
journal.

The CSV columns are time,open,high,low,close,volume with an optional header.
Time is RFC3339 or unix milliseconds.

Examples:
  cryptobot backtest --data btc_15m.csv --symbol BTC-USDT
  cryptobot backtest --data eth.csv --symbol ETH-USDT --strategies ma_cross,harmonic
  cryptobot backtest --data eth.csv --from 2024-01-01 --to 2024-02-01 --trades`,
	RunE: runBacktest,
}

var (
	btData       string
	btSymbol     string
	btStrategies string
	btFrom       string
	btTo         string
	btTrades     bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&btData, "data", "", "candle CSV file (required)")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "", "symbol to label the run (default: first configured symbol)")
	backtestCmd.Flags().StringVar(&btStrategies, "strategies", "", "comma separated strategies (default: from config)")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "start date (YYYY-MM-DD or RFC3339)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "end date, exclusive (YYYY-MM-DD or RFC3339)")
	backtestCmd.Flags().BoolVar(&btTrades, "trades", false, "print every journal entry")
	backtestCmd.MarkFlagRequired("data")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	from, err := parseDate(btFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseDate(btTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	symbol := btSymbol
	if symbol == "" {
		symbol = cfg.Trading.Symbols[0]
	}
	names := cfg.Trading.Strategies
	if btStrategies != "" {
		names = strings.Split(btStrategies, ",")
	}

	feed, err := backtest.NewCSVCandleFeed(btData, from, to)
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}

	r := &backtest.Runner{
		Feed: feed,
		Options: backtest.Options{
			Symbol:       symbol,
			Timeframe:    cfg.Trading.Timeframe,
			Window:       cfg.Trading.CandleLimit,
			StartBalance: cfg.Exchange.StartBalance,
			Policy:       cfg.Risk,
			Sizing:       sizing(cfg),
			Params:       cfg.Indicators,
			Strategies:   names,
			StrategyOpts: cfg.StrategyOptions(),
		},
		Log: logger,
	}

	res, err := r.Run(context.Background())
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)
	if btTrades && len(res.Entries) > 0 {
		fmt.Println()
		fmt.Println(journal.FormatEntriesOrg(res.Entries))
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC3339. Empty is the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
