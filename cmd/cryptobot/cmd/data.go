package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/backtest"
	"github.com/rustyeddy/cryptobot/exchange/bingx"
	"github.com/rustyeddy/cryptobot/market"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download datasets for backtests",
}

var dataCandlesCmd = &cobra.Command{
	Use:   "candles",
	Short: "Download exchange candles and write CSV",
	Long: `Fetch the most recent candles for a symbol from BingX and write them in
the CSV format read by the backtest command.

Example:
  cryptobot data candles --symbol BTC-USDT --timeframe 15m --limit 1000 -o btc_15m.csv`,
	Args: cobra.NoArgs,
	RunE: runDataCandles,
}

var (
	dataSymbol    string
	dataTimeframe string
	dataLimit     int
	dataOut       string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataCandlesCmd)

	dataCandlesCmd.Flags().StringVar(&dataSymbol, "symbol", "", "symbol, e.g. BTC-USDT (required)")
	dataCandlesCmd.Flags().StringVar(&dataTimeframe, "timeframe", "15m", "candle interval")
	dataCandlesCmd.Flags().IntVar(&dataLimit, "limit", 500, "number of candles")
	dataCandlesCmd.Flags().StringVarP(&dataOut, "out", "o", "", "output CSV (default stdout)")
	dataCandlesCmd.MarkFlagRequired("symbol")
}

func runDataCandles(cmd *cobra.Command, args []string) error {
	if _, err := market.ParseSymbol(dataSymbol); err != nil {
		return err
	}
	if _, err := market.ParseTimeframe(dataTimeframe); err != nil {
		return err
	}
	if dataLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := bingx.New(cfg.Exchange.APIKey, cfg.Exchange.SecretKey, cfg.Exchange.BaseURL, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	candles, err := market.Fetch(ctx, client, dataSymbol, dataTimeframe, dataLimit)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if dataOut != "" {
		f, err := os.Create(dataOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := backtest.WriteCSV(w, candles); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if dataOut != "" {
		fmt.Fprintf(os.Stderr, "✓ Wrote %d candles to %s\n", len(candles), dataOut)
	}
	return nil
}
