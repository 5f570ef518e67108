package backtest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/market"
)

// Result is a lightweight summary of a backtest run.
type Result struct {
	Symbol     string
	Strategies []string

	Candles int
	Cycles  int
	Errors  int

	Trades  int
	Wins    int
	Losses  int
	WinRate float64

	StartBalance float64
	NetPnL       float64
	EndEquity    float64

	OpenSide   market.Side
	OpenEntry  float64
	Unrealized float64

	Start time.Time
	End   time.Time

	Entries []journal.Entry
}

// ReturnPct is NetPnL relative to StartBalance.
func (r Result) ReturnPct() float64 {
	if r.StartBalance == 0 {
		return 0
	}
	return r.NetPnL / r.StartBalance * 100
}

func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)
	fmt.Fprintf(w, "Strategies:    %s\n", strings.Join(r.Strategies, ", "))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	if !r.Start.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Candles:       %d\n", r.Candles)
	fmt.Fprintf(w, "Cycles:        %d\n", r.Cycles)
	if r.Errors > 0 {
		fmt.Fprintf(w, "Errors:        %d\n", r.Errors)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", r.StartBalance)
	fmt.Fprintf(w, "End Equity:    %.2f\n", r.EndEquity)
	fmt.Fprintf(w, "Net P/L:       %.4f\n", r.NetPnL)
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.ReturnPct())
	if r.OpenSide != market.Flat {
		fmt.Fprintf(w, "Open:          %s @ %.4f (unrealized %.4f)\n", r.OpenSide, r.OpenEntry, r.Unrealized)
	}
}
