package journal

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"id", "timestamp", "symbol", "action", "price", "amount", "tag", "realized_pnl", "account_equity"}

// WriteCSV writes entries with a header row.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			e.ID,
			e.Time.UTC().Format(TimeLayout),
			e.Symbol,
			string(e.Action),
			f(e.Price),
			f(e.Amount),
			e.Tag,
			f(e.RealizedPnL),
			f(e.Equity),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
