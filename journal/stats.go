package journal

import (
	"strings"
	"time"
)

// Stats summarizes realized results. Only close entries count as trades.
type Stats struct {
	Entries      int     `json:"entries"`
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	RealizedPnL  float64 `json:"realized_pnl"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	ProfitFactor float64 `json:"profit_factor"`
	LastEquity   float64 `json:"last_equity"`
}

// Summarize folds entries into Stats. A close with zero P&L is neither a win
// nor a loss.
func Summarize(entries []Entry) Stats {
	var s Stats
	for _, e := range entries {
		s.Entries++
		if e.Equity != 0 {
			s.LastEquity = e.Equity
		}
		if !e.Action.IsClose() {
			continue
		}

		s.Trades++
		s.RealizedPnL += e.RealizedPnL
		switch {
		case e.RealizedPnL > 0:
			s.Wins++
			s.GrossProfit += e.RealizedPnL
		case e.RealizedPnL < 0:
			s.Losses++
			s.GrossLoss -= e.RealizedPnL
		}
	}

	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	return s
}

// Filter selects entries. Zero fields match everything; Until is exclusive.
type Filter struct {
	Symbol string
	Action Action
	Since  time.Time
	Until  time.Time
}

func (f Filter) Match(e Entry) bool {
	if f.Symbol != "" && !strings.EqualFold(f.Symbol, e.Symbol) {
		return false
	}
	if f.Action != "" && f.Action != e.Action {
		return false
	}
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !e.Time.Before(f.Until) {
		return false
	}
	return true
}

func (f Filter) Apply(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry with the given ID.
func Find(entries []Entry, entryID string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == entryID {
			return e, true
		}
	}
	return Entry{}, false
}

// LastOpen returns the most recent entry for symbol with the given action.
func LastOpen(entries []Entry, symbol string, action Action) (Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Symbol == symbol && e.Action == action {
			return e, true
		}
	}
	return Entry{}, false
}
