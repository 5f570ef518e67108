package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatEntryOrg renders an entry as an Org-mode heading with its facts in a
// PROPERTIES drawer. Close entries get Review placeholders.
func FormatEntryOrg(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s (%s)\n", e.Action, e.Symbol, shortID(e.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", e.ID)
	fmt.Fprintf(&b, ":TIME: %s\n", e.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":SYMBOL: %s\n", e.Symbol)
	fmt.Fprintf(&b, ":ACTION: %s\n", e.Action)
	fmt.Fprintf(&b, ":PRICE: %.4f\n", e.Price)
	fmt.Fprintf(&b, ":AMOUNT: %g\n", e.Amount)
	fmt.Fprintf(&b, ":TAG: %s\n", e.Tag)
	if e.Action.IsClose() {
		fmt.Fprintf(&b, ":REALIZED_PNL: %.4f\n", e.RealizedPnL)
	}
	fmt.Fprintf(&b, ":EQUITY: %.2f\n", e.Equity)
	b.WriteString(":END:\n")
	if e.Action.IsClose() {
		b.WriteString("\n*** Review\n- \n")
	}
	return b.String()
}

// FormatEntriesOrg renders multiple entries separated by blank lines.
func FormatEntriesOrg(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatEntryOrg(e))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
