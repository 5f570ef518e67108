package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query trade journal data",
	Long: `Query and display the trade journal configured in the config file, or the
one given with --type and --path.

Subcommands:
  list   - List entries, optionally filtered by symbol, action and day
  stats  - Summarize realized P/L, wins and losses
  export - Write entries as CSV
  trade  - Show one entry by ID

Examples:
  cryptobot journal list --day 2024-01-15
  cryptobot journal list --action close_long
  cryptobot journal stats --symbol BTC-USDT
  cryptobot journal export -o trades.csv
  cryptobot journal --type sqlite --path trades.db trade 01HV...`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize journal entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalStats,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journal entries as CSV",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <entry-id>",
	Short: "Get details of a specific entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var (
	journalType   string
	journalPath   string
	journalSymbol string
	journalDay    string
	journalAction string
	journalOutput string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalStatsCmd)
	journalCmd.AddCommand(journalExportCmd)
	journalCmd.AddCommand(journalTradeCmd)

	journalCmd.PersistentFlags().StringVar(&journalType, "type", "", "journal backend (json, sqlite); default from config")
	journalCmd.PersistentFlags().StringVar(&journalPath, "path", "", "journal file; default from config")
	journalCmd.PersistentFlags().StringVarP(&journalSymbol, "symbol", "s", "", "only entries for this symbol")
	journalCmd.PersistentFlags().StringVar(&journalAction, "action", "", "only entries with this action (open_long, open_short, close_long, close_short)")
	journalCmd.PersistentFlags().StringVar(&journalDay, "day", "", "only entries on this UTC day (YYYY-MM-DD or 'today')")
	journalExportCmd.Flags().StringVarP(&journalOutput, "output", "o", "", "CSV output file (default stdout)")
}

func openJournal() (journal.Journal, error) {
	kind, path := journalType, journalPath
	if kind == "" || path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		if kind == "" {
			kind = cfg.Journal.Type
		}
		if path == "" {
			path = cfg.Journal.Path
		}
	}
	j, err := journal.Open(kind, path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// entryQuery holds the --symbol, --action and --day filters.
type entryQuery struct {
	symbol string
	action string
	day    string
	now    func() time.Time
}

func flagQuery() entryQuery {
	return entryQuery{symbol: journalSymbol, action: journalAction, day: journalDay, now: time.Now}
}

func (q entryQuery) filter() (journal.Filter, error) {
	f := journal.Filter{Symbol: q.symbol}
	if q.action != "" {
		a, err := journal.ParseAction(q.action)
		if err != nil {
			return f, fmt.Errorf("action: %w", err)
		}
		f.Action = a
	}
	if q.day != "" {
		day := q.day
		if day == "today" {
			day = q.now().UTC().Format("2006-01-02")
		}
		start, end, err := dayBounds(time.UTC, day)
		if err != nil {
			return f, fmt.Errorf("day: %w", err)
		}
		f.Since, f.Until = start, end
	}
	return f, nil
}

// selectEntries applies the query to j. SQLite journals answer day and
// symbol queries with indexed scans.
func selectEntries(j journal.Journal, q entryQuery) ([]journal.Entry, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}

	var entries []journal.Entry
	db, isSQLite := j.(*journal.SQLite)
	switch {
	case isSQLite && !f.Since.IsZero():
		entries, err = db.ListBetween(f.Since, f.Until)
	case isSQLite && f.Symbol != "":
		entries, err = db.ListSymbol(f.Symbol)
	default:
		entries, err = j.ReplayAll()
	}
	if err != nil {
		return nil, err
	}
	return f.Apply(entries), nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := selectEntries(j, flagQuery())
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}
	fmt.Println(journal.FormatEntriesOrg(entries))
	return nil
}

func runJournalStats(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := selectEntries(j, flagQuery())
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}

	s := journal.Summarize(entries)
	fmt.Printf("Entries:       %d\n", s.Entries)
	fmt.Printf("Trades:        %d\n", s.Trades)
	fmt.Printf("Wins:          %d\n", s.Wins)
	fmt.Printf("Losses:        %d\n", s.Losses)
	fmt.Printf("Win Rate:      %.2f%%\n", s.WinRate*100)
	fmt.Printf("Realized P/L:  %.4f\n", s.RealizedPnL)
	fmt.Printf("Profit Factor: %.2f\n", s.ProfitFactor)
	if s.LastEquity != 0 {
		fmt.Printf("Last Equity:   %.2f\n", s.LastEquity)
	}
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := selectEntries(j, flagQuery())
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}

	var w io.Writer = os.Stdout
	if journalOutput != "" {
		f, err := os.Create(journalOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := journal.WriteCSV(w, entries); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if journalOutput != "" {
		fmt.Fprintf(os.Stderr, "✓ Exported %d entries to %s\n", len(entries), journalOutput)
	}
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if db, ok := j.(*journal.SQLite); ok {
		e, err := db.GetEntry(args[0])
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}
		fmt.Println(journal.FormatEntryOrg(e))
		return nil
	}

	entries, err := j.ReplayAll()
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	e, ok := journal.Find(entries, args[0])
	if !ok {
		return fmt.Errorf("entry %q not found", args[0])
	}
	fmt.Println(journal.FormatEntryOrg(e))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
