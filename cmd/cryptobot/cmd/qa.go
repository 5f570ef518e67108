package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/qa"
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Manage the AI question queue",
	Long: `Inspect and extend the question file answered by the qa task.

Examples:
  cryptobot qa list
  cryptobot qa add --id eth-daily --question "ETH outlook for today?" --every 24h`,
}

var qaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions and whether they are due",
	Args:  cobra.NoArgs,
	RunE:  runQAList,
}

var qaAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question",
	Args:  cobra.NoArgs,
	RunE:  runQAAdd,
}

var (
	qaID       string
	qaQuestion string
	qaEvery    time.Duration
)

func init() {
	rootCmd.AddCommand(qaCmd)
	qaCmd.AddCommand(qaListCmd)
	qaCmd.AddCommand(qaAddCmd)

	qaAddCmd.Flags().StringVar(&qaID, "id", "", "question id (required)")
	qaAddCmd.Flags().StringVarP(&qaQuestion, "question", "q", "", "question text (required)")
	qaAddCmd.Flags().DurationVar(&qaEvery, "every", 0, "ask again at this interval (0 = once)")
	qaAddCmd.MarkFlagRequired("id")
	qaAddCmd.MarkFlagRequired("question")
}

func questionStore() (*qa.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return qa.NewStore(cfg.QA.File), nil
}

func runQAList(cmd *cobra.Command, args []string) error {
	store, err := questionStore()
	if err != nil {
		return err
	}
	qs, err := store.Load()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tANSWERED\tEVERY\tANSWERED AT\tDUE\tQUESTION")
	for _, q := range qs {
		every := "-"
		if q.Recurring() {
			every = q.Interval().String()
		}
		at := q.AnsweredAt
		if at == "" {
			at = "-"
		}
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\t%t\t%s\n", q.ID, q.Answered, every, at, q.Due(now), q.Question)
	}
	return w.Flush()
}

func runQAAdd(cmd *cobra.Command, args []string) error {
	store, err := questionStore()
	if err != nil {
		return err
	}
	q := qa.Question{ID: qaID, Question: qaQuestion, Frequency: int64(qaEvery / time.Second)}
	if err := store.Add(q); err != nil {
		return err
	}
	fmt.Printf("✓ Added question %s to %s\n", q.ID, store.Path())
	return nil
}
