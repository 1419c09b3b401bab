package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/pyroflow/storage"
)

// defaultRunDB is the run ledger shared by run and runs.
const defaultRunDB = "~/.pyroflow/runs.db"

var (
	flagRunsDB    string
	flagRunsLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `Display the most recent run summaries from the run ledger.

Examples:
  pyroflow runs --db runs.db
  pyroflow runs --db runs.db --limit 20`,
	Args: cobra.NoArgs,
	RunE: listRuns,
}

func init() {
	runsCmd.Flags().StringVar(&flagRunsDB, "db", defaultRunDB, "Path to run ledger database")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
}

// tickOrDash renders a missing tick as "-".
func tickOrDash(tick int) string {
	if tick < 0 {
		return "-"
	}
	return fmt.Sprint(tick)
}

func listRuns(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagRunsDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out, "Use 'pyroflow run' to record one.")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-20s  %-6s  %-6s  %-9s  %-7s  %-9s  %-6s  %s\n",
		"ID", "Seed", "Ticks", "Floors", "PeakFire", "Danger", "Collapsed", "Alarm", "Date")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-4d  %-20d  %-6d  %-6d  %-9d  %-7.0f  %-9d  %-6s  %s\n",
			r.ID, r.Seed, r.Ticks, r.Floors, r.PeakFireCells, r.PeakDanger,
			r.CollapsedWalls, tickOrDash(r.FirstAlarmTick), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
