package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show run history statistics",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s := loadSettings()
	st, err := openStore(s)
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	stats, err := st.Stats(cmd.Context(), getDBPath(s))
	if err != nil {
		exitErr("stats", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput() {
		printJSON(w, stats)
		return
	}

	fmt.Fprintf(w, "Database: %s (%d bytes)\n", stats.DBPath, stats.DBSizeBytes)
	fmt.Fprintf(w, "Runs: %d, violations: %d\n", stats.TotalRuns, stats.TotalViolations)
	for _, k := range stats.Kinds {
		fmt.Fprintf(w, "  %-6s %d runs, %d violations\n", k.Kind, k.Runs, k.Violations)
	}
	if len(stats.TopMessages) > 0 {
		fmt.Fprintln(w, "\nMost frequent violations:")
		for _, m := range stats.TopMessages {
			fmt.Fprintf(w, "  %4d  [%s] %s\n", m.Count, m.Category, m.Message)
		}
	}
}
