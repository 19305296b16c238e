package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rcliao/writer-harness/internal/config"
	"github.com/rcliao/writer-harness/internal/lint"
	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/store"
)

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// printReport renders a lint report the way `lint` shows it in a terminal.
func printReport(w io.Writer, r lint.Report) {
	if len(r.Style) > 0 {
		fmt.Fprintln(w, "\nStyle Violations:")
		for _, v := range r.Style {
			fmt.Fprintf(w, "  %s Line %d: %s\n", strings.ToUpper(string(v.Severity)), v.LineNumber(), v.Message)
			if v.Context != "" {
				fmt.Fprintf(w, "    > %s\n", v.Context)
			}
		}
	}
	if len(r.Continuity) > 0 {
		fmt.Fprintln(w, "\nContinuity Violations:")
		for _, v := range r.Continuity {
			fmt.Fprintf(w, "  %s %s\n", strings.ToUpper(string(v.Severity)), v.Message)
			if v.Context != "" {
				fmt.Fprintf(w, "    > %s\n", v.Context)
			}
		}
	}
	if r.Clean() {
		fmt.Fprintln(w, "No violations found.")
		return
	}
	fmt.Fprintf(w, "\nTotal violations: %d\n", r.Total())
}

func printRuns(w io.Writer, runs []model.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		scene := r.Scene
		if scene == "" {
			scene = "-"
		}
		fmt.Fprintf(w, "%s  %-6s  scene %-4s  v%d  %d style, %d continuity  %s\n",
			r.ID, r.Kind, scene, r.Version, r.StyleCount, r.ContinuityCount,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

// recordRun stores a run in the history database. History is best-effort:
// failures are logged and the command carries on.
func recordRun(ctx context.Context, s config.Settings, logger *slog.Logger, p store.RecordParams) *model.Run {
	st, err := openStore(s)
	if err != nil {
		logger.Warn("History unavailable", "db", getDBPath(s), "error", err)
		return nil
	}
	defer st.Close()

	run, err := st.Record(ctx, p)
	if err != nil {
		logger.Warn("Failed to record run", "kind", p.Kind, "error", err)
		return nil
	}
	logger.Debug("Recorded run", "id", run.ID, "kind", run.Kind, "scene", run.Scene, "version", run.Version)
	return run
}
