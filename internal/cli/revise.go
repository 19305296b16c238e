package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rcliao/writer-harness/internal/config"
	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/pipeline"
	"github.com/rcliao/writer-harness/internal/store"
	"github.com/rcliao/writer-harness/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "revise <draft-file>",
		Short: "Revise a draft to fix violations",
		Long:  "Lint the draft, ask the model to rewrite it against the violations found, and lint the result. Outputs go to <workspace>/outputs.",
		Args:  cobra.ExactArgs(1),
		Run:   runRevise,
	}

	cmd.Flags().Bool("strict", false, "Exit 1 if violations remain after revision")

	RootCmd.AddCommand(cmd)
}

func runRevise(cmd *cobra.Command, args []string) {
	strict, _ := cmd.Flags().GetBool("strict")
	draftPath := args[0]

	data, err := os.ReadFile(draftPath)
	if err != nil {
		exitErr("read draft", err)
	}

	s := loadSettings()
	env := newEnv(s)

	res, err := pipeline.Revise(cmd.Context(), env, pipeline.ReviseParams{DraftText: string(data)})
	if err != nil {
		exitErr("revise", err)
	}

	num := workspace.SceneNumber(draftPath)
	out, err := openWorkspace(s).WriteRevision(num, res.Text, res.Report)
	if err != nil {
		exitErr("write outputs", err)
	}

	run := recordRun(cmd.Context(), s, env.Logger, store.RecordParams{
		Kind:       model.RunRevise,
		Scene:      num,
		Source:     out.Revised,
		Provider:   env.Generator.Name(),
		Model:      env.Generator.Model(),
		Style:      res.Report.Style,
		Continuity: res.Report.Continuity,
	})
	if run != nil {
		linkToLatest(cmd.Context(), s, env.Logger, run, model.RunDraft, store.RelRevises)
	}

	if jsonOutput() {
		result := map[string]any{
			"outputs": out,
			"before":  res.Before,
			"report":  res.Report,
		}
		if run != nil {
			result["run_id"] = run.ID
		}
		printJSON(cmd.OutOrStdout(), result)
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Revised: %s\n", out.Revised)
		fmt.Fprintf(w, "Report: %s\n", out.Report)
		fmt.Fprintf(w, "\nIssues remaining: %d style, %d continuity\n", len(res.Report.Style), len(res.Report.Continuity))
	}

	if strict && !res.Report.Clean() {
		fmt.Fprintln(os.Stderr, "Strict mode: violations remain.")
		os.Exit(1)
	}
}

// linkToLatest links run to the newest run of kind for the same scene.
func linkToLatest(ctx context.Context, s config.Settings, logger *slog.Logger, run *model.Run, kind model.RunKind, rel string) {
	if run.Scene == "" {
		return
	}
	st, err := openStore(s)
	if err != nil {
		logger.Warn("History unavailable", "db", getDBPath(s), "error", err)
		return
	}
	defer st.Close()

	prev, err := st.List(ctx, store.ListParams{Scene: run.Scene, Kind: kind, Limit: 1})
	if err != nil || len(prev) == 0 {
		return
	}
	if _, err := st.Link(ctx, store.LinkParams{FromID: run.ID, ToID: prev[0].ID, Rel: rel}); err != nil {
		logger.Warn("Failed to link runs", "from", run.ID, "to", prev[0].ID, "rel", rel, "error", err)
	}
}
