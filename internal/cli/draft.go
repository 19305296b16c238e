package cli

import (
	"fmt"

	"github.com/rcliao/writer-harness/internal/config"
	"github.com/rcliao/writer-harness/internal/generate"
	"github.com/rcliao/writer-harness/internal/lore"
	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/pipeline"
	"github.com/rcliao/writer-harness/internal/store"
	"github.com/rcliao/writer-harness/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "draft <scene-file>",
		Short: "Generate a draft of a scene",
		Long:  "Generate prose from the scene's seed, the continuity ledger, style rules and retrieved lore, then lint it. Outputs go to <workspace>/outputs.",
		Args:  cobra.ExactArgs(1),
		Run:   runDraft,
	}

	cmd.Flags().Int("lore-k", lore.DefaultTopK, "Number of lore snippets to retrieve")
	cmd.Flags().Bool("no-lore", false, "Disable lore retrieval")

	RootCmd.AddCommand(cmd)
}

// newEnv validates settings and selects the generator.
func newEnv(s config.Settings) pipeline.Env {
	if err := s.Validate(); err != nil {
		exitErr("settings", err)
	}
	logger := newLogger()
	gen, err := generate.New(s, generate.WithLogger(logger))
	if err != nil {
		exitErr("generator", err)
	}
	return pipeline.Env{
		Root:      s.WorkspaceRoot,
		Generator: gen,
		MaxTokens: s.MaxTokens,
		Logger:    logger,
	}
}

func runDraft(cmd *cobra.Command, args []string) {
	loreK, _ := cmd.Flags().GetInt("lore-k")
	noLore, _ := cmd.Flags().GetBool("no-lore")
	scenePath := args[0]

	s := loadSettings()
	env := newEnv(s)

	res, err := pipeline.Draft(cmd.Context(), env, pipeline.DraftParams{
		ScenePath: scenePath,
		LoreK:     loreK,
		NoLore:    noLore,
	})
	if err != nil {
		exitErr("draft", err)
	}

	num := workspace.SceneNumber(scenePath)
	out, err := openWorkspace(s).WriteDraft(num, res.Text, res.Report)
	if err != nil {
		exitErr("write outputs", err)
	}

	run := recordRun(cmd.Context(), s, env.Logger, store.RecordParams{
		Kind:       model.RunDraft,
		Scene:      num,
		Source:     out.Draft,
		Provider:   env.Generator.Name(),
		Model:      env.Generator.Model(),
		Style:      res.Report.Style,
		Continuity: res.Report.Continuity,
	})

	if jsonOutput() {
		result := map[string]any{
			"outputs":  out,
			"keywords": res.Keywords,
			"lore":     len(res.Lore),
			"report":   res.Report,
		}
		if run != nil {
			result["run_id"] = run.ID
		}
		printJSON(cmd.OutOrStdout(), result)
		return
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Draft: %s\n", out.Draft)
	fmt.Fprintf(w, "Style Lint: %s\n", out.StyleLint)
	fmt.Fprintf(w, "Continuity Lint: %s\n", out.Continuity)
	fmt.Fprintf(w, "\nIssues found: %d style, %d continuity\n", len(res.Report.Style), len(res.Report.Continuity))
	if !res.Report.Clean() {
		fmt.Fprintln(w, "Tip: run 'revise' to fix violations:")
		fmt.Fprintf(w, "  writer-harness revise %s\n", out.Draft)
	}
}
