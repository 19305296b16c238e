package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rcliao/writer-harness/internal/lint"
	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/pipeline"
	"github.com/rcliao/writer-harness/internal/store"
	"github.com/rcliao/writer-harness/internal/watch"
	"github.com/rcliao/writer-harness/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lint <text-file>",
		Short: "Lint a text file for style and continuity violations",
		Args:  cobra.ExactArgs(1),
		Run:   runLint,
	}

	cmd.Flags().Bool("json", false, "Output JSON (same as --format json)")
	cmd.Flags().Bool("watch", false, "Re-lint when the file, state.yaml or banned_phrases.yaml changes")

	RootCmd.AddCommand(cmd)
}

func runLint(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")
	watchMode, _ := cmd.Flags().GetBool("watch")
	path := args[0]
	if asJSON {
		formatFlag = "json"
	}

	s := loadSettings()
	logger := newLogger()

	if !watchMode {
		report, err := lintFile(s.WorkspaceRoot, path, logger)
		if err != nil {
			exitErr("lint", err)
		}
		writeLintResult(cmd, report)

		run := recordRun(cmd.Context(), s, logger, store.RecordParams{
			Kind:       model.RunLint,
			Scene:      workspace.SceneNumber(path),
			Source:     path,
			Style:      report.Style,
			Continuity: report.Continuity,
		})
		if run != nil {
			if kind, ok := generatedKind(path); ok {
				linkToLatest(cmd.Context(), s, logger, run, kind, store.RelRelints)
			}
		}
		return
	}

	ws := openWorkspace(s)
	w, err := watch.New(watch.Config{
		Paths:  []string{path, ws.Path(workspace.StateFile), ws.Path(workspace.BannedPhrasesFile)},
		Logger: logger,
	})
	if err != nil {
		exitErr("watch", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relint := func(changed []string) {
		logger.Debug("Re-linting", "changed", changed)
		report, err := lintFile(s.WorkspaceRoot, path, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: lint: %v\n", err)
			return
		}
		writeLintResult(cmd, report)
	}

	relint(nil)
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", path)
	if err := w.Run(ctx, relint); err != nil && ctx.Err() == nil {
		exitErr("watch", err)
	}
}

func lintFile(root, path string, logger *slog.Logger) (lint.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lint.Report{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Lint(root, string(data), logger)
}

func writeLintResult(cmd *cobra.Command, report lint.Report) {
	if jsonOutput() {
		printJSON(cmd.OutOrStdout(), report)
		return
	}
	printReport(cmd.OutOrStdout(), report)
}

// generatedKind reports which pass wrote an output file, judging by its name.
func generatedKind(path string) (model.RunKind, bool) {
	switch {
	case strings.HasSuffix(path, "_scene_draft.md"):
		return model.RunDraft, true
	case strings.HasSuffix(path, "_scene_out.md"):
		return model.RunRevise, true
	}
	return "", false
}
