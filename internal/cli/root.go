// Package cli implements the writer-harness CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rcliao/writer-harness/internal/config"
	"github.com/rcliao/writer-harness/internal/store"
	"github.com/rcliao/writer-harness/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	workspaceFlag string
	dbPath        string
	formatFlag    string
	verbose       bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "writer-harness",
	Short: "Continuity-enforced narrative writing",
	Long:  "Drafts scenes from seeds, lints prose for style and continuity violations, and revises until clean.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace root (default: $WRITER_WORKSPACE or ./workspace)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "History database path (default: $WRITER_HISTORY_DB or <workspace>/history.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
}

func loadSettings() config.Settings {
	s, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		exitErr("load settings", err)
	}
	if workspaceFlag != "" {
		s.WorkspaceRoot = workspaceFlag
	}
	return s
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openWorkspace(s config.Settings) *workspace.Workspace {
	return workspace.Open(s.WorkspaceRoot)
}

func getDBPath(s config.Settings) string {
	if dbPath != "" {
		return dbPath
	}
	if s.HistoryDB != "" {
		return s.HistoryDB
	}
	return filepath.Join(s.WorkspaceRoot, "history.db")
}

func openStore(s config.Settings) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath(s))
}

func jsonOutput() bool {
	return formatFlag == "json"
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
