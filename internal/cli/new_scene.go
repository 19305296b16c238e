package cli

import (
	"fmt"

	"github.com/rcliao/writer-harness/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "new-scene",
		Short: "Create a new numbered scene file",
		Args:  cobra.NoArgs,
		Run:   runNewScene,
	}

	cmd.Flags().StringP("title", "t", workspace.DefaultSceneTitle, "Scene title")

	RootCmd.AddCommand(cmd)
}

func runNewScene(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")

	path, err := openWorkspace(loadSettings()).NewScene(title)
	if err != nil {
		exitErr("new scene", err)
	}

	if jsonOutput() {
		printJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "path": path, "scene": workspace.SceneNumber(path)})
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Tip: edit the scene file and replace [Seed text...] with your opening.")
}
