package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		Long:  "Create lore/, scenes/, outputs/ and starter state.yaml, style_rules.yaml and banned_phrases.yaml. Existing files are left alone.",
		Args:  cobra.NoArgs,
		Run:   runInit,
	}

	RootCmd.AddCommand(cmd)
}

func runInit(cmd *cobra.Command, args []string) {
	ws := openWorkspace(loadSettings())

	created, err := ws.Init()
	if err != nil {
		exitErr("init workspace", err)
	}

	if jsonOutput() {
		printJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "root": ws.Root, "created": created})
		return
	}
	for _, p := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Workspace ready: %s\n", ws.Root)
}
