package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export run history as JSON",
		Args:  cobra.NoArgs,
		Run:   runExport,
	}

	cmd.Flags().StringP("scene", "s", "", "Export only this scene's runs")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	scene, _ := cmd.Flags().GetString("scene")

	st, err := openStore(loadSettings())
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	runs, err := st.ExportAll(cmd.Context(), scene)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd.OutOrStdout(), runs)
}
