package cli

import (
	"fmt"

	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded lint, draft and revise runs",
		Args:  cobra.NoArgs,
		Run:   runHistory,
	}

	cmd.Flags().StringP("scene", "s", "", "Filter by scene number")
	cmd.Flags().String("kind", "", "Filter by kind: lint, draft or revise")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().StringP("grep", "g", "", "Only runs with a violation whose message or context contains this text")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run with its violations and links",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryShow,
	}

	rm := &cobra.Command{
		Use:   "rm <run-id>",
		Short: "Delete a run",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryRm,
	}

	link := &cobra.Command{
		Use:   "link <from-id> <to-id>",
		Short: "Create or remove a relation between runs",
		Args:  cobra.ExactArgs(2),
		Run:   runHistoryLink,
	}
	link.Flags().StringP("rel", "r", store.RelRelates, "Relation: revises, relints, relates_to")
	link.Flags().Bool("rm", false, "Remove the link")

	cmd.AddCommand(show, rm, link)
	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	scene, _ := cmd.Flags().GetString("scene")
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	grep, _ := cmd.Flags().GetString("grep")

	if kind != "" && !model.RunKind(kind).Valid() {
		exitErr("history", fmt.Errorf("invalid kind %q (valid: lint, draft, revise)", kind))
	}

	st, err := openStore(loadSettings())
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	w := cmd.OutOrStdout()

	if grep != "" {
		results, err := st.Search(cmd.Context(), store.SearchParams{
			Query: grep,
			Kind:  model.RunKind(kind),
			Limit: limit,
		})
		if err != nil {
			exitErr("search", err)
		}
		if jsonOutput() {
			if len(results) == 0 {
				fmt.Fprintln(w, "[]")
				return
			}
			printJSON(w, results)
			return
		}
		runs := make([]model.Run, len(results))
		for i, r := range results {
			runs[i] = r.Run
		}
		printRuns(w, runs)
		return
	}

	runs, err := st.List(cmd.Context(), store.ListParams{
		Scene: scene,
		Kind:  model.RunKind(kind),
		Limit: limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if jsonOutput() {
		if len(runs) == 0 {
			fmt.Fprintln(w, "[]")
			return
		}
		printJSON(w, runs)
		return
	}
	printRuns(w, runs)
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	st, err := openStore(loadSettings())
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	run, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}
	links, err := st.GetLinks(cmd.Context(), run.ID)
	if err != nil {
		exitErr("get links", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput() {
		printJSON(w, map[string]any{"run": run, "links": links})
		return
	}

	printRuns(w, []model.Run{*run})
	fmt.Fprintf(w, "Source: %s\n", run.Source)
	if run.Provider != "" {
		fmt.Fprintf(w, "Model: %s/%s\n", run.Provider, run.Model)
	}
	if run.Supersedes != "" {
		fmt.Fprintf(w, "Supersedes: %s\n", run.Supersedes)
	}
	for _, l := range links {
		fmt.Fprintf(w, "Link: %s -%s-> %s\n", l.FromID, l.Rel, l.ToID)
	}
	for _, v := range run.Violations {
		if v.Line != nil {
			fmt.Fprintf(w, "  [%s] %s Line %d: %s\n", v.Category, v.Severity, *v.Line, v.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s %s\n", v.Category, v.Severity, v.Message)
		}
	}
}

func runHistoryRm(cmd *cobra.Command, args []string) {
	st, err := openStore(loadSettings())
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}

func runHistoryLink(cmd *cobra.Command, args []string) {
	rel, _ := cmd.Flags().GetString("rel")
	rm, _ := cmd.Flags().GetBool("rm")

	st, err := openStore(loadSettings())
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	link, err := st.Link(cmd.Context(), store.LinkParams{
		FromID: args[0],
		ToID:   args[1],
		Rel:    rel,
		Remove: rm,
	})
	if err != nil {
		exitErr("link", err)
	}

	printJSON(cmd.OutOrStdout(), link)
}
