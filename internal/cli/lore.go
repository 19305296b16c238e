package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rcliao/writer-harness/internal/lore"
	"github.com/rcliao/writer-harness/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lore [text]",
		Short: "Preview lore retrieval for a piece of text",
		Long:  "Extract keywords from the text (or stdin) and show which lore snippets a draft would receive.",
		Run:   runLore,
	}

	cmd.Flags().IntP("top-k", "k", lore.DefaultTopK, "Number of lore snippets to retrieve")
	cmd.Flags().Bool("scores", false, "Show every scored entry instead of snippets")

	RootCmd.AddCommand(cmd)
}

func runLore(cmd *cobra.Command, args []string) {
	k, _ := cmd.Flags().GetInt("top-k")
	showScores, _ := cmd.Flags().GetBool("scores")

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		text = string(data)
	}

	ws := openWorkspace(loadSettings())
	entries, err := lore.NewLoader(nil, newLogger()).Load(ws.Path(workspace.LoreDir))
	if err != nil {
		exitErr("load lore", err)
	}

	keywords := lore.ExtractKeywords(text)
	w := cmd.OutOrStdout()

	if showScores {
		ranked := lore.Rank(keywords, entries)
		if jsonOutput() {
			printJSON(w, map[string]any{"keywords": keywords, "ranked": ranked})
			return
		}
		fmt.Fprintf(w, "Keywords: %s\n\n", strings.Join(keywords, ", "))
		for _, r := range ranked {
			fmt.Fprintf(w, "%6.1f  %s\n", r.Score, r.Entry.Title)
		}
		return
	}

	opts := lore.DefaultOptions()
	opts.TopK = k
	snippets := lore.Retrieve(keywords, entries, opts)

	if jsonOutput() {
		printJSON(w, map[string]any{"keywords": keywords, "entries": len(entries), "snippets": snippets})
		return
	}
	fmt.Fprintf(w, "Keywords: %s\n", strings.Join(keywords, ", "))
	fmt.Fprintf(w, "Lore entries: %d, retrieved: %d\n", len(entries), len(snippets))
	for i, s := range snippets {
		fmt.Fprintf(w, "\n[%d]\n%s\n", i+1, s)
	}
}
