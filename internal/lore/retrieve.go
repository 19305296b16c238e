package lore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/writer-harness/internal/model"
)

const (
	// MinScore is the relevance floor: entries must score strictly above it.
	MinScore = 30
	// ContentSampleChars is how much of an entry body is compared with keywords.
	ContentSampleChars = 1000

	DefaultTopK            = 8
	DefaultMaxSnippetChars = 600
)

// Options bounds a retrieval.
type Options struct {
	TopK            int
	MaxSnippetChars int
}

// DefaultOptions returns the default retrieval bounds.
func DefaultOptions() Options {
	return Options{TopK: DefaultTopK, MaxSnippetChars: DefaultMaxSnippetChars}
}

// Scored is a lore entry with its best keyword score.
type Scored struct {
	Entry model.LoreEntry `json:"entry"`
	Score float64         `json:"score"`
}

// Rank scores every entry against the keywords and sorts by score descending.
// Ties keep pool order. With no keywords every entry scores 0.
func Rank(keywords []string, pool []model.LoreEntry) []Scored {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	scored := make([]Scored, 0, len(pool))
	for _, e := range pool {
		title := strings.ToLower(e.Title)
		sample := strings.ToLower(truncateRunes(e.Body, ContentSampleChars))
		best := 0.0
		for _, k := range lowered {
			best = max(best, PartialRatio(k, title), PartialRatio(k, sample))
		}
		scored = append(scored, Scored{Entry: e, Score: best})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Retrieve returns at most opts.TopK formatted snippets for entries scoring
// above MinScore, best first. The cap is applied before the floor.
func Retrieve(keywords []string, pool []model.LoreEntry, opts Options) []string {
	if opts.MaxSnippetChars <= 0 {
		opts.MaxSnippetChars = DefaultMaxSnippetChars
	}
	if opts.TopK <= 0 || len(pool) == 0 {
		return nil
	}

	ranked := Rank(keywords, pool)
	if len(ranked) > opts.TopK {
		ranked = ranked[:opts.TopK]
	}

	var out []string
	for _, s := range ranked {
		if s.Score <= MinScore {
			continue
		}
		out = append(out, Snippet(s.Entry, opts.MaxSnippetChars))
	}
	return out
}

// Snippet formats an entry as a bold title line followed by its body,
// truncated to maxChars with a trailing "..." when cut.
func Snippet(e model.LoreEntry, maxChars int) string {
	body := truncateRunes(e.Body, maxChars)
	if len(body) < len(e.Body) {
		body += "..."
	}
	return fmt.Sprintf("**%s**\n%s", e.Title, body)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
