package lore

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// word is a maximal run of word characters in any script.
	word = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	// capitalized is a whole word of one ASCII capital and ASCII lowercase letters.
	capitalized = regexp.MustCompile(`^[A-Z][a-z]+$`)
)

// ExtractKeywords returns the distinct runs of capitalized words in text, such
// as "Moscow" or "Novo Ogaryovo". Only whole words count: "Zoë" and "McKay"
// are not keywords, and neither is any part of them. Words in a run are
// separated by whitespace only. The result is sorted only to keep output
// stable; callers should treat it as a set.
func ExtractKeywords(text string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(start, end int) {
		tok := text[start:end]
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}

	runStart, runEnd := -1, -1
	for _, loc := range word.FindAllStringIndex(text, -1) {
		if !capitalized.MatchString(text[loc[0]:loc[1]]) {
			if runStart >= 0 {
				add(runStart, runEnd)
				runStart = -1
			}
			continue
		}
		if runStart >= 0 && strings.TrimSpace(text[runEnd:loc[0]]) == "" {
			runEnd = loc[1]
			continue
		}
		if runStart >= 0 {
			add(runStart, runEnd)
		}
		runStart, runEnd = loc[0], loc[1]
	}
	if runStart >= 0 {
		add(runStart, runEnd)
	}

	sort.Strings(out)
	return out
}
