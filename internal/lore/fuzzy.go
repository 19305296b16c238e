package lore

import (
	"github.com/pmezard/go-difflib/difflib"
)

// PartialRatio scores how well the shorter of a and b fits somewhere inside
// the longer, on a 0–100 scale. Every alignment of the shorter string against
// the longer is tried, including windows that hang off either end, and the
// best SequenceMatcher ratio wins. Comparison is case-sensitive; callers
// lowercase first. An empty input scores 0.
func PartialRatio(a, b string) float64 {
	short, long := runeSeq(a), runeSeq(b)
	if len(short) == 0 || len(long) == 0 {
		return 0
	}
	if len(short) > len(long) {
		short, long = long, short
	}

	m := difflib.NewMatcher(nil, short)
	best := 0.0
	score := func(window []string) bool {
		m.SetSeq1(window)
		if r := m.Ratio(); r > best {
			best = r
		}
		return best >= 1
	}

	n := len(short)
	for i := 1; i < n; i++ {
		if score(long[:i]) {
			return 100
		}
	}
	for i := 0; i+n <= len(long); i++ {
		if score(long[i : i+n]) {
			return 100
		}
	}
	for i := len(long) - n + 1; i < len(long); i++ {
		if score(long[i:]) {
			return 100
		}
	}
	return best * 100
}

func runeSeq(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
