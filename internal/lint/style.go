// Package lint implements the style and continuity checkers.
//
// Every checker is a pure function of its inputs: it reads the document and a
// snapshot of rules or ledger state and returns a fresh slice of violations.
package lint

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/patterns"
)

const (
	// MaxContextChars bounds the excerpt attached to a violation.
	MaxContextChars = 120
	// MaxDialogueRun is the longest run of quoted lines allowed before a warning.
	MaxDialogueRun = 10
)

// StyleChecker applies the built-in rule tables plus a compiled PatternSet.
// It holds no mutable state and is safe for concurrent use.
type StyleChecker struct {
	banned []*regexp.Regexp
	warn   []*regexp.Regexp
}

// NewStyleChecker compiles the user patterns once. Malformed patterns are
// logged and skipped.
func NewStyleChecker(set model.PatternSet, logger *slog.Logger) *StyleChecker {
	return &StyleChecker{
		banned: patterns.Compile(set.BannedRegex, logger),
		warn:   patterns.Compile(set.WarnRegex, logger),
	}
}

// Check runs every style check and deduplicates on (line, message).
func (c *StyleChecker) Check(text, sceneLocation string) []model.Violation {
	var vs []model.Violation
	vs = append(vs, BannedPhrases(text, c.banned, c.warn)...)
	vs = append(vs, SceneContainment(text, sceneLocation)...)
	vs = append(vs, MetaNarrative(text)...)
	vs = append(vs, POVAndAddress(text)...)
	vs = append(vs, Editorializing(text)...)
	vs = append(vs, ObjectAnthropomorphism(text)...)
	vs = append(vs, DialogueExposition(text)...)
	vs = append(vs, POVConsistency(text)...)
	return Dedup(vs)
}

// LintStyle compiles set and checks text in one call.
func LintStyle(text string, set model.PatternSet, sceneLocation string, logger *slog.Logger) []model.Violation {
	return NewStyleChecker(set, logger).Check(text, sceneLocation)
}

// BannedPhrases flags the first match of each pattern on every line: banned
// patterns as errors, warn patterns as warnings.
func BannedPhrases(text string, banned, warn []*regexp.Regexp) []model.Violation {
	lines := splitLines(text)
	var vs []model.Violation
	scan := func(res []*regexp.Regexp, sev model.Severity, label string) {
		for _, re := range res {
			for i, line := range lines {
				loc := re.FindStringIndex(line)
				if loc == nil {
					continue
				}
				vs = append(vs, styleViolation(sev, label+line[loc[0]:loc[1]], i+1, line))
			}
		}
	}
	scan(banned, model.SeverityError, "Banned: ")
	scan(warn, model.SeverityWarning, "Caution: ")
	return vs
}

// SceneContainment flags flashbacks and backstory. sceneLocation is accepted
// for parity with the other entry points and does not affect matching.
func SceneContainment(text, sceneLocation string) []model.Violation {
	_ = sceneLocation
	return applyRules(text, patterns.SceneContainment)
}

// MetaNarrative flags reader/story self-reference and explained tension.
func MetaNarrative(text string) []model.Violation {
	return applyRules(text, patterns.MetaNarrative)
}

// Editorializing flags named relational outcomes and diagnosis lines.
func Editorializing(text string) []model.Violation {
	return applyRules(text, patterns.Editorializing)
}

// POVConsistency flags character typing and habitual summaries.
func POVConsistency(text string) []model.Violation {
	return applyRules(text, patterns.POVConsistency)
}

// POVAndAddress flags "you" on any line not classified as dialogue.
func POVAndAddress(text string) []model.Violation {
	var vs []model.Violation
	for i, line := range splitLines(text) {
		if IsLikelyDialogue(line) {
			continue
		}
		if patterns.SecondPerson.MatchString(line) {
			vs = append(vs, styleViolation(model.SeverityError, "Second-person pronoun 'you' in narration", i+1, line))
		}
	}
	return vs
}

// IsLikelyDialogue reports whether a line looks like quoted speech: two or more
// double quotes, or two or more single quotes with none in the first three
// characters. A line that opens with a single quote is therefore not dialogue.
func IsLikelyDialogue(line string) bool {
	if strings.Count(line, `"`) >= 2 {
		return true
	}
	return strings.Count(line, "'") >= 2 && !strings.Contains(firstRunes(line, 3), "'")
}

// ObjectAnthropomorphism flags an inanimate noun followed, after any number of
// words, by an emotional or perceptual verb.
func ObjectAnthropomorphism(text string) []model.Violation {
	var vs []model.Violation
	for i, line := range splitLines(text) {
		lower := strings.ToLower(line)
		for _, p := range patterns.Anthropomorphism {
			if p.Pattern.MatchString(lower) {
				msg := fmt.Sprintf("Object anthropomorphism: '%s' + '%s'", p.Noun, p.Verb)
				vs = append(vs, styleViolation(model.SeverityWarning, msg, i+1, line))
			}
		}
	}
	return vs
}

// DialogueExposition flags runs of more than MaxDialogueRun consecutive lines
// containing a double quote. A run is only reported once a line without a
// quote closes it, so a run that reaches the end of the text is not flagged.
func DialogueExposition(text string) []model.Violation {
	var vs []model.Violation
	inDialogue := false
	start, count := 0, 0
	for i, line := range splitLines(text) {
		lineNum := i + 1
		if strings.Contains(line, `"`) {
			if !inDialogue {
				inDialogue = true
				start = lineNum
				count = 1
			} else {
				count++
			}
			continue
		}
		if inDialogue && count > MaxDialogueRun {
			l := start
			vs = append(vs, model.Violation{
				Category: model.CategoryStyle,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("Long dialogue block (%d lines): consider breaking up", count),
				Line:     &l,
				Context:  fmt.Sprintf("Lines %d–%d", start, lineNum-1),
			})
		}
		inDialogue = false
		count = 0
	}
	return vs
}

// Dedup keeps the first violation for each (line, message) pair.
func Dedup(vs []model.Violation) []model.Violation {
	type key struct {
		line    int
		hasLine bool
		message string
	}
	seen := make(map[key]bool, len(vs))
	out := make([]model.Violation, 0, len(vs))
	for _, v := range vs {
		k := key{line: v.LineNumber(), hasLine: v.Line != nil, message: v.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func applyRules(text string, rules []patterns.Rule) []model.Violation {
	lines := splitLines(text)
	var vs []model.Violation
	for _, r := range rules {
		for i, line := range lines {
			if r.Pattern.MatchString(line) {
				vs = append(vs, styleViolation(r.Severity, r.Message, i+1, line))
			}
		}
	}
	return vs
}

func styleViolation(sev model.Severity, msg string, line int, text string) model.Violation {
	return model.Violation{
		Category: model.CategoryStyle,
		Severity: sev,
		Message:  msg,
		Line:     &line,
		Context:  excerpt(text),
	}
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func excerpt(line string) string {
	return firstRunes(strings.TrimSpace(line), MaxContextChars)
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
