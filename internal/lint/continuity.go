package lint

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/patterns"
)

const (
	// MinLocationCheckChars is the length a document must exceed before a
	// missing location mention is reported.
	MinLocationCheckChars = 100
	// TimelineRatio is how many times the ledger's elapsed time a reference may
	// reach before it is flagged.
	TimelineRatio = 3
)

// genericRoles are present-character names that are never required in the text.
var genericRoles = map[string]bool{
	"aide":      true,
	"assistant": true,
	"staff":     true,
	"attendant": true,
}

var timeRefRegex = regexp.MustCompile(`(?i)(\d+)\s+(?:minutes?|hours?|days?)`)

// LintContinuity runs every continuity check. Results are not deduplicated.
func LintContinuity(text string, ledger *model.Ledger) []model.Violation {
	var vs []model.Violation
	vs = append(vs, LocationChange(text, ledger)...)
	vs = append(vs, WhoPresent(text, ledger)...)
	vs = append(vs, Timeline(text, ledger)...)
	return vs
}

// LocationChange warns when the current location is named on no line of a
// document longer than MinLocationCheckChars.
func LocationChange(text string, ledger *model.Ledger) []model.Violation {
	loc := strings.ToLower(ledger.LocationCurrent)
	for _, line := range splitLines(text) {
		if strings.Contains(strings.ToLower(line), loc) {
			return nil
		}
	}
	if utf8.RuneCountInString(text) <= MinLocationCheckChars {
		return nil
	}
	return []model.Violation{continuityViolation(
		fmt.Sprintf("Current location '%s' not mentioned in text", ledger.LocationCurrent),
		"Confirm scene is still in this location",
	)}
}

// WhoPresent warns once for each present character never named as a whole word.
func WhoPresent(text string, ledger *model.Ledger) []model.Violation {
	lower := strings.ToLower(text)
	var vs []model.Violation
	for _, name := range ledger.WhoPresent {
		nameLower := strings.ToLower(name)
		if genericRoles[nameLower] {
			continue
		}
		re := regexp.MustCompile(patterns.WholeWord(nameLower))
		if re.MatchString(lower) {
			continue
		}
		vs = append(vs, continuityViolation(
			fmt.Sprintf("Character '%s' supposed present but not mentioned", name),
			"Check if character should still be in scene",
		))
	}
	return vs
}

// Timeline warns for every numeric time reference greater than TimelineRatio
// times the ledger's elapsed time. Units are not converted: "2 hours" against a
// "90 minutes" baseline compares 2 with 90. The check is skipped when the
// elapsed time has no number in it.
func Timeline(text string, ledger *model.Ledger) []model.Violation {
	m := timeRefRegex.FindStringSubmatch(ledger.ElapsedTimeSinceLastScene)
	if m == nil {
		return nil
	}
	baseline, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return nil
	}
	limit := uint64(math.MaxUint64)
	if baseline <= math.MaxUint64/TimelineRatio {
		limit = baseline * TimelineRatio
	}

	var vs []model.Violation
	for _, ref := range timeRefRegex.FindAllStringSubmatch(text, -1) {
		n, err := strconv.ParseUint(ref[1], 10, 64)
		if err != nil {
			// Too large to represent, so certainly past the limit.
			n = math.MaxUint64
			if limit == math.MaxUint64 {
				continue
			}
		}
		if n > limit {
			vs = append(vs, continuityViolation(
				fmt.Sprintf("Time reference (%s) may exceed elapsed time", ref[1]),
				"Elapsed: "+ledger.ElapsedTimeSinceLastScene,
			))
		}
	}
	return vs
}

func continuityViolation(msg, context string) model.Violation {
	return model.Violation{
		Category: model.CategoryContinuity,
		Severity: model.SeverityWarning,
		Message:  msg,
		Context:  context,
	}
}
