package lint

import (
	"github.com/rcliao/writer-harness/internal/model"
)

// Report combines the style and continuity results for one document.
type Report struct {
	Style      []model.Violation `json:"style"`
	Continuity []model.Violation `json:"continuity"`
}

// Run checks text against both rule sets. The ledger's current location is
// passed to the style checker as the scene location.
func Run(text string, checker *StyleChecker, ledger *model.Ledger) Report {
	return Report{
		Style:      checker.Check(text, ledger.LocationCurrent),
		Continuity: LintContinuity(text, ledger),
	}
}

// Total returns the number of violations in the report.
func (r Report) Total() int {
	return len(r.Style) + len(r.Continuity)
}

// Clean reports whether no violations were found.
func (r Report) Clean() bool {
	return r.Total() == 0
}

// All returns style violations followed by continuity violations.
func (r Report) All() []model.Violation {
	out := make([]model.Violation, 0, r.Total())
	out = append(out, r.Style...)
	return append(out, r.Continuity...)
}

// Messages returns the message of each violation, in order.
func Messages(vs []model.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Message
	}
	return out
}
