package model

// Category groups violations by the checker family that produced them.
type Category string

// Severity ranks how strongly a violation should be acted upon.
type Severity string

const (
	CategoryStyle      Category = "style"
	CategoryContinuity Category = "continuity"

	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is a single flagged issue.
type Violation struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Line is 1-based; nil for document-scoped (continuity) violations.
	Line    *int   `json:"line_number,omitempty"`
	Context string `json:"context,omitempty"`
}

// LineNumber returns the violation's line, or 0 when it is document-scoped.
func (v Violation) LineNumber() int {
	if v.Line == nil {
		return 0
	}
	return *v.Line
}

// LoreEntry is a titled block of background reference text.
type LoreEntry struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
