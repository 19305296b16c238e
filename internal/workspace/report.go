package workspace

import (
	"fmt"
	"os"
	"strings"

	"github.com/rcliao/writer-harness/internal/lint"
	"github.com/rcliao/writer-harness/internal/model"
)

// DraftOutputs are the files written after a draft pass.
type DraftOutputs struct {
	Draft      string `json:"draft"`
	StyleLint  string `json:"style_lint"`
	Continuity string `json:"continuity_lint"`
}

// ReviseOutputs are the files written after a revise pass.
type ReviseOutputs struct {
	Revised string `json:"revised"`
	Report  string `json:"report"`
}

// WriteDraft saves a draft and its lint reports under outputs/ using the
// scene number as prefix.
func (w *Workspace) WriteDraft(num, text string, report lint.Report) (DraftOutputs, error) {
	out := DraftOutputs{
		Draft:      w.Path(OutputsDir, num+"_scene_draft.md"),
		StyleLint:  w.Path(OutputsDir, num+"_style_lint.md"),
		Continuity: w.Path(OutputsDir, num+"_continuity_lint.md"),
	}
	files := map[string]string{
		out.Draft:      text,
		out.StyleLint:  StyleReport(report.Style),
		out.Continuity: ContinuityReport(report.Continuity),
	}
	if err := w.writeOutputs(files); err != nil {
		return DraftOutputs{}, err
	}
	return out, nil
}

// WriteRevision saves a revised text and its post-revision report.
func (w *Workspace) WriteRevision(num, text string, report lint.Report) (ReviseOutputs, error) {
	out := ReviseOutputs{
		Revised: w.Path(OutputsDir, num+"_scene_out.md"),
		Report:  w.Path(OutputsDir, num+"_revise_lint.md"),
	}
	files := map[string]string{
		out.Revised: text,
		out.Report:  ReviseReport(report),
	}
	if err := w.writeOutputs(files); err != nil {
		return ReviseOutputs{}, err
	}
	return out, nil
}

func (w *Workspace) writeOutputs(files map[string]string) error {
	if err := os.MkdirAll(w.Path(OutputsDir), 0o755); err != nil {
		return fmt.Errorf("create outputs dir: %w", err)
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// StyleReport renders style violations as markdown.
func StyleReport(vs []model.Violation) string {
	var b strings.Builder
	b.WriteString("# Style Lint Report\n\n")
	if len(vs) == 0 {
		b.WriteString("No style violations.\n")
		return b.String()
	}
	for _, v := range vs {
		fmt.Fprintf(&b, "- **Line %d**: %s\n", v.LineNumber(), v.Message)
		if v.Context != "" {
			fmt.Fprintf(&b, "  > %s\n", v.Context)
		}
	}
	return b.String()
}

// ContinuityReport renders continuity violations as markdown.
func ContinuityReport(vs []model.Violation) string {
	var b strings.Builder
	b.WriteString("# Continuity Lint Report\n\n")
	if len(vs) == 0 {
		b.WriteString("No continuity violations.\n")
		return b.String()
	}
	for _, v := range vs {
		fmt.Fprintf(&b, "- %s\n", v.Message)
		if v.Context != "" {
			fmt.Fprintf(&b, "  > %s\n", v.Context)
		}
	}
	return b.String()
}

// ReviseReport lists the violations remaining after a revision.
func ReviseReport(r lint.Report) string {
	var b strings.Builder
	b.WriteString("# Post-Revision Lint Report\n\n")
	b.WriteString("## Style Violations (Remaining)\n")
	writeMessages(&b, r.Style)
	b.WriteString("\n## Continuity Violations (Remaining)\n")
	writeMessages(&b, r.Continuity)
	return b.String()
}

func writeMessages(b *strings.Builder, vs []model.Violation) {
	if len(vs) == 0 {
		b.WriteString("None.\n")
		return
	}
	for _, v := range vs {
		fmt.Fprintf(b, "- %s\n", v.Message)
	}
}
