// Package prompt assembles generation prompts from delimited sections.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/writer-harness/internal/model"
)

// Section names a prompt block.
type Section string

const (
	SectionSystem     Section = "SYSTEM"
	SectionLedger     Section = "CONTINUITY_LEDGER"
	SectionStyleRules Section = "STYLE_RULES"
	SectionViolations Section = "VIOLATIONS"
	SectionDraft      Section = "DRAFT_TEXT"
	SectionLore       Section = "LORE"
	SectionSeed       Section = "SEED"
	SectionTask       Section = "TASK"
)

// Order is the fixed order sections appear in a built prompt, regardless of
// the order they were set.
var Order = []Section{
	SectionSystem,
	SectionLedger,
	SectionStyleRules,
	SectionViolations,
	SectionDraft,
	SectionLore,
	SectionSeed,
	SectionTask,
}

// NoLore is the LORE body used when retrieval returned nothing or was disabled.
const NoLore = "(No lore retrieved or disabled)"

// Builder collects sections. Setting a section twice replaces it.
type Builder struct {
	sections map[Section]string
	err      error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{sections: make(map[Section]string)}
}

// Set stores text under s.
func (b *Builder) Set(s Section, text string) *Builder {
	b.sections[s] = text
	return b
}

// Has reports whether s has been set.
func (b *Builder) Has(s Section) bool {
	_, ok := b.sections[s]
	return ok
}

// System sets the system instructions.
func (b *Builder) System(text string) *Builder {
	return b.Set(SectionSystem, text)
}

// Ledger renders the ledger as an indented JSON code block.
func (b *Builder) Ledger(l *model.Ledger) *Builder {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("encode ledger: %w", err)
		}
		return b
	}
	return b.Set(SectionLedger, "```json\n"+string(data)+"\n```")
}

// StyleRules renders hard rules, soft preferences and output targets.
func (b *Builder) StyleRules(r *model.StyleRules) *Builder {
	if r == nil {
		r = &model.StyleRules{}
	}
	var sb strings.Builder
	sb.WriteString("## HARD RULES (MUST ENFORCE):\n\n")
	writeGroups(&sb, r.HardRules)
	sb.WriteString("## SOFT PREFERENCES (GUIDANCE):\n\n")
	writeGroups(&sb, r.SoftPreferences)
	sb.WriteString("## OUTPUT TARGETS:\n")
	if lo, hi, ok := r.OutputTargets.WordRange(); ok {
		fmt.Fprintf(&sb, "- Target length: %d–%d words\n", lo, hi)
	}
	return b.Set(SectionStyleRules, sb.String())
}

func writeGroups(sb *strings.Builder, groups model.RuleGroups) {
	for _, g := range groups {
		fmt.Fprintf(sb, "### %s\n", g.Name)
		for _, rule := range g.Rules {
			fmt.Fprintf(sb, "- %s\n", rule)
		}
		sb.WriteString("\n")
	}
}

// Lore numbers the retrieved snippets.
func (b *Builder) Lore(snippets []string) *Builder {
	if len(snippets) == 0 {
		return b.Set(SectionLore, NoLore)
	}
	var sb strings.Builder
	sb.WriteString("## RELEVANT STORY NOTES:\n\n")
	for i, s := range snippets {
		fmt.Fprintf(&sb, "[%d]\n%s\n\n", i+1, s)
	}
	return b.Set(SectionLore, sb.String())
}

// Seed sets the author's scene seed.
func (b *Builder) Seed(text string) *Builder {
	return b.Set(SectionSeed, text)
}

// Violations lists the style and continuity messages to fix.
func (b *Builder) Violations(style, continuity []string) *Builder {
	var sb strings.Builder
	sb.WriteString("## VIOLATIONS TO FIX:\n\n")
	writeList := func(heading string, msgs []string) {
		if len(msgs) == 0 {
			return
		}
		sb.WriteString(heading)
		for _, m := range msgs {
			fmt.Fprintf(&sb, "- %s\n", m)
		}
		sb.WriteString("\n")
	}
	writeList("### STYLE VIOLATIONS:\n", style)
	writeList("### CONTINUITY VIOLATIONS:\n", continuity)
	if len(style) == 0 && len(continuity) == 0 {
		sb.WriteString("No violations found. Light revision for polish.\n")
	}
	return b.Set(SectionViolations, sb.String())
}

// Draft fences the text being revised.
func (b *Builder) Draft(text string) *Builder {
	return b.Set(SectionDraft, "```\n"+text+"\n```")
}

// Task sets the generation instructions.
func (b *Builder) Task(text string) *Builder {
	return b.Set(SectionTask, text)
}

// Build renders the set sections in Order as "\n## NAME\n\n<body>\n".
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	var sb strings.Builder
	for _, s := range Order {
		body, ok := b.sections[s]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", s, body)
	}
	return sb.String(), nil
}
