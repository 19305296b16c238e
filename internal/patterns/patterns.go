// Package patterns holds the heuristic rule tables used by the style checker.
//
// Every built-in table is compiled once at package init. User patterns from a
// PatternSet are compiled by Compile, which skips anything that fails to parse.
package patterns

import (
	"log/slog"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/rcliao/writer-harness/internal/model"
)

// Rule is one compiled heuristic: a match on a line yields a violation with
// the rule's severity and message.
type Rule struct {
	Pattern  *regexp.Regexp
	Severity model.Severity
	Message  string
}

// Word boundaries around a word character, with letters and digits from any
// script counting as word characters. Go's \b is ASCII-only.
const (
	WordStart = `(?:^|[^\p{L}\p{N}_])`
	WordEnd   = `(?:$|[^\p{L}\p{N}_])`

	wordChar = `[\p{L}\p{N}_]`
)

// WholeWord returns an expression matching literal only where \b would match
// on each side under Unicode word rules. A side that starts or ends with a
// non-word character needs a word character next to it instead.
func WholeWord(literal string) string {
	if literal == "" {
		return regexp.QuoteMeta(literal)
	}
	start, end := WordStart, WordEnd
	if !isWordRune(firstRune(literal)) {
		start = wordChar
	}
	if !isWordRune(lastRune(literal)) {
		end = wordChar
	}
	return start + regexp.QuoteMeta(literal) + end
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

type ruleDef struct {
	expr    string
	message string
}

func table(sev model.Severity, defs []ruleDef) []Rule {
	rules := make([]Rule, 0, len(defs))
	for _, d := range defs {
		rules = append(rules, Rule{
			Pattern:  regexp.MustCompile(d.expr),
			Severity: sev,
			Message:  d.message,
		})
	}
	return rules
}

// SceneContainment catches flashbacks, historical exposition and past-event summaries.
var SceneContainment = table(model.SeverityError, []ruleDef{
	{`(?i)` + WordStart + `flashback` + WordEnd, "Flashback (breaks scene containment)"},
	{`(?i)(?:in\s+)?(?:a\s+)?(?:flashback|reverie|memory)`, "Flashback insertion (breaks containment)"},
	{`(?i)(?:she\s+)?(?:had\s+)?been\s+(?:the\s+)?(?:type\s+)?(?:years?|months?)\s+(?:ago|before|earlier)`, "Historical exposition (stay in present moment)"},
	{`(?i)(?:this\s+)?(?:wasn't\s+)?(?:the\s+)?(?:first|second|only)\s+time\s+(?:he|she|they)`, "Referencing past event (only if actively discussed)"},
	{`(?i)(?:once|when),?\s+(?:years?|months?|weeks?|days?)\s+(?:ago|earlier|before)`, "Backstory exposition (only if dialogue-relevant)"},
	{`(?i)(?:he|she|they)\s+(?:had\s+)?(?:once|used\s+to|always)\s+been`, "Character history insertion (keep to present moment)"},
	{`(?i)(?:back\s+)?(?:when|then),?\s+(?:she|he|they)\s+(?:had|was|were|did)`, "Past event summary mid-scene (avoid unless dialogue-driven)"},
})

// MetaNarrative catches reader/story self-reference and narrated tension mechanics.
var MetaNarrative = table(model.SeverityError, []ruleDef{
	{`(?i)` + WordStart + `(?:the\s+)?reader` + WordEnd, "Meta-narrative: direct reference to reader"},
	{`(?i)` + WordStart + `the\s+(?:story|narrative)` + WordEnd, "Meta-narrative: story self-reference"},
	{`(?i)` + WordStart + `authorial\s+(?:intent|voice)`, "Meta-narrative: author commentary"},
	{`(?i)` + WordStart + `as\s+the\s+author` + WordEnd, "Meta-narrative: author intrusion"},
	{`(?i)(?:to\s+)?(?:build|escalate|heighten|deepen)\s+(?:the\s+)?tension`, "Narrative explanation: don't explain tension mechanics"},
	{`(?i)(?:the\s+)?(?:mood|atmosphere)\s+(?:shifts|changes|deepens|grows)`, "Narrative explanation: mood shift labeling"},
	{`(?i)(?:this|that|it)\s+(?:would|could|should)\s+(?:reveal|show|prove|demonstrate)`, "Narrative explanation: explaining what action means"},
})

// Editorializing catches named relational outcomes and authorial diagnosis.
var Editorializing = table(model.SeverityError, []ruleDef{
	{`(?i)` + WordStart + `won` + WordEnd + `.*(?:over|her|him|the\s+day|control|the\s+upper\s+hand)`, "Relational outcome named: 'won...'"},
	{`(?i)` + WordStart + `(victory|triumph|surrender|submission|dominance|defeat|conquest)` + WordEnd, "Abstract state named (show behavior instead)"},
	{`(?i)he\s+had\s+(won|conquered|captured|claimed)`, "Relational outcome named"},
	{`(?i)(?:was|is)\s+(?:victorious|triumphant|defeated|conquered)`, "State named (avoid diagnosis)"},
	{`(?i)this\s+(?:revealed|showed|proved|demonstrated)\s+(?:that|her|his|the)`, "Narrative explanation: explaining meaning"},
	{`(?i)(?:in\s+)?(?:this\s+moment|that\s+instant),?\s+(?:she|he|they)\s+(?:understood|realized|knew)`, "Diagnosis line: realizing/understanding"},
})

// POVConsistency catches character typing and habitual summaries.
var POVConsistency = table(model.SeverityWarning, []ruleDef{
	{`(?i)(?:she|he)\s+(?:was\s+)?(?:the\s+type\s+)?(?:of|to)`, "Character summary/typing (breaks POV)"},
	{`(?i)(?:in\s+)?(?:her|his)\s+(?:nature|character|way)`, "Character summary (breaks POV)"},
	{`(?i)(?:like|as)\s+(?:she|he)\s+(?:always|usually|often)\s+(?:did|was)`, "Habitual summary (breaks POV)"},
	{`(?i)she\s+(?:had\s+)?(?:never|always)\s+(?:been\s+)?(?:one\s+)?to`, "Character typing (breaks POV)"},
})

// InanimateSubjects are scene objects that must not emote.
var InanimateSubjects = []string{
	"silence", "room", "light", "table", "chair", "desk",
	"painting", "photo", "box", "door", "window",
	"ventilation", "shoes", "clock", "mirror",
	"wall", "floor", "ceiling", "air", "space", "shadows",
	"fabric", "glass", "marble", "stone", "wood",
}

// EmotionalVerbs are perceptual or emotional verbs reserved for characters.
var EmotionalVerbs = []string{
	"watches", "listens", "hears", "sees", "knows",
	"remembers", "judges", "accuses", "demands",
	"mirrors", "reflects", "echoes", "whispers",
	"breathes", "holds", "embraces", "waits",
}

// Pairing is a compiled noun-then-verb matcher. Patterns expect a lowercased line.
type Pairing struct {
	Noun    string
	Verb    string
	Pattern *regexp.Regexp
}

// Anthropomorphism is the noun × verb cross product, in noun-major order.
var Anthropomorphism = buildPairings(InanimateSubjects, EmotionalVerbs)

func buildPairings(nouns, verbs []string) []Pairing {
	out := make([]Pairing, 0, len(nouns)*len(verbs))
	for _, n := range nouns {
		for _, v := range verbs {
			expr := WordStart + regexp.QuoteMeta(n) + `\s+(?:` + wordChar + `+\s+)*` + regexp.QuoteMeta(v) + WordEnd
			out = append(out, Pairing{Noun: n, Verb: v, Pattern: regexp.MustCompile(expr)})
		}
	}
	return out
}

// SecondPerson matches the pronoun "you" as a whole word.
var SecondPerson = regexp.MustCompile(`(?i)` + WholeWord("you"))

// Compile compiles user-supplied patterns in order. Malformed patterns are
// logged and dropped; they never fail the caller.
func Compile(exprs []string, logger *slog.Logger) []*regexp.Regexp {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			logger.Warn("Skipping malformed pattern", "pattern", expr, "error", err)
			continue
		}
		out = append(out, re)
	}
	return out
}
