package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/patterns"
)

func checker(banned, warn []string) *StyleChecker {
	return NewStyleChecker(model.PatternSet{BannedRegex: banned, WarnRegex: warn}, nil)
}

func messages(vs []model.Violation) []string {
	return Messages(vs)
}

func TestBannedPhrases(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		c := checker([]string{`(?i)breath\s+hitch`}, nil)
		assert.Empty(t, BannedPhrases("She walked to the window and looked out.", c.banned, c.warn))
	})

	t.Run("banned match", func(t *testing.T) {
		c := checker([]string{`(?i)breath\s+hitch`}, nil)
		vs := BannedPhrases("Her breath hitched in the dark.", c.banned, c.warn)
		require.Len(t, vs, 1)
		assert.Equal(t, model.SeverityError, vs[0].Severity)
		assert.Equal(t, model.CategoryStyle, vs[0].Category)
		assert.Equal(t, "Banned: breath hitch", vs[0].Message)
		assert.Equal(t, 1, vs[0].LineNumber())
	})

	t.Run("warn match", func(t *testing.T) {
		c := checker(nil, []string{`(?i)cufflinks\b`})
		vs := BannedPhrases("He adjusted his cufflinks slowly.", c.banned, c.warn)
		require.Len(t, vs, 1)
		assert.Equal(t, model.SeverityWarning, vs[0].Severity)
		assert.Equal(t, "Caution: cufflinks", vs[0].Message)
	})

	t.Run("multiple lines", func(t *testing.T) {
		c := checker([]string{`(?i)breath\s+hitch`, `(?i)silence\s+pools`}, nil)
		text := "Line one.\nHer breath hitched.\nLine three.\nSilence pools around them."
		vs := BannedPhrases(text, c.banned, c.warn)
		require.Len(t, vs, 2)
		assert.Equal(t, 2, vs[0].LineNumber())
		assert.Equal(t, 4, vs[1].LineNumber())
	})

	t.Run("malformed pattern skipped", func(t *testing.T) {
		c := checker([]string{"[invalid", `(?i)hum\w*`}, nil)
		assert.Len(t, c.banned, 1)
		assert.Empty(t, BannedPhrases("Some text", c.banned, c.warn))
	})

	t.Run("context truncated", func(t *testing.T) {
		c := checker([]string{`(?i)breath\s+hitch`}, nil)
		vs := BannedPhrases(strings.Repeat("x", 200)+" breath hitch", c.banned, c.warn)
		require.Len(t, vs, 1)
		assert.Len(t, []rune(vs[0].Context), MaxContextChars)
	})
}

func TestSceneContainment(t *testing.T) {
	assert.Empty(t, SceneContainment("He poured water into the glass and set it down.", ""))

	vs := SceneContainment("In a flashback, she remembered the house.", "")
	assert.Contains(t, messages(vs), "Flashback (breaks scene containment)")

	vs = SceneContainment("She had once been a dancer in Moscow.", "")
	assert.Contains(t, messages(vs), "Character history insertion (keep to present moment)")

	vs = SceneContainment("Back then, she had lived in a different city.", "")
	assert.Contains(t, messages(vs), "Past event summary mid-scene (avoid unless dialogue-driven)")

	vs = SceneContainment("This wasn't the first time she had asked.", "")
	assert.Contains(t, messages(vs), "Referencing past event (only if actively discussed)")

	for _, v := range vs {
		assert.Equal(t, model.SeverityError, v.Severity)
	}
}

func TestMetaNarrative(t *testing.T) {
	assert.Empty(t, MetaNarrative("He set the glass down and waited."))

	tests := []struct {
		text string
		want string
	}{
		{"The reader would notice the tension.", "Meta-narrative: direct reference to reader"},
		{"The story takes a dark turn here.", "Meta-narrative: story self-reference"},
		{"He moved closer to heighten the tension.", "Narrative explanation: don't explain tension mechanics"},
		{"The mood shifts as she enters.", "Narrative explanation: mood shift labeling"},
		{"As the author intended, the scene resolves.", "Meta-narrative: author intrusion"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Contains(t, messages(MetaNarrative(tt.text)), tt.want)
		})
	}
}

func TestPOVAndAddress(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"clean narration", "She looked at him. He said nothing.", 0},
		{"second person narration", "You could see the tension in the room.", 1},
		{"double-quoted dialogue", `"You should leave," she said.`, 0},
		// Opening single quote falls inside the first three characters, so the
		// line is treated as narration.
		{"line opening with single quote", "'You should leave,' she said.", 1},
		{"offset single-quoted dialogue", "She said, 'You should leave.'", 0},
		{"one double quote only", `He said "you and left.`, 1},
		{"you glued to accented letter", "Déjàyou was painted on the sign.", 0},
		{"you after accented word", "Café, you said nothing.", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := POVAndAddress(tt.text)
			assert.Len(t, vs, tt.want)
			for _, v := range vs {
				assert.Equal(t, "Second-person pronoun 'you' in narration", v.Message)
			}
		})
	}
}

func TestIsLikelyDialogue(t *testing.T) {
	assert.True(t, IsLikelyDialogue(`"Hello," she said.`))
	assert.True(t, IsLikelyDialogue("She said, 'hello there.'"))
	assert.False(t, IsLikelyDialogue("'Hello,' she said."))
	assert.False(t, IsLikelyDialogue("It's late."))
	assert.False(t, IsLikelyDialogue(""))
}

func TestEditorializing(t *testing.T) {
	assert.Empty(t, Editorializing("She picked up the glass and drank."))

	assert.Contains(t, messages(Editorializing("It was a victory for him.")), "Abstract state named (show behavior instead)")
	assert.NotEmpty(t, Editorializing("Her surrender was complete."))
	assert.Contains(t, messages(Editorializing("In this moment, she understood that he was lying.")), "Diagnosis line: realizing/understanding")
	assert.Contains(t, messages(Editorializing("This revealed that she had been right all along.")), "Narrative explanation: explaining meaning")
}

func TestObjectAnthropomorphism(t *testing.T) {
	assert.Empty(t, ObjectAnthropomorphism("The room was empty. He closed the door."))

	vs := ObjectAnthropomorphism("The silence watches them from every corner.")
	assert.Contains(t, messages(vs), "Object anthropomorphism: 'silence' + 'watches'")

	vs = ObjectAnthropomorphism("The wall listens to every word.")
	assert.Contains(t, messages(vs), "Object anthropomorphism: 'wall' + 'listens'")

	vs = ObjectAnthropomorphism("The door slowly waits for him.")
	require.NotEmpty(t, vs)
	assert.Contains(t, messages(vs), "Object anthropomorphism: 'door' + 'waits'")
	assert.Equal(t, model.SeverityWarning, vs[0].Severity)
}

func TestObjectAnthropomorphismUnicodeWords(t *testing.T) {
	vs := ObjectAnthropomorphism("The silence of the café watches them.")
	assert.Contains(t, messages(vs), "Object anthropomorphism: 'silence' + 'watches'")

	assert.Empty(t, ObjectAnthropomorphism("Désilence watches nothing."))
	assert.Empty(t, ObjectAnthropomorphism("The door waitsé."))
}

func quotedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = `"Line of a very long speech."`
	}
	return lines
}

func TestDialogueExposition(t *testing.T) {
	t.Run("short dialogue", func(t *testing.T) {
		assert.Empty(t, DialogueExposition("\"Hello,\" she said.\n\"Hi,\" he replied."))
	})

	t.Run("long run closed by narration", func(t *testing.T) {
		text := strings.Join(quotedLines(12), "\n") + "\nShe paused."
		vs := DialogueExposition(text)
		require.Len(t, vs, 1)
		assert.Equal(t, "Long dialogue block (12 lines): consider breaking up", vs[0].Message)
		assert.Equal(t, 1, vs[0].LineNumber())
		assert.Equal(t, "Lines 1–12", vs[0].Context)
		assert.Equal(t, model.SeverityWarning, vs[0].Severity)
	})

	t.Run("run reaching end of text", func(t *testing.T) {
		assert.Empty(t, DialogueExposition(strings.Join(quotedLines(12), "\n")))
	})

	t.Run("boundary", func(t *testing.T) {
		assert.Empty(t, DialogueExposition(strings.Join(quotedLines(MaxDialogueRun), "\n")+"\nDone."))
		assert.Len(t, DialogueExposition(strings.Join(quotedLines(MaxDialogueRun+1), "\n")+"\nDone."), 1)
	})

	t.Run("broken up", func(t *testing.T) {
		var lines []string
		for i := 0; i < 6; i++ {
			lines = append(lines, `"Line."`, "He paused.")
		}
		assert.Empty(t, DialogueExposition(strings.Join(lines, "\n")))
	})

	t.Run("span offset", func(t *testing.T) {
		text := "Opening.\n" + strings.Join(quotedLines(11), "\n") + "\nClosing."
		vs := DialogueExposition(text)
		require.Len(t, vs, 1)
		assert.Equal(t, 2, vs[0].LineNumber())
		assert.Equal(t, "Lines 2–12", vs[0].Context)
	})
}

func TestPOVConsistency(t *testing.T) {
	assert.Empty(t, POVConsistency("She stood and walked to the door."))
	assert.Contains(t, messages(POVConsistency("She was the type to leave without warning.")), "Character summary/typing (breaks POV)")
	assert.Contains(t, messages(POVConsistency("Like she always did, she turned away.")), "Habitual summary (breaks POV)")
	assert.Contains(t, messages(POVConsistency("She had never been one to complain.")), "Character typing (breaks POV)")
}

func TestStyleChecker_Check(t *testing.T) {
	t.Run("clean text", func(t *testing.T) {
		assert.Empty(t, checker(nil, nil).Check("He sat in the chair. She poured coffee.", ""))
	})

	t.Run("dedup collapses identical line and message", func(t *testing.T) {
		c := checker([]string{`(?i)the\s+reader`, `(?i)the reader`}, nil)
		vs := c.Check("The reader waits.", "")
		count := 0
		for _, v := range vs {
			if v.Message == "Banned: The reader" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("no duplicate keys", func(t *testing.T) {
		c := checker([]string{`(?i)the\s+reader`, `(?i)breath`}, []string{`(?i)reader`})
		text := "The reader should understand this.\nHer breath, the reader, the story.\nThe reader."
		type key struct {
			line int
			msg  string
		}
		seen := map[key]bool{}
		for _, v := range c.Check(text, "") {
			k := key{v.LineNumber(), v.Message}
			assert.False(t, seen[k], "duplicate %v", k)
			seen[k] = true
		}
	})

	t.Run("multiple categories", func(t *testing.T) {
		vs := checker([]string{`(?i)breath\s+hitch`}, nil).Check("Her breath hitched. You could see it.", "")
		msgs := messages(vs)
		assert.Contains(t, msgs, "Banned: breath hitch")
		assert.Contains(t, msgs, "Second-person pronoun 'you' in narration")
	})

	t.Run("idempotent", func(t *testing.T) {
		c := checker([]string{`(?i)breath\s+hitch`}, []string{`(?i)hum\w*`})
		text := "The room watches.\nHer breath hitched.\nThe humming stopped. You know why."
		assert.Equal(t, c.Check(text, "Library"), c.Check(text, "Library"))
	})

	t.Run("scene location does not add containment errors", func(t *testing.T) {
		vs := LintStyle(strings.Repeat("He stood and waited. ", 10), model.PatternSet{}, "Library", nil)
		for _, v := range vs {
			assert.NotContains(t, strings.ToLower(v.Message), "containment")
		}
	})
}

func TestDedup(t *testing.T) {
	one, two := 1, 2
	vs := []model.Violation{
		{Message: "a", Line: &one, Context: "first"},
		{Message: "a", Line: &one, Context: "second"},
		{Message: "a", Line: &two},
		{Message: "b"},
		{Message: "b"},
	}
	got := Dedup(vs)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Context)
	assert.Equal(t, 2, got[1].LineNumber())
	assert.Nil(t, got[2].Line)
}

func TestBuiltinTablesCompiled(t *testing.T) {
	assert.Len(t, patterns.Anthropomorphism, len(patterns.InanimateSubjects)*len(patterns.EmotionalVerbs))
	for _, r := range patterns.SceneContainment {
		assert.NotNil(t, r.Pattern)
	}
}
