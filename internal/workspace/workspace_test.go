package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/writer-harness/internal/lint"
	"github.com/rcliao/writer-harness/internal/model"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws := Open(filepath.Join(t.TempDir(), "ws"))
	_, err := ws.Init()
	require.NoError(t, err)
	return ws
}

func TestInit(t *testing.T) {
	ws := Open(filepath.Join(t.TempDir(), "ws"))
	created, err := ws.Init()
	require.NoError(t, err)
	assert.Len(t, created, 3)

	for _, dir := range []string{LoreDir, ScenesDir, OutputsDir} {
		info, err := os.Stat(ws.Path(dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Second run leaves existing files alone.
	require.NoError(t, os.WriteFile(ws.Path(StateFile), []byte("custom: true\n"), 0o644))
	created, err = ws.Init()
	require.NoError(t, err)
	assert.Empty(t, created)
	data, err := os.ReadFile(ws.Path(StateFile))
	require.NoError(t, err)
	assert.Equal(t, "custom: true\n", string(data))
}

func TestStarterFilesRoundTrip(t *testing.T) {
	ws := newTestWorkspace(t)

	ledger, err := ws.LoadLedger()
	require.NoError(t, err)
	assert.Equal(t, StarterLedger().LocationCurrent, ledger.LocationCurrent)
	assert.Equal(t, []string{"He", "Phoenix", "Aide (outside door)"}, ledger.WhoPresent)
	assert.Equal(t, "helicopter", ledger.TransportLastLeg["vehicle"])

	rules, err := ws.LoadStyleRules()
	require.NoError(t, err)
	require.Len(t, rules.HardRules, 10)
	assert.Equal(t, "pov_and_address", rules.HardRules[0].Name)
	assert.Equal(t, "scene_containment", rules.HardRules[9].Name)
	require.Len(t, rules.SoftPreferences, 3)
	lo, hi, ok := rules.OutputTargets.WordRange()
	assert.True(t, ok)
	assert.Equal(t, 600, lo)
	assert.Equal(t, 1200, hi)

	set, err := ws.LoadPatternSet()
	require.NoError(t, err)
	assert.Equal(t, StarterPatternSet(), set)
}

func TestStarterPatternsLint(t *testing.T) {
	ws := newTestWorkspace(t)
	set, err := ws.LoadPatternSet()
	require.NoError(t, err)

	vs := lint.LintStyle("Her breath hitched.\nThe humming stopped.", set, "", nil)
	msgs := lint.Messages(vs)
	assert.Contains(t, msgs, "Banned: breath hitch")
	assert.Contains(t, msgs, "Caution: humming")
}

func TestLoadLedger_Missing(t *testing.T) {
	ws := Open(t.TempDir())
	_, err := ws.LoadLedger()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLedgerNotFound))
}

func TestLoadLedger_Incomplete(t *testing.T) {
	ws := Open(t.TempDir())
	require.NoError(t, os.WriteFile(ws.Path(StateFile), []byte("location_current: study\n"), 0o644))
	_, err := ws.LoadLedger()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrIncompleteLedger))
}

func TestLoadRules_Missing(t *testing.T) {
	ws := Open(t.TempDir())

	rules, err := ws.LoadStyleRules()
	require.NoError(t, err)
	assert.Empty(t, rules.HardRules)
	assert.Nil(t, rules.OutputTargets)

	set, err := ws.LoadPatternSet()
	require.NoError(t, err)
	assert.Empty(t, set.BannedRegex)
	assert.Empty(t, set.WarnRegex)
}

func TestLoadRules_Malformed(t *testing.T) {
	ws := Open(t.TempDir())
	require.NoError(t, os.WriteFile(ws.Path(BannedPhrasesFile), []byte("banned_regex: {"), 0o644))
	_, err := ws.LoadPatternSet()
	assert.Error(t, err)
}

func TestNewScene(t *testing.T) {
	ws := newTestWorkspace(t)

	first, err := ws.NewScene("Arrival")
	require.NoError(t, err)
	assert.Equal(t, "0001_scene.md", filepath.Base(first))

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "<!--\nCURRENT STATE (copied from state.yaml):\n"))
	assert.Contains(t, content, "Location: Novo-Ogaryovo — private salon\n")
	assert.Contains(t, content, "Time: early afternoon | Day 17 | +25 minutes since last scene\n")
	assert.Contains(t, content, "Present: He, Phoenix, Aide (outside door)\n")
	assert.Contains(t, content, "# Scene 0001 — Arrival\n")
	assert.Equal(t, seedPlaceholder, ExtractSeed(content))

	second, err := ws.NewScene("")
	require.NoError(t, err)
	assert.Equal(t, "0002_scene.md", filepath.Base(second))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Scene 0002 — Untitled Scene\n")
}

func TestNewScene_SkipsTakenNumbers(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, os.WriteFile(ws.Path(ScenesDir, "0002_scene.md"), []byte("x"), 0o644))

	path, err := ws.NewScene("Next")
	require.NoError(t, err)
	assert.Equal(t, "0003_scene.md", filepath.Base(path))
}

func TestNewScene_NoLedger(t *testing.T) {
	ws := Open(t.TempDir())
	_, err := ws.NewScene("x")
	assert.True(t, errors.Is(err, ErrLedgerNotFound))
}

func TestExtractSeed(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"after heading", "<!-- state -->\n\n# Scene 0001 — T\n\n  He waited.\n", "He waited."},
		{"first heading only", "# Scene 1\nA\n# Scene 2\nB", "A\n# Scene 2\nB"},
		{"no heading", "  Just text.  ", "Just text."},
		{"heading must start line", " # Scene 1\nA", "# Scene 1\nA"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSeed(tt.in))
		})
	}
}

func TestSceneNumber(t *testing.T) {
	assert.Equal(t, "0003", SceneNumber("/ws/outputs/0003_scene_draft.md"))
	assert.Equal(t, "0001", SceneNumber("scenes/0001_scene.md"))
	assert.Equal(t, "notes", SceneNumber("notes.md"))
}

func TestReports(t *testing.T) {
	line := 2
	style := []model.Violation{{Category: model.CategoryStyle, Severity: model.SeverityError, Message: "Banned: x", Line: &line, Context: "x marks"}}
	cont := []model.Violation{{Category: model.CategoryContinuity, Severity: model.SeverityWarning, Message: "Character 'Ann' supposed present but not mentioned", Context: "Check if character should still be in scene"}}

	assert.Equal(t, "# Style Lint Report\n\n- **Line 2**: Banned: x\n  > x marks\n", StyleReport(style))
	assert.Equal(t, "# Style Lint Report\n\nNo style violations.\n", StyleReport(nil))
	assert.Equal(t, "# Continuity Lint Report\n\n- Character 'Ann' supposed present but not mentioned\n  > Check if character should still be in scene\n", ContinuityReport(cont))
	assert.Equal(t, "# Continuity Lint Report\n\nNo continuity violations.\n", ContinuityReport(nil))

	assert.Equal(t,
		"# Post-Revision Lint Report\n\n## Style Violations (Remaining)\n- Banned: x\n\n## Continuity Violations (Remaining)\nNone.\n",
		ReviseReport(lint.Report{Style: style}))
}

func TestWriteOutputs(t *testing.T) {
	ws := newTestWorkspace(t)

	d, err := ws.WriteDraft("0004", "Draft prose.", lint.Report{})
	require.NoError(t, err)
	assert.Equal(t, ws.Path(OutputsDir, "0004_scene_draft.md"), d.Draft)
	data, err := os.ReadFile(d.Draft)
	require.NoError(t, err)
	assert.Equal(t, "Draft prose.", string(data))
	data, err = os.ReadFile(d.StyleLint)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No style violations.")
	_, err = os.Stat(d.Continuity)
	require.NoError(t, err)

	r, err := ws.WriteRevision("0004", "Revised prose.", lint.Report{})
	require.NoError(t, err)
	assert.Equal(t, "0004_scene_out.md", filepath.Base(r.Revised))
	data, err = os.ReadFile(r.Report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Continuity Violations (Remaining)\nNone.\n")
}
