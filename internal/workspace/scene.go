package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSceneTitle is used when new-scene is given no title.
const DefaultSceneTitle = "Untitled Scene"

const seedPlaceholder = "[Seed text goes here. Keep it simple. Dialogue allowed.]"

// NewScene writes the next numbered scene file under scenes/, headed by a
// summary of the current ledger, and returns its path.
func (w *Workspace) NewScene(title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultSceneTitle
	}
	ledger, err := w.LoadLedger()
	if err != nil {
		return "", err
	}

	dir := w.Path(ScenesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scenes dir: %w", err)
	}
	existing, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return "", err
	}

	num := len(existing) + 1
	path := filepath.Join(dir, fmt.Sprintf("%04d_scene.md", num))
	for fileExists(path) {
		num++
		path = filepath.Join(dir, fmt.Sprintf("%04d_scene.md", num))
	}

	var b strings.Builder
	b.WriteString("<!--\n")
	b.WriteString("CURRENT STATE (copied from state.yaml):\n")
	fmt.Fprintf(&b, "Location: %s\n", ledger.LocationCurrent)
	fmt.Fprintf(&b, "Time: %s | %s | +%s since last scene\n",
		ledger.TimeOfDay, ledger.DateOrDayCount, ledger.ElapsedTimeSinceLastScene)
	fmt.Fprintf(&b, "Present: %s\n", strings.Join(ledger.WhoPresent, ", "))
	fmt.Fprintf(&b, "Relationship: %s | %s\n", ledger.RelationshipElapsedTime, ledger.RelationshipLastContact)
	fmt.Fprintf(&b, "Goal: %s\n", ledger.SceneGoal)
	fmt.Fprintf(&b, "Tone: %s\n", ledger.ToneProfile)
	b.WriteString("-->\n\n")
	fmt.Fprintf(&b, "# Scene %04d — %s\n\n", num, title)
	b.WriteString(seedPlaceholder + "\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write scene: %w", err)
	}
	return path, nil
}

// ExtractSeed returns the text following the first "# Scene " heading,
// trimmed. Without a heading the whole content is the seed.
func ExtractSeed(content string) string {
	lines := strings.Split(content, "\n")
	start := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "# Scene ") {
			start = i + 1
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start:], "\n"))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
