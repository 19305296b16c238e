// Package workspace manages the on-disk layout of a writing project: the
// continuity ledger, rule files, lore, scenes and generated outputs.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/writer-harness/internal/model"
)

// File and directory names inside a workspace root.
const (
	StateFile         = "state.yaml"
	StyleRulesFile    = "style_rules.yaml"
	BannedPhrasesFile = "banned_phrases.yaml"
	LoreDir           = "lore"
	ScenesDir         = "scenes"
	OutputsDir        = "outputs"
)

// ErrLedgerNotFound is returned when the workspace has no state.yaml.
var ErrLedgerNotFound = errors.New("continuity ledger not found")

// Workspace is a project directory.
type Workspace struct {
	Root string
}

// Open returns a workspace rooted at root. It does not touch the filesystem.
func Open(root string) *Workspace {
	return &Workspace{Root: root}
}

// Path joins elem onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.Root}, elem...)...)
}

// Init creates the directory layout and starter files. Existing files are
// left alone. It returns the paths of the files it created.
func (w *Workspace) Init() ([]string, error) {
	for _, dir := range []string{w.Root, w.Path(LoreDir), w.Path(ScenesDir), w.Path(OutputsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	starters := []struct {
		name string
		v    any
	}{
		{StateFile, StarterLedger()},
		{StyleRulesFile, StarterStyleRules()},
		{BannedPhrasesFile, StarterPatternSet()},
	}

	var created []string
	for _, s := range starters {
		path := w.Path(s.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := writeYAML(path, s.v); err != nil {
			return created, err
		}
		created = append(created, path)
	}
	return created, nil
}

// LoadLedger reads and validates state.yaml.
func (w *Workspace) LoadLedger() (*model.Ledger, error) {
	path := w.Path(StateFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrLedgerNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return model.ParseLedger(data)
}

// LoadStyleRules reads style_rules.yaml. A missing file yields empty rules.
func (w *Workspace) LoadStyleRules() (*model.StyleRules, error) {
	var rules model.StyleRules
	if err := readYAML(w.Path(StyleRulesFile), &rules); err != nil {
		return nil, fmt.Errorf("load style rules: %w", err)
	}
	return &rules, nil
}

// LoadPatternSet reads banned_phrases.yaml. A missing file yields an empty set.
func (w *Workspace) LoadPatternSet() (model.PatternSet, error) {
	var set model.PatternSet
	if err := readYAML(w.Path(BannedPhrasesFile), &set); err != nil {
		return model.PatternSet{}, fmt.Errorf("load banned phrases: %w", err)
	}
	return set, nil
}

// readYAML decodes path into v. A missing file leaves v untouched.
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SceneNumber returns the numeric prefix of a scene or output file name,
// e.g. "0003" for "0003_scene_draft.md".
func SceneNumber(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	num, _, _ := strings.Cut(base, "_")
	return num
}
