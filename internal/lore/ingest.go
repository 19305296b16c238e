// Package lore loads background reference entries and ranks them against a
// scene's keywords.
package lore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"

	"github.com/rcliao/writer-harness/internal/model"
)

// DefaultPatterns are the globs, relative to the lore directory, that are
// loaded in order. Matches within one pattern are sorted by path.
var DefaultPatterns = []string{"*.md", "*.txt", "*.html"}

// Loader reads lore entries from a directory.
type Loader struct {
	patterns  []string
	converter *md.Converter
	logger    *slog.Logger
}

// NewLoader creates a loader. Nil or empty patterns use DefaultPatterns.
func NewLoader(patterns []string, logger *slog.Logger) *Loader {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		patterns:  patterns,
		converter: md.NewConverter("", true, nil),
		logger:    logger,
	}
}

// LoadEntries loads dir with the default patterns.
func LoadEntries(dir string) ([]model.LoreEntry, error) {
	return NewLoader(nil, nil).Load(dir)
}

// Load returns one entry per matching file, titled by the file's stem. A
// missing directory yields no entries. Files whose trimmed body is empty are
// skipped, and a file matched by more than one pattern is loaded once.
func (l *Loader) Load(dir string) ([]model.LoreEntry, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat lore dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("lore path %s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	seen := map[string]bool{}
	var entries []model.LoreEntry
	for _, pattern := range l.patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, name := range matches {
			if seen[name] {
				continue
			}
			seen[name] = true

			body, err := l.readBody(fsys, name)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", filepath.Join(dir, name), err)
			}
			if body == "" {
				l.logger.Debug("Skipping empty lore file", "path", name)
				continue
			}
			entries = append(entries, model.LoreEntry{Title: stem(name), Body: body})
		}
	}
	return entries, nil
}

func (l *Loader) readBody(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	text := norm.NFC.String(string(data))
	if ext := strings.ToLower(path.Ext(name)); ext == ".html" || ext == ".htm" {
		text, err = l.converter.ConvertString(text)
		if err != nil {
			return "", fmt.Errorf("convert html: %w", err)
		}
	}
	return strings.TrimSpace(text), nil
}

func stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
