package lore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/writer-harness/internal/model"
)

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 100.0, PartialRatio("topic", "topic alpha notes"))
	assert.Equal(t, 100.0, PartialRatio("topic alpha notes", "topic"))
	assert.Equal(t, 100.0, PartialRatio("moscow", "moscow"))
	assert.Equal(t, 0.0, PartialRatio("", "moscow"))
	assert.Equal(t, 0.0, PartialRatio("moscow", ""))
	assert.Equal(t, 0.0, PartialRatio("moscow", "a quiet garden path."))
	assert.Less(t, PartialRatio("MOSCOW", "moscow"), 100.0)

	near := PartialRatio("moscw", "moscow")
	assert.Greater(t, near, 80.0)
	assert.Less(t, near, 100.0)

	for _, pair := range [][2]string{{"library", "the old library wing"}, {"abc", "xyz"}, {"ogaryovo", "novo ogaryovo salon"}} {
		s := PartialRatio(pair[0], pair[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}

func TestExtractKeywords(t *testing.T) {
	assert.Equal(t, []string{"Alice", "Moscow"}, ExtractKeywords("Alice met Alice in Moscow near Moscow."))
	assert.Equal(t, []string{"Novo Ogaryovo"}, ExtractKeywords("they flew to Novo Ogaryovo at noon"))
	assert.Equal(t, []string{"Library", "She"}, ExtractKeywords("She sat in the Library."))
	assert.Empty(t, ExtractKeywords("nothing capitalized here"))
	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords("I A B"))
}

func TestExtractKeywordsWholeWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"accented name is not a keyword", "Zoë waited.", nil},
		{"run stops before an accented word", "Anna Zoë waited.", []string{"Anna"}},
		{"accented word splits runs", "Anna Zoë Boris", []string{"Anna", "Boris"}},
		{"inner capital", "McKay and Anna", []string{"Anna"}},
		{"glued to non-ascii letter", "éAnna left.", nil},
		{"punctuation splits runs", "Anna, Boris", []string{"Anna", "Boris"}},
		{"run across newline", "Anna\nBoris", []string{"Anna\nBoris"}},
		{"digits are word characters", "Anna2 Boris", []string{"Boris"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func pool(n int, body string) []model.LoreEntry {
	out := make([]model.LoreEntry, n)
	for i := range out {
		out[i] = model.LoreEntry{Title: fmt.Sprintf("entry-%d", i), Body: body}
	}
	return out
}

func TestRetrieve(t *testing.T) {
	t.Run("respects top k", func(t *testing.T) {
		got := Retrieve([]string{"Topic"}, pool(10, "Topic Alpha notes"), Options{TopK: 3, MaxSnippetChars: 600})
		assert.Len(t, got, 3)
		assert.Equal(t, "**entry-0**\nTopic Alpha notes", got[0])
		assert.Equal(t, "**entry-2**\nTopic Alpha notes", got[2])
	})

	t.Run("no keywords", func(t *testing.T) {
		assert.Empty(t, Retrieve(nil, pool(3, "Topic Alpha"), DefaultOptions()))
	})

	t.Run("empty pool", func(t *testing.T) {
		assert.Empty(t, Retrieve([]string{"Topic"}, nil, DefaultOptions()))
	})

	t.Run("zero top k", func(t *testing.T) {
		assert.Empty(t, Retrieve([]string{"Topic"}, pool(3, "Topic"), Options{TopK: 0, MaxSnippetChars: 10}))
	})

	t.Run("floor excludes irrelevant entries", func(t *testing.T) {
		entries := []model.LoreEntry{
			{Title: "garden", Body: "A quiet garden path."},
			{Title: "moscow", Body: "The capital."},
		}
		got := Retrieve([]string{"Moscow"}, entries, DefaultOptions())
		require.Len(t, got, 1)
		assert.True(t, strings.HasPrefix(got[0], "**moscow**"))
	})

	t.Run("cap applies before floor", func(t *testing.T) {
		entries := []model.LoreEntry{{Title: "garden", Body: "A quiet garden path."}}
		assert.Empty(t, Retrieve([]string{"Moscow"}, entries, Options{TopK: 1, MaxSnippetChars: 50}))
	})

	t.Run("best first with stable ties", func(t *testing.T) {
		entries := []model.LoreEntry{
			{Title: "garden", Body: "A quiet garden path."},
			{Title: "first", Body: "Moscow at night."},
			{Title: "second", Body: "Moscow by day."},
		}
		got := Retrieve([]string{"Moscow"}, entries, DefaultOptions())
		require.Len(t, got, 2)
		assert.True(t, strings.HasPrefix(got[0], "**first**"))
		assert.True(t, strings.HasPrefix(got[1], "**second**"))
	})

	t.Run("truncates snippet", func(t *testing.T) {
		entries := []model.LoreEntry{{Title: "long", Body: "Topic " + strings.Repeat("a", 700)}}
		got := Retrieve([]string{"Topic"}, entries, Options{TopK: 1, MaxSnippetChars: 600})
		require.Len(t, got, 1)
		body := strings.TrimPrefix(got[0], "**long**\n")
		assert.Len(t, body, 603)
		assert.True(t, strings.HasSuffix(body, "..."))
	})
}

func TestRank(t *testing.T) {
	entries := []model.LoreEntry{
		{Title: "garden", Body: "A quiet garden path."},
		{Title: "Kremlin", Body: "Walls and towers."},
	}
	ranked := Rank([]string{"Kremlin"}, entries)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Kremlin", ranked[0].Entry.Title)
	assert.Equal(t, 100.0, ranked[0].Score)

	// Only the first ContentSampleChars of a body are compared.
	far := model.LoreEntry{Title: "x", Body: strings.Repeat(" ", ContentSampleChars) + "kremlin"}
	assert.Equal(t, 0.0, Rank([]string{"Kremlin"}, []model.LoreEntry{far})[0].Score)
}

func TestSnippet(t *testing.T) {
	e := model.LoreEntry{Title: "T", Body: "ábcdé"}
	assert.Equal(t, "**T**\nábc...", Snippet(e, 3))
	assert.Equal(t, "**T**\nábcdé", Snippet(e, 5))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestLoadEntries(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		entries, err := LoadEntries(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("empty dir", func(t *testing.T) {
		entries, err := LoadEntries(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("loads markdown text and html", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "b.md", "Beta body\n")
		writeFile(t, dir, "a.md", "  Alpha body  ")
		writeFile(t, dir, "empty.md", "   \n")
		writeFile(t, dir, "notes.txt", "Plain notes")
		writeFile(t, dir, "page.html", "<p>Hello <b>world</b></p>")
		writeFile(t, dir, "ignored.json", `{"x":1}`)
		writeFile(t, dir, "sub/nested.md", "Nested")

		entries, err := LoadEntries(dir)
		require.NoError(t, err)
		require.Len(t, entries, 4)

		assert.Equal(t, model.LoreEntry{Title: "a", Body: "Alpha body"}, entries[0])
		assert.Equal(t, model.LoreEntry{Title: "b", Body: "Beta body"}, entries[1])
		assert.Equal(t, model.LoreEntry{Title: "notes", Body: "Plain notes"}, entries[2])
		assert.Equal(t, "page", entries[3].Title)
		assert.Contains(t, entries[3].Body, "**world**")
	})

	t.Run("recursive pattern", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "top.md", "Top")
		writeFile(t, dir, "sub/nested.md", "Nested")

		entries, err := NewLoader([]string{"**/*.md"}, nil).Load(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "nested", entries[0].Title)
		assert.Equal(t, "top", entries[1].Title)
	})

	t.Run("normalizes unicode", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "cafe.md", "cafe\u0301")
		entries, err := LoadEntries(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "caf\u00e9", entries[0].Body)
	})
}
