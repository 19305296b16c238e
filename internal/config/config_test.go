package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	s, err := Parse(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, s.Provider)
	assert.Equal(t, 4000, s.MaxTokens)
	assert.Equal(t, "./workspace", s.WorkspaceRoot)
	assert.Equal(t, "http://localhost:11434", s.OllamaHost)
	assert.Empty(t, s.Model)
	assert.Empty(t, s.HistoryDB)
}

func TestParse_Overrides(t *testing.T) {
	s, err := Parse(map[string]string{
		"WRITER_PROVIDER":   " OpenAI ",
		"OPENAI_API_KEY":    "sk-proj-test",
		"WRITER_MODEL":      "gpt-4",
		"WRITER_MAX_TOKENS": "1200",
		"WRITER_WORKSPACE":  "/tmp/ws",
	})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, s.Provider)
	assert.Equal(t, "gpt-4", s.Model)
	assert.Equal(t, 1200, s.MaxTokens)
	assert.Equal(t, "/tmp/ws", s.WorkspaceRoot)
	assert.NoError(t, s.Validate())
}

func TestParse_BadInt(t *testing.T) {
	_, err := Parse(map[string]string{"WRITER_MAX_TOKENS": "lots"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr string
	}{
		{"anthropic missing key", Settings{Provider: "anthropic", MaxTokens: 1}, "ANTHROPIC_API_KEY"},
		{"anthropic ok", Settings{Provider: "anthropic", AnthropicAPIKey: "sk-ant-test", MaxTokens: 1}, ""},
		{"openai missing key", Settings{Provider: "openai", MaxTokens: 1}, "OPENAI_API_KEY"},
		{"openai ok", Settings{Provider: "openai", OpenAIAPIKey: "sk-proj-test", MaxTokens: 1}, ""},
		{"ollama ok", Settings{Provider: "ollama", OllamaHost: "http://localhost:11434", MaxTokens: 1}, ""},
		{"ollama missing host", Settings{Provider: "ollama", MaxTokens: 1}, "OLLAMA_HOST"},
		{"unknown", Settings{Provider: "llama", MaxTokens: 1}, "unknown provider"},
		{"zero tokens", Settings{Provider: "anthropic", AnthropicAPIKey: "k"}, "max tokens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WRITER_MODEL=from-file\nWRITER_MAX_TOKENS=900\n"), 0o644))

	t.Setenv("WRITER_MODEL", "")
	os.Unsetenv("WRITER_MODEL")
	t.Setenv("WRITER_MAX_TOKENS", "1500")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", s.Model)
	assert.Equal(t, 1500, s.MaxTokens, "existing environment wins over the file")
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
