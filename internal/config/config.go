// Package config loads harness settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// DefaultEnvFile is read before the environment when it exists.
const DefaultEnvFile = ".env"

// Settings is the harness configuration. It is built once at startup and
// passed explicitly to the components that need it.
type Settings struct {
	Provider        string `env:"WRITER_PROVIDER" envDefault:"anthropic"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OllamaHost      string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	// Model overrides the provider's default model when set.
	Model         string `env:"WRITER_MODEL"`
	MaxTokens     int    `env:"WRITER_MAX_TOKENS" envDefault:"4000"`
	WorkspaceRoot string `env:"WRITER_WORKSPACE" envDefault:"./workspace"`
	// HistoryDB defaults to <workspace>/history.db.
	HistoryDB string `env:"WRITER_HISTORY_DB"`
}

// Load reads envFile (if present) into the process environment without
// overriding variables that are already set, then parses Settings.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return Parse(nil)
}

// Parse builds Settings from environ, or from the process environment when
// environ is nil.
func Parse(environ map[string]string) (Settings, error) {
	var s Settings
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	return s, nil
}

// Validate checks that the provider is known and has the credentials it needs.
func (s Settings) Validate() error {
	switch s.Provider {
	case ProviderAnthropic:
		if s.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY not set in .env or environment")
		}
	case ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY not set in .env or environment")
		}
	case ProviderOllama:
		if s.OllamaHost == "" {
			return errors.New("OLLAMA_HOST not set in .env or environment")
		}
	default:
		return fmt.Errorf("unknown provider: %q", s.Provider)
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", s.MaxTokens)
	}
	return nil
}
