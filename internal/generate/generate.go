// Package generate provides the text-generation capability used by the draft
// and revise pipelines, with pluggable HTTP providers.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rcliao/writer-harness/internal/config"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	// Name is the provider identifier, e.g. "anthropic".
	Name() string
	Model() string
}

var (
	// ErrUnknownProvider is returned by New for an unrecognised provider name.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrMissingAPIKey is returned by New when the provider's key is empty.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Default models per provider, used when settings name none.
const (
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"
	DefaultOpenAIModel    = "gpt-4-turbo"
	DefaultOllamaModel    = "llama3.1"
)

const defaultTimeout = 5 * time.Minute

type options struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	retry   RetryConfig
}

// Option customises a provider.
type Option func(*options)

// WithBaseURL overrides the provider's API endpoint root.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(r RetryConfig) Option {
	return func(o *options) { o.retry = r }
}

func buildOptions(defaultURL string, opts []Option) options {
	o := options{
		baseURL: defaultURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
		retry:   DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// New selects a provider from settings.
func New(s config.Settings, opts ...Option) (Generator, error) {
	switch s.Provider {
	case config.ProviderAnthropic:
		if s.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrMissingAPIKey)
		}
		return NewAnthropic(s.AnthropicAPIKey, s.Model, opts...), nil
	case config.ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
		}
		return NewOpenAI(s.OpenAIAPIKey, s.Model, opts...), nil
	case config.ProviderOllama:
		return NewOllama(s.OllamaHost, s.Model, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}
}
