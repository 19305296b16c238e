package generate

import (
	"context"
	"errors"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// Anthropic generates text with the Anthropic Messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	t       *transport
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewAnthropic creates an Anthropic generator. An empty model uses
// DefaultAnthropicModel.
func NewAnthropic(apiKey, model string, opts ...Option) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	o := buildOptions(anthropicBaseURL, opts)
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(o.baseURL, "/"),
		t:       &transport{provider: "anthropic", opts: o},
	}
}

func (a *Anthropic) Name() string  { return "anthropic" }
func (a *Anthropic) Model() string { return a.model }

// Generate sends prompt as a single user message and joins the text blocks
// of the reply.
func (a *Anthropic) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := anthropicRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	if err := a.t.postJSON(ctx, a.baseURL+"/v1/messages", headers, req, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", NewFatalError(errors.New("anthropic returned no text content"))
	}
	return sb.String(), nil
}
