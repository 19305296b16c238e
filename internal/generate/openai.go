package generate

import (
	"context"
	"errors"
	"strings"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAI generates text with an OpenAI-compatible chat completions API.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	t       *transport
}

type openAIRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAI creates an OpenAI generator. An empty model uses
// DefaultOpenAIModel.
func NewOpenAI(apiKey, model string, opts ...Option) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	o := buildOptions(openAIBaseURL, opts)
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(o.baseURL, "/"),
		t:       &transport{provider: "openai", opts: o},
	}
}

func (c *OpenAI) Name() string  { return "openai" }
func (c *OpenAI) Model() string { return c.model }

// Generate returns the content of the first choice.
func (c *OpenAI) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := openAIRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp openAIResponse
	if err := c.t.postJSON(ctx, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", NewFatalError(errors.New("openai returned no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}
