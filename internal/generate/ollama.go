package generate

import (
	"context"
	"strings"
)

const ollamaBaseURL = "http://localhost:11434"

// Ollama generates text with a local Ollama instance.
type Ollama struct {
	model   string
	baseURL string
	t       *transport
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// NewOllama creates an Ollama generator against host. An empty host uses
// http://localhost:11434 and an empty model uses DefaultOllamaModel.
func NewOllama(host, model string, opts ...Option) *Ollama {
	if host == "" {
		host = ollamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	o := buildOptions(host, opts)
	return &Ollama{
		model:   model,
		baseURL: strings.TrimSuffix(o.baseURL, "/"),
		t:       &transport{provider: "ollama", opts: o},
	}
}

func (g *Ollama) Name() string  { return "ollama" }
func (g *Ollama) Model() string { return g.model }

// Generate runs a non-streaming completion.
func (g *Ollama) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := ollamaRequest{
		Model:   g.model,
		Prompt:  prompt,
		Options: ollamaOptions{NumPredict: maxTokens},
	}
	var resp ollamaResponse
	if err := g.t.postJSON(ctx, g.baseURL+"/api/generate", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}
