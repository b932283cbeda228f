package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"quiz-rag/internal/config"
)

// LanguageModel is the single-call completion boundary the generator
// depends on. Tests substitute stubs.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client wraps a langchaingo chat model. Temperature is pinned to zero
// so repeated runs over the same material stay comparable.
type Client struct {
	model llms.Model
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	var model llms.Model
	var err error
	switch cfg.Provider {
	case "ollama":
		model, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	case "openai", "":
		model, err = openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.APIKey(), "Bearer ")),
			openai.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return &Client{model: model}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := c.model.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return res.Choices[0].Content, nil
}
