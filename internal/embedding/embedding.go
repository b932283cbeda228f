package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"quiz-rag/internal/config"
)

// ErrUnavailable wraps any provider failure during embedding. The whole
// call fails; no partial vector lists are ever returned.
var ErrUnavailable = errors.New("embedding service unavailable")

// Embedder turns texts into fixed-length vectors. Satisfied by
// langchaingo's EmbedderImpl; tests substitute stubs.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds an embedder against an OpenAI-compatible endpoint.
func NewEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.APIKey(), "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm)
}

// NewOllamaEmbedder builds an embedder against a local ollama server.
func NewOllamaEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm)
}

// ForConfig selects the embedder implementation by provider name.
func ForConfig(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg)
	case "openai", "":
		return NewEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// EmbedTexts embeds every text, order-preserving, one vector per input.
// It tries a single batched call first and falls back to one-at-a-time
// embedding when the provider rejects the batch. Any failure during the
// fallback fails the whole call.
func EmbedTexts(ctx context.Context, embedder Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err == nil && len(vectors) == len(texts) {
		if err := checkDimensions(vectors); err != nil {
			return nil, err
		}
		return vectors, nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("Batch embedding failed, falling back to per-text calls")
	} else {
		log.Warn().Int("want", len(texts)).Int("got", len(vectors)).
			Msg("Batch embedding returned wrong count, falling back to per-text calls")
	}

	vectors = make([][]float32, len(texts))
	for i, text := range texts {
		v, err := embedder.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding text %d: %v", ErrUnavailable, i, err)
		}
		vectors[i] = v
	}
	if err := checkDimensions(vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

func checkDimensions(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrUnavailable, i, len(v), dim)
		}
	}
	return nil
}
