package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"quiz-rag/internal/config"
	"quiz-rag/internal/embedding"
	"quiz-rag/internal/index"
	"quiz-rag/internal/models"
)

// Retriever turns a topic into a bounded context string by querying the
// vector index for the most similar segments.
type Retriever struct {
	embedder embedding.Embedder
	idx      index.Index
	minChars int
	maxChars int
}

func New(embedder embedding.Embedder, idx index.Index, cfg *config.RAGConfig) *Retriever {
	return &Retriever{
		embedder: embedder,
		idx:      idx,
		minChars: cfg.MinContextChars,
		maxChars: cfg.MaxContextChars,
	}
}

// Retrieve embeds the topic, fetches the top width segments and joins
// them blank-line separated in similarity order. When the result comes
// up short it re-queries once with a wider net, best effort. The joined
// context never exceeds the configured cap and is only ever cut at a
// segment boundary.
func (r *Retriever) Retrieve(ctx context.Context, topic string, width int) (string, error) {
	vec, err := r.embedder.EmbedQuery(ctx, topic)
	if err != nil {
		return "", fmt.Errorf("embedding topic: %w", err)
	}

	segments, err := r.idx.Query(ctx, vec, width)
	if err != nil {
		return "", fmt.Errorf("querying index: %w", err)
	}

	joined := r.join(segments)
	if len(joined) < r.minChars {
		wider := width*2 + 3
		log.Debug().Int("width", width).Int("wider", wider).
			Msg("Context below minimum, widening retrieval")
		more, err := r.idx.Query(ctx, vec, wider)
		if err != nil {
			return "", fmt.Errorf("querying index: %w", err)
		}
		if widened := r.join(more); len(widened) > len(joined) {
			joined = widened
		}
	}
	if joined == "" && len(segments) > 0 {
		// The best match alone is over the cap, so nothing fits. Distinct
		// from having no matches at all.
		log.Warn().Int("cap", r.maxChars).Int("top_segment_chars", len(segments[0].Text)).
			Str("topic", topic).Msg("Context cap smaller than top segment, no material fits")
	}
	return joined, nil
}

func (r *Retriever) join(segments []models.TextSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		text := seg.Text
		if seg.IsTable {
			text = "[table] " + text
		}
		add := len(text)
		if b.Len() > 0 {
			add += 2
		}
		if r.maxChars > 0 && b.Len()+add > r.maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String()
}
