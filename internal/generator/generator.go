package generator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"quiz-rag/internal/config"
	"quiz-rag/internal/llm"
	"quiz-rag/internal/models"
)

// ContextSource supplies grounding material for a topic; satisfied by
// retriever.Retriever.
type ContextSource interface {
	Retrieve(ctx context.Context, topic string, width int) (string, error)
}

// Generator produces validated MCQs for a topic by prompting a language
// model over retrieved context.
type Generator struct {
	source    ContextSource
	model     llm.LanguageModel
	maxRounds int
}

func New(source ContextSource, model llm.LanguageModel, cfg *config.RAGConfig) *Generator {
	rounds := cfg.MaxFillRounds
	if rounds < 1 {
		rounds = 1
	}
	return &Generator{source: source, model: model, maxRounds: rounds}
}

// Generate returns at most count unique MCQs. An empty slice means the
// attempt failed or the material is exhausted; no error crosses this
// boundary and no partial record is ever surfaced.
//
// Each round re-retrieves context and requests only the remaining
// shortfall, deduplicating against everything kept so far. Rounds are
// hard-capped; a round that salvages nothing ends the attempt early.
func (g *Generator) Generate(ctx context.Context, topic string, profile models.DifficultyProfile, count int) []models.MCQ {
	if count <= 0 {
		return nil
	}

	var kept []models.MCQ
	seen := make(map[string]bool)

	for round := 0; round < g.maxRounds && len(kept) < count; round++ {
		shortfall := count - len(kept)

		material, err := g.source.Retrieve(ctx, topic, profile.RetrievalWidth)
		if err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Retrieval failed, ending generation attempt")
			break
		}
		if material == "" {
			log.Warn().Str("topic", topic).Msg("No material retrieved for topic")
			break
		}

		prompt := fmt.Sprintf(models.MCQPromptTemplate, shortfall, topic, profile.Instruction, material)
		raw, err := g.model.Complete(ctx, prompt)
		if err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Model call failed")
			break
		}

		parsed := salvage(raw)
		if len(parsed) == 0 {
			log.Debug().Int("round", round+1).Msg("Round salvaged no questions, material exhausted")
			break
		}
		for _, q := range parsed {
			if seen[q.Question] {
				continue
			}
			seen[q.Question] = true
			kept = append(kept, q)
		}
		log.Debug().Int("round", round+1).Int("kept", len(kept)).Int("want", count).
			Msg("Generation round complete")
	}

	if len(kept) > count {
		kept = kept[:count]
	}
	return kept
}
