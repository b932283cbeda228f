package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"quiz-rag/internal/models"
)

// Memory is a brute-force in-process index: cosine similarity against
// every stored vector. Adequate for a single document per session.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
	dim     int
}

func NewMemory() *Memory { return &Memory{} }

// Build swaps in the new contents under the write lock, so queries see
// the old or the new index wholesale.
func (m *Memory) Build(ctx context.Context, entries []Entry) error {
	dim := 0
	for i, e := range entries {
		if dim == 0 {
			dim = len(e.Vector)
			continue
		}
		if len(e.Vector) != dim {
			return fmt.Errorf("%w: entry %d has dimension %d, want %d",
				ErrDimensionMismatch, i, len(e.Vector), dim)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.dim = dim
	return nil
}

func (m *Memory) Query(ctx context.Context, vector []float32, k int) ([]models.TextSegment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 || k <= 0 {
		return nil, nil
	}
	if len(vector) != m.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d",
			ErrDimensionMismatch, len(vector), m.dim)
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(m.entries))
	for i, e := range m.entries {
		scores[i] = scored{idx: i, score: cosineSimilarity(vector, e.Vector)}
	}
	// Stable keeps ingestion order on ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}
	segments := make([]models.TextSegment, k)
	for i := 0; i < k; i++ {
		segments[i] = m.entries[scores[i].idx].Segment
	}
	return segments, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
