package index

import (
	"context"
	"errors"

	"quiz-rag/internal/models"
)

// ErrDimensionMismatch means a query vector does not match the stored
// dimensionality. This is a programming error, never retried.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// ErrUnavailable wraps backend failures during build or query.
var ErrUnavailable = errors.New("vector index unavailable")

// Entry pairs one text segment with its embedding vector.
type Entry struct {
	Segment models.TextSegment
	Vector  []float32
}

// Index stores (segment, vector) pairs for one document and answers
// k-nearest queries by cosine similarity.
//
// Build replaces the whole contents: a concurrent Query observes either
// the old index or the new one, never a mix. Query returns up to k
// segments in descending similarity order, ties broken by ingestion
// order.
type Index interface {
	Build(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, vector []float32, k int) ([]models.TextSegment, error)
}
