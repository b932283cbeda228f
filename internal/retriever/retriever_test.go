package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quiz-rag/internal/config"
	"quiz-rag/internal/index"
	"quiz-rag/internal/models"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}
	return out, s.err
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.vec, s.err
}

type stubIndex struct {
	segments  []models.TextSegment
	requested []int
	err       error
}

func (s *stubIndex) Build(ctx context.Context, entries []index.Entry) error { return nil }

func (s *stubIndex) Query(ctx context.Context, vector []float32, k int) ([]models.TextSegment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.requested = append(s.requested, k)
	if k > len(s.segments) {
		k = len(s.segments)
	}
	return s.segments[:k], nil
}

func ragConfig(minChars, maxChars int) *config.RAGConfig {
	return &config.RAGConfig{MinContextChars: minChars, MaxContextChars: maxChars}
}

func seg(id int, text string) models.TextSegment {
	return models.TextSegment{ID: id, Text: text}
}

func TestRetrieveJoinsInOrder(t *testing.T) {
	idx := &stubIndex{segments: []models.TextSegment{
		seg(0, "Paris is the capital of France."),
		seg(1, "Lyon is a city in France."),
	}}
	r := New(&stubEmbedder{vec: []float32{1}}, idx, ragConfig(10, 1000))

	got, err := r.Retrieve(context.Background(), "France", 2)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	want := "Paris is the capital of France.\n\nLyon is a city in France."
	if got != want {
		t.Errorf("Context = %q, want %q", got, want)
	}
	if len(idx.requested) != 1 || idx.requested[0] != 2 {
		t.Errorf("Index queried with %v, want one query of width 2", idx.requested)
	}
}

func TestRetrieveWidensShortContext(t *testing.T) {
	idx := &stubIndex{segments: []models.TextSegment{
		seg(0, "short"),
		seg(1, "this is the second segment with more material"),
		seg(2, "and a third segment to pad things out further"),
	}}
	r := New(&stubEmbedder{vec: []float32{1}}, idx, ragConfig(50, 1000))

	got, err := r.Retrieve(context.Background(), "topic", 1)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(idx.requested) != 2 {
		t.Fatalf("Expected a widening re-query, got queries %v", idx.requested)
	}
	if idx.requested[1] <= idx.requested[0] {
		t.Errorf("Widened query %d not larger than original %d", idx.requested[1], idx.requested[0])
	}
	if len(got) < 50 {
		t.Errorf("Widened context still short: %d chars", len(got))
	}
}

func TestRetrieveCapsAtSegmentBoundary(t *testing.T) {
	first := "aaaaaaaaaa"
	second := "bbbbbbbbbb"
	idx := &stubIndex{segments: []models.TextSegment{seg(0, first), seg(1, second)}}
	// Cap leaves room for the first segment but not both.
	r := New(&stubEmbedder{vec: []float32{1}}, idx, ragConfig(1, 15))

	got, err := r.Retrieve(context.Background(), "topic", 2)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if got != first {
		t.Errorf("Context = %q, want only the first whole segment", got)
	}
	if strings.Contains(got, "b") {
		t.Error("Context contains a truncated segment")
	}
}

func TestRetrieveTopSegmentOverCap(t *testing.T) {
	// A match exists but nothing fits under the cap; the result is empty
	// without an error rather than a truncated segment.
	idx := &stubIndex{segments: []models.TextSegment{seg(0, strings.Repeat("x", 100))}}
	r := New(&stubEmbedder{vec: []float32{1}}, idx, ragConfig(1, 20))

	got, err := r.Retrieve(context.Background(), "topic", 1)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty context, got %q", got)
	}
}

func TestRetrieveAnnotatesTables(t *testing.T) {
	idx := &stubIndex{segments: []models.TextSegment{
		{ID: 0, Text: "name\tvalue", IsTable: true},
	}}
	r := New(&stubEmbedder{vec: []float32{1}}, idx, ragConfig(1, 1000))

	got, err := r.Retrieve(context.Background(), "topic", 1)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if !strings.HasPrefix(got, "[table] ") {
		t.Errorf("Table segment not annotated: %q", got)
	}
}

func TestRetrieveEmbedderFailure(t *testing.T) {
	idx := &stubIndex{segments: []models.TextSegment{seg(0, "text")}}
	r := New(&stubEmbedder{err: errors.New("boom")}, idx, ragConfig(1, 1000))

	if _, err := r.Retrieve(context.Background(), "topic", 1); err == nil {
		t.Error("Expected an error when the embedder fails")
	}
}

func TestRetrieveIndexFailure(t *testing.T) {
	idx := &stubIndex{err: errors.New("index down")}
	r := New(&stubEmbedder{vec: []float32{1}}, idx, ragConfig(1, 1000))

	if _, err := r.Retrieve(context.Background(), "topic", 1); err == nil {
		t.Error("Expected an error when the index fails")
	}
}
