package embedding

import (
	"context"
	"errors"
	"testing"
)

// fakeEmbedder derives a distinct vector per text so order is checkable.
type fakeEmbedder struct {
	batchErr   error
	singleErr  error
	batchCalls int
	queryCalls int
	short      bool
}

func vectorFor(text string) []float32 {
	return []float32{float32(len(text)), 1}
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorFor(t)
	}
	if f.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.queryCalls++
	if f.singleErr != nil {
		return nil, f.singleErr
	}
	return vectorFor(text), nil
}

func TestEmbedTextsBatch(t *testing.T) {
	fake := &fakeEmbedder{}
	texts := []string{"a", "bb", "ccc"}

	vectors, err := EmbedTexts(context.Background(), fake, texts)
	if err != nil {
		t.Fatalf("EmbedTexts failed: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("Expected %d vectors, got %d", len(texts), len(vectors))
	}
	for i, text := range texts {
		if vectors[i][0] != float32(len(text)) {
			t.Errorf("Vector %d out of order", i)
		}
	}
	if fake.queryCalls != 0 {
		t.Error("Batch path should not call EmbedQuery")
	}
}

func TestEmbedTextsFallback(t *testing.T) {
	fake := &fakeEmbedder{batchErr: errors.New("batching unsupported")}
	texts := []string{"one", "two", "three"}

	vectors, err := EmbedTexts(context.Background(), fake, texts)
	if err != nil {
		t.Fatalf("EmbedTexts failed: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("Fallback dropped inputs: got %d vectors", len(vectors))
	}
	if fake.queryCalls != len(texts) {
		t.Errorf("Expected %d per-text calls, got %d", len(texts), fake.queryCalls)
	}
	for i, text := range texts {
		if vectors[i][0] != float32(len(text)) {
			t.Errorf("Fallback vector %d out of order", i)
		}
	}
}

func TestEmbedTextsFallbackOnShortBatch(t *testing.T) {
	fake := &fakeEmbedder{short: true}
	texts := []string{"one", "two"}

	vectors, err := EmbedTexts(context.Background(), fake, texts)
	if err != nil {
		t.Fatalf("EmbedTexts failed: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Errorf("Expected full result via fallback, got %d", len(vectors))
	}
	if fake.queryCalls != len(texts) {
		t.Errorf("Short batch should trigger per-text fallback, got %d calls", fake.queryCalls)
	}
}

func TestEmbedTextsAllOrNothing(t *testing.T) {
	fake := &fakeEmbedder{
		batchErr:  errors.New("batching unsupported"),
		singleErr: errors.New("service down"),
	}

	vectors, err := EmbedTexts(context.Background(), fake, []string{"a", "b"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
	if vectors != nil {
		t.Error("No partial vector list may be returned on failure")
	}
}

func TestEmbedTextsEmpty(t *testing.T) {
	fake := &fakeEmbedder{}
	vectors, err := EmbedTexts(context.Background(), fake, nil)
	if err != nil || vectors != nil {
		t.Errorf("Empty input: got %v, %v", vectors, err)
	}
	if fake.batchCalls != 0 {
		t.Error("Empty input should not reach the provider")
	}
}

func TestCheckDimensions(t *testing.T) {
	if err := checkDimensions([][]float32{{1, 2}, {3, 4}}); err != nil {
		t.Errorf("Uniform dimensions rejected: %v", err)
	}
	err := checkDimensions([][]float32{{1, 2}, {3}})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable for ragged vectors, got %v", err)
	}
}
