package align

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// stubEmbedder returns fixed vectors by exact text, counting calls.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no stub vector for %q", text)
}

func newStub() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float32{
		"an organisation":  {1, 0, 0},
		"a human being":    {0, 1, 0},
		"a place on earth": {0, 0, 1},
		"Organisation":     {0.9, 0.1, 0},
		"Person":           {0, 1, 0},
		"Widget":           {0.5, 0.5, 0.5},
	}}
}

var terms = map[string]string{
	"Organisation": "an organisation",
	"Person":       "a human being",
	"Place":        "a place on earth",
}

func TestAlign_NearestNeighbor(t *testing.T) {
	a := NewAligner(newStub(), nil)
	m, err := a.Align(context.Background(), "Organisation", "classes", terms, 0.5, "Thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TermID != "Organisation" || m.Fallback {
		t.Errorf("expected Organisation match, got %+v", m)
	}
}

func TestAlign_ScoreIsArgmax(t *testing.T) {
	// Brute-force re-score: the returned score must be >= every
	// candidate's score for the same query.
	stub := newStub()
	a := NewAligner(stub, nil)
	m, err := a.Align(context.Background(), "Widget", "classes", terms, 2.0, "Thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := Normalize(stub.vectors["Widget"])
	for id, desc := range terms {
		score := Dot(q, Normalize(stub.vectors[desc]))
		if score > m.Score+1e-9 {
			t.Errorf("candidate %s scores %f > returned %f", id, score, m.Score)
		}
	}
}

func TestAlign_ThresholdBoundaryIsMatch(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"query": {1, 0},
		"same":  {1, 0},
		"other": {0, 1},
	}}
	a := NewAligner(stub, nil)
	// Identical unit vectors score exactly 1.0; threshold 1.0 must match.
	m, err := a.Align(context.Background(), "query", "classes",
		map[string]string{"Same": "same", "Other": "other"}, 1.0, "Thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Fallback {
		t.Errorf("score equal to threshold must be a match, got %+v", m)
	}
	if m.TermID != "Same" {
		t.Errorf("expected Same, got %s", m.TermID)
	}
}

func TestAlign_FallbackRecordsBestMatch(t *testing.T) {
	a := NewAligner(newStub(), nil)
	m, err := a.Align(context.Background(), "Person", "classes", terms, 1.5, "Thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Fallback || m.TermID != "Thing" {
		t.Errorf("expected fallback to Thing, got %+v", m)
	}
	if m.BestMatch != "Person" {
		t.Errorf("expected best match Person recorded, got %q", m.BestMatch)
	}
	if m.Score <= 0 {
		t.Errorf("expected would-have-been score recorded, got %f", m.Score)
	}
}

func TestAlign_EmptyTermSetAborts(t *testing.T) {
	a := NewAligner(newStub(), nil)
	_, err := a.Align(context.Background(), "Person", "classes", nil, 0.5, "Thing")
	if !errors.Is(err, ErrEmptyTermSet) {
		t.Errorf("expected ErrEmptyTermSet, got %v", err)
	}
}

func TestAlign_CandidatesEmbeddedOnce(t *testing.T) {
	stub := newStub()
	a := NewAligner(stub, nil)

	for i := 0; i < 3; i++ {
		if _, err := a.Align(context.Background(), "Person", "classes", terms, 0.5, "Thing"); err != nil {
			t.Fatalf("align %d: %v", i, err)
		}
	}
	// 3 candidate embeddings once, plus one query embedding per call.
	if want := len(terms) + 3; stub.calls != want {
		t.Errorf("expected %d embed calls, got %d", want, stub.calls)
	}
}

func TestAlign_TieBreaksToFirstSortedID(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"query": {1, 0},
		"dup":   {1, 0},
	}}
	a := NewAligner(stub, nil)
	m, err := a.Align(context.Background(), "query", "classes",
		map[string]string{"Beta": "dup", "Alpha": "dup"}, 0.5, "Thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TermID != "Alpha" {
		t.Errorf("tie must break to first candidate in sorted order, got %s", m.TermID)
	}
}

func TestAlign_EmbedderFailurePropagates(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{}}
	a := NewAligner(stub, nil)
	if _, err := a.Align(context.Background(), "query", "classes", terms, 0.5, "Thing"); err == nil {
		t.Error("expected error when embedding fails")
	}
}
