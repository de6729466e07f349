package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/credlens/credlens/internal/model"
)

type stubProvider struct {
	sim float64
	err error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	return p.sim, p.err
}

func TestConsistency_IdenticalTexts(t *testing.T) {
	texts := []string{
		"Your income and low defaults drive the approval.",
		"Your income and low defaults drive the approval.",
		"Your income and low defaults drive the approval.",
	}

	score := NewConsistency(nil).Analyze(context.Background(), texts)
	if score.Value != 1 {
		t.Errorf("identical texts must score 1.0, got %v", score.Value)
	}
	if !score.HasFlag(model.FlagLexicalFallback) {
		t.Error("nil provider must record the lexical fallback")
	}
}

func TestConsistency_DivergentTexts(t *testing.T) {
	texts := []string{
		"Your income and employment history drive the approval.",
		"Housing status and utilization were the deciding factors.",
	}

	score := NewConsistency(nil).Analyze(context.Background(), texts)
	if score.Value >= 0.5 {
		t.Errorf("divergent texts must score low, got %v (data: %v)", score.Value, score.Data)
	}
}

func TestConsistency_TooFewObservations(t *testing.T) {
	score := NewConsistency(nil).Analyze(context.Background(), []string{"only one"})
	if score.Value != 0 {
		t.Errorf("expected 0 below two observations, got %v", score.Value)
	}
	if !score.HasFlag(model.FlagInsufficientObservations) {
		t.Error("missing insufficient_observations flag")
	}
}

func TestConsistency_ProviderUsed(t *testing.T) {
	texts := []string{
		"Your income drives the approval.",
		"Approval follows from your income.",
	}

	score := NewConsistency(&stubProvider{sim: 1}).Analyze(context.Background(), texts)
	if score.HasFlag(model.FlagLexicalFallback) {
		t.Error("healthy provider must not trigger the fallback")
	}
	// text similarity 1, mention overlap 1 (both mention only income)
	if score.Value != 1 {
		t.Errorf("expected 1.0, got %v (data: %v)", score.Value, score.Data)
	}
}

func TestConsistency_ProviderFailureFallsBack(t *testing.T) {
	texts := []string{"same words here", "same words here"}

	score := NewConsistency(&stubProvider{err: errors.New("quota")}).Analyze(context.Background(), texts)
	if !score.HasFlag(model.FlagLexicalFallback) {
		t.Error("provider failure must fall back to lexical similarity")
	}
	if score.Value != 1 {
		t.Errorf("identical texts still score 1.0 via fallback, got %v", score.Value)
	}
}

func TestLexicalSimilarity(t *testing.T) {
	if got := LexicalSimilarity("a b c", "a b c"); got != 1 {
		t.Errorf("identical token sets must be 1, got %v", got)
	}
	if got := LexicalSimilarity("a b", "c d"); got != 0 {
		t.Errorf("disjoint token sets must be 0, got %v", got)
	}
	if got := LexicalSimilarity("", ""); got != 1 {
		t.Errorf("two empty texts are trivially similar, got %v", got)
	}
}
