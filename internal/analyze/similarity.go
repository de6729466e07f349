package analyze

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/credlens/credlens/internal/model"
)

// SimilarityProvider computes semantic similarity between two explanation
// texts in [0,1]. The consistency dimension falls back to lexical token
// overlap when no provider is configured or a provider call fails.
type SimilarityProvider interface {
	Name() string
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// NewSimilarityProvider creates a provider from configuration. An empty
// provider name disables semantic similarity (nil, nil).
func NewSimilarityProvider(cfg model.SimilarityConfig) (SimilarityProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newEmbeddingProvider(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown similarity provider: %s (supported: openai)", cfg.Provider)
	}
}

// embeddingProvider measures cosine similarity between embeddings
type embeddingProvider struct {
	client *openai.Client
	model  string
	cfg    model.SimilarityConfig
}

func newEmbeddingProvider(cfg model.SimilarityConfig) (*embeddingProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("similarity provider %q requires an API key", cfg.Provider)
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	embModel := cfg.Model
	if embModel == "" {
		embModel = string(openai.SmallEmbedding3)
	}
	return &embeddingProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  embModel,
		cfg:    cfg,
	}, nil
}

func (p *embeddingProvider) Name() string {
	return "openai"
}

func (p *embeddingProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{a, b},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return 0, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(resp.Data))
	}
	return cosine(resp.Data[0].Embedding, resp.Data[1].Embedding), nil
}

// cosine computes cosine similarity clamped to [0,1]
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// LexicalSimilarity is the token-overlap (Jaccard) fallback
func LexicalSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,;:!?()\"'")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}
