package analyze

import (
	"context"

	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/model"
)

// Consistency compares repeated explanations for the identical profile
type Consistency struct {
	provider SimilarityProvider
}

// NewConsistency creates the consistency analyzer; provider may be nil to
// use lexical overlap only
func NewConsistency(provider SimilarityProvider) *Consistency {
	return &Consistency{provider: provider}
}

// Analyze scores the mean pairwise similarity across M independently
// obtained explanation texts. Each pair blends text similarity with the
// overlap of the attribute sets the texts mention. Fewer than two
// observations cannot be compared: score 0, flagged.
func (c *Consistency) Analyze(ctx context.Context, texts []string) model.DimensionScore {
	score := model.DimensionScore{Dimension: model.DimConsistency}

	if len(texts) < 2 {
		score.Flags = append(score.Flags, model.FlagInsufficientObservations)
		score.Data = map[string]interface{}{"observations": len(texts)}
		return score
	}

	mentionSets := make([]map[string]string, len(texts))
	for i, t := range texts {
		mentionSets[i] = extract.Mentions(t)
	}

	usedFallback := false
	var sum float64
	pairs := 0
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			textSim, fellBack := c.textSimilarity(ctx, texts[i], texts[j])
			usedFallback = usedFallback || fellBack
			featSim := mentionOverlap(mentionSets[i], mentionSets[j])
			sum += 0.5*textSim + 0.5*featSim
			pairs++
		}
	}

	score.Value = sum / float64(pairs)
	if usedFallback {
		score.Flags = append(score.Flags, model.FlagLexicalFallback)
	}
	score.Data = map[string]interface{}{
		"observations": len(texts),
		"pairs":        pairs,
		"formula":      "mean over pairs of 0.5*text_similarity + 0.5*mention_overlap",
	}
	return score
}

// textSimilarity uses the semantic provider when available, lexical
// overlap otherwise. The second return reports whether the fallback ran.
func (c *Consistency) textSimilarity(ctx context.Context, a, b string) (float64, bool) {
	if c.provider != nil {
		if sim, err := c.provider.Similarity(ctx, a, b); err == nil {
			return sim, false
		}
	}
	return LexicalSimilarity(a, b), true
}

// mentionOverlap is the Jaccard overlap of mentioned attribute sets
func mentionOverlap(a, b map[string]string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	intersection := 0
	for attr := range a {
		if _, ok := b[attr]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
