package analyze

import (
	"context"
	"math"

	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/gateway"
	"github.com/credlens/credlens/internal/model"
)

// Counterfactual probes whether high-impact perturbations show up in the
// explanations the collaborator returns afterwards
type Counterfactual struct {
	scorer gateway.Scorer
	cfg    model.AnalysisConfig
}

// NewCounterfactual creates the counterfactual analyzer
func NewCounterfactual(scorer gateway.Scorer, cfg model.AnalysisConfig) *Counterfactual {
	return &Counterfactual{scorer: scorer, cfg: cfg}
}

// Analyze alters one configured feature at a time (numeric +delta,
// categorical to its favorable category), re-scores, and checks whether a
// perturbation that moves the score past the threshold is reflected by the
// feature appearing in the new explanation. Score = mentioned high-impact
// perturbations / high-impact perturbations. Individual call failures
// shrink the test set instead of failing the run.
func (c *Counterfactual) Analyze(ctx context.Context, profile model.Profile, baseline float64) model.DimensionScore {
	score := model.DimensionScore{Dimension: model.DimCounterfactual}

	tested, failed, skipped := 0, 0, 0
	highImpact, reflected := 0, 0

	for _, feature := range c.cfg.CounterfactualFeatures {
		altered, ok := c.alter(profile, feature)
		if !ok {
			skipped++
			continue
		}
		result, err := c.scorer.Score(ctx, altered)
		if err != nil {
			failed++
			continue
		}
		tested++

		if math.Abs(result.Score-baseline) <= c.cfg.CounterfactualThreshold {
			continue
		}
		highImpact++
		spec, _ := model.AttributeByName(feature)
		mentions := extract.Mentions(result.Explanation)
		if _, ok := mentions[spec.Name]; ok {
			reflected++
		}
	}

	if highImpact == 0 {
		// No perturbation moved the score enough to demand a mention
		score.Value = 1.0
		score.Flags = append(score.Flags, model.FlagNoHighImpact)
	} else {
		score.Value = float64(reflected) / float64(highImpact)
	}
	if failed > 0 {
		score.Flags = append(score.Flags, "counterfactual_calls_failed")
	}

	score.Data = map[string]interface{}{
		"features":    c.cfg.CounterfactualFeatures,
		"tested":      tested,
		"failed":      failed,
		"skipped":     skipped,
		"high_impact": highImpact,
		"reflected":   reflected,
		"threshold":   c.cfg.CounterfactualThreshold,
		"formula":     "reflected_high_impact / high_impact",
	}
	return score
}

// alter produces one meaningfully changed profile for a feature. Numeric
// attributes move by the configured delta; categorical attributes move to
// their defined favorable category. Features that cannot change (absent,
// already favorable, zero-valued) are skipped.
func (c *Counterfactual) alter(profile model.Profile, feature string) (model.Profile, bool) {
	spec, ok := model.AttributeByName(feature)
	if !ok {
		return profile, false
	}
	v, present := profile.Get(feature)
	if !present {
		return profile, false
	}

	switch spec.Type {
	case model.ValueNumeric:
		if v.Type != model.ValueNumeric || v.Num == 0 {
			return profile, false
		}
		next := v.Num * (1 + c.cfg.CounterfactualDelta)
		if next > spec.Max {
			next = spec.Max
		}
		if next == v.Num {
			return profile, false
		}
		return profile.With(feature, model.Num(next)), true
	case model.ValueCategorical:
		if spec.Favorable == "" || v.Str == spec.Favorable {
			return profile, false
		}
		return profile.With(feature, model.Cat(spec.Favorable)), true
	}
	return profile, false
}
