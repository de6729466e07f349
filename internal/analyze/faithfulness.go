// Package analyze scores an explanation text against the surrogate's
// feature importances and the profile's fact table across eight
// independent quality dimensions.
package analyze

import (
	"fmt"
	"math"

	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/facts"
	"github.com/credlens/credlens/internal/model"
)

// numericTolerance accepts claimed values within 10% of the fact
const numericTolerance = 0.10

// Faithfulness verifies every extracted claim against the fact table and
// scores the supported fraction
type Faithfulness struct {
	extractor *extract.ClaimExtractor
}

// NewFaithfulness creates the faithfulness analyzer
func NewFaithfulness() *Faithfulness {
	return &Faithfulness{extractor: extract.NewClaimExtractor()}
}

// Analyze extracts claims, classifies each into exactly one verdict and
// scores supported/total. Zero extractable claims is vacuously faithful:
// score 1.0, flagged for human review. Contradicted or hallucinated claims
// raise a critical flag for the aggregate scorer regardless of the score.
func (a *Faithfulness) Analyze(text string, table model.FactTable) (model.DimensionScore, []model.ClaimVerdict) {
	claims := a.extractor.Extract(text)

	verdicts := make([]model.ClaimVerdict, 0, len(claims))
	counts := map[model.VerdictKind]int{}
	critical := 0
	for _, claim := range claims {
		v := verify(claim, table)
		verdicts = append(verdicts, v)
		counts[v.Kind]++
		if v.IsCritical() {
			critical++
		}
	}

	score := model.DimensionScore{
		Dimension: model.DimFaithfulness,
		Data: map[string]interface{}{
			"claims":       len(claims),
			"supported":    counts[model.VerdictSupported],
			"contradicted": counts[model.VerdictContradicted],
			"not_in_input": counts[model.VerdictNotInInput],
			"hallucinated": counts[model.VerdictHallucinated],
			"formula":      "supported / total_claims",
		},
	}

	if len(claims) == 0 {
		score.Value = 1.0
		score.Flags = append(score.Flags, model.FlagVacuousExplanation)
		return score, verdicts
	}

	score.Value = float64(counts[model.VerdictSupported]) / float64(len(claims))
	if critical > 0 {
		score.Flags = append(score.Flags, model.FlagCriticalClaims)
	}
	return score, verdicts
}

// verify classifies one claim against the fact table
func verify(claim model.Claim, table model.FactTable) model.ClaimVerdict {
	spec, known := model.AttributeByName(claim.Feature)
	fact, inInput := table.Get(claim.Feature)

	if !inInput {
		return model.ClaimVerdict{
			Claim:  claim,
			Kind:   model.VerdictNotInInput,
			Detail: "attribute absent from the applicant profile",
		}
	}

	switch claim.Type {
	case model.ClaimNumeric:
		if known && (claim.Num < spec.Min || claim.Num > spec.Max) {
			return model.ClaimVerdict{
				Claim:  claim,
				Kind:   model.VerdictHallucinated,
				Detail: fmt.Sprintf("claimed %g outside the plausible range [%g, %g]", claim.Num, spec.Min, spec.Max),
			}
		}
		tol := numericTolerance * math.Abs(fact.Num)
		if math.Abs(claim.Num-fact.Num) <= tol {
			return model.ClaimVerdict{Claim: claim, Kind: model.VerdictSupported}
		}
		return model.ClaimVerdict{
			Claim:  claim,
			Kind:   model.VerdictContradicted,
			Detail: fmt.Sprintf("claimed %g, profile has %g", claim.Num, fact.Num),
		}
	case model.ClaimCategorical:
		claimed := facts.NormalizeCategory(claim.Str)
		if known && len(spec.Categories) > 0 && !spec.HasCategory(claimed) {
			return model.ClaimVerdict{
				Claim:  claim,
				Kind:   model.VerdictHallucinated,
				Detail: fmt.Sprintf("category %q is not in the attribute's universe", claim.Str),
			}
		}
		if claimed == fact.Str {
			return model.ClaimVerdict{Claim: claim, Kind: model.VerdictSupported}
		}
		return model.ClaimVerdict{
			Claim:  claim,
			Kind:   model.VerdictContradicted,
			Detail: fmt.Sprintf("claimed %q, profile has %q", claimed, fact.Str),
		}
	}

	return model.ClaimVerdict{Claim: claim, Kind: model.VerdictNotInInput, Detail: "unclassifiable claim type"}
}
