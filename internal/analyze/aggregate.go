package analyze

import "github.com/credlens/credlens/internal/model"

// Dimension weights on the 0-100 scale. They sum to 1. Compliance carries
// no weight of its own: it acts purely as the gate.
var dimensionWeights = map[model.Dimension]float64{
	model.DimFaithfulness:   0.25,
	model.DimAlignment:      0.25,
	model.DimSpecificity:    0.15,
	model.DimCompleteness:   0.15,
	model.DimConsistency:    0.10,
	model.DimCounterfactual: 0.05,
	model.DimReadability:    0.05,
}

const complianceCap = 20.0

// Aggregate combines the dimension scores into the final 0-100 quality
// score. Compliance is a hard gate: any violation caps the final score at
// 20 regardless of the other seven dimensions.
func Aggregate(dimensions []model.DimensionScore) (final float64, pass bool) {
	pass = true
	for _, d := range dimensions {
		final += dimensionWeights[d.Dimension] * d.Value
		if d.Dimension == model.DimCompliance && !CompliancePass(d) {
			pass = false
		}
	}
	final *= 100
	if !pass && final > complianceCap {
		final = complianceCap
	}
	return final, pass
}

// recommendation thresholds per dimension, checked in priority order
type recommendationRule struct {
	dimension model.Dimension
	below     float64
	message   string
}

var recommendationRules = []recommendationRule{
	{model.DimCompliance, 1.0,
		"Remove prohibited content: the explanation references protected attributes or harmful advice and cannot be shown to applicants as-is."},
	{model.DimFaithfulness, 0.7,
		"Correct factual claims: the explanation contradicts or invents applicant data."},
	{model.DimAlignment, 0.6,
		"Align the narrative with the decision drivers: the features the explanation cites do not match what actually moved the score."},
	{model.DimSpecificity, 0.4,
		"Add concrete values, thresholds and actionable advice instead of generic statements."},
	{model.DimCompleteness, 0.5,
		"Cover both the positive and negative drivers of the decision, not just one side."},
	{model.DimConsistency, 0.5,
		"Stabilize explanation generation: repeated requests for the same applicant produce materially different explanations."},
	{model.DimCounterfactual, 0.4,
		"Mention the features that actually change the outcome: high-impact attributes are absent from the explanation."},
	{model.DimReadability, 0.4,
		"Restructure the text: lead with the outcome, give distinct reasons, close with a next step."},
}

// Recommendations derives remediation guidance from the dimension scores,
// ordered by severity. A weak surrogate fit prepends a trust warning since
// it undermines the alignment and completeness readings.
func Recommendations(dimensions []model.DimensionScore, fitQuality, lowFidelityThreshold float64) []string {
	var recs []string
	if fitQuality < lowFidelityThreshold {
		recs = append(recs,
			"Treat feature-ranking dimensions with caution: the local surrogate fit is weak, so alignment and completeness readings are unreliable.")
	}
	byDim := make(map[model.Dimension]model.DimensionScore, len(dimensions))
	for _, d := range dimensions {
		byDim[d.Dimension] = d
	}
	for _, rule := range recommendationRules {
		d, ok := byDim[rule.dimension]
		if !ok {
			continue
		}
		if d.Value < rule.below {
			recs = append(recs, rule.message)
		}
	}
	return recs
}
