package analyze

import (
	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/surrogate"
)

// Alignment weights: coverage of the top-K features dominates, direction
// agreement refines
const (
	coverageWeight  = 0.7
	directionWeight = 0.3
)

// AnalyzeAlignment measures how well the explanation tracks the surrogate:
// top-K coverage (fraction of ranked features the text mentions) and
// direction agreement (fraction of mentioned features whose stated
// direction matches the surrogate's sign)
func AnalyzeAlignment(text string, ranking model.FeatureRanking) model.DimensionScore {
	score := model.DimensionScore{Dimension: model.DimAlignment}

	if len(ranking) == 0 {
		score.Flags = append(score.Flags, model.FlagEmptyRanking)
		score.Data = map[string]interface{}{"ranked_features": 0}
		return score
	}

	mentions := extract.Mentions(text)

	covered := 0
	agreements := 0
	mentioned := 0
	for _, rf := range ranking {
		attr := surrogate.BaseAttribute(rf.Feature)
		context, ok := mentions[attr]
		if !ok {
			continue
		}
		covered++
		mentioned++
		stated := extract.DirectionOf(context)
		want := 1
		if rf.Importance < 0 {
			want = -1
		}
		if stated == want {
			agreements++
		}
	}

	coverage := float64(covered) / float64(len(ranking))
	direction := 0.0
	if mentioned > 0 {
		direction = float64(agreements) / float64(mentioned)
	}

	score.Value = coverageWeight*coverage + directionWeight*direction
	score.Data = map[string]interface{}{
		"ranked_features":       len(ranking),
		"covered":               covered,
		"direction_matches":     agreements,
		"direction_denominator": mentioned,
		"coverage":              coverage,
		"direction_agreement":   direction,
		"formula":               "0.7*coverage + 0.3*direction_agreement",
	}
	return score
}
