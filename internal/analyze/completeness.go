package analyze

import (
	"math"

	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/model"
)

// AnalyzeCompleteness restricts the ranking to features whose |importance|
// exceeds the threshold, partitions them into positive and negative
// drivers, and measures the mentioned fraction of each partition. Both
// partitions weigh equally unless one is empty.
func AnalyzeCompleteness(text string, ranking model.FeatureRanking, threshold float64) model.DimensionScore {
	score := model.DimensionScore{Dimension: model.DimCompleteness}
	mentions := extract.Mentions(text)

	var positives, negatives []model.RankedFeature
	for _, rf := range ranking {
		if math.Abs(rf.Importance) < threshold {
			continue
		}
		if rf.Importance >= 0 {
			positives = append(positives, rf)
		} else {
			negatives = append(negatives, rf)
		}
	}

	posCovered := coveredCount(mentions, positives)
	negCovered := coveredCount(mentions, negatives)

	switch {
	case len(positives) == 0 && len(negatives) == 0:
		// Nothing above the importance threshold: vacuously complete
		score.Value = 1.0
		score.Flags = append(score.Flags, model.FlagEmptyRanking)
	case len(positives) == 0:
		score.Value = fraction(negCovered, len(negatives))
	case len(negatives) == 0:
		score.Value = fraction(posCovered, len(positives))
	default:
		score.Value = 0.5*fraction(posCovered, len(positives)) + 0.5*fraction(negCovered, len(negatives))
	}

	if len(positives) > 0 && posCovered == 0 {
		score.Flags = append(score.Flags, model.FlagMissingPositives)
	}
	if len(negatives) > 0 && negCovered == 0 {
		score.Flags = append(score.Flags, model.FlagMissingNegatives)
	}

	score.Data = map[string]interface{}{
		"threshold":         threshold,
		"positive_drivers":  len(positives),
		"negative_drivers":  len(negatives),
		"positives_covered": posCovered,
		"negatives_covered": negCovered,
		"formula":           "mean of per-partition mentioned fractions",
	}
	return score
}

func coveredCount(mentions map[string]string, features []model.RankedFeature) int {
	n := 0
	for _, rf := range features {
		if extract.MentionedIn(mentions, rf.Feature) {
			n++
		}
	}
	return n
}

func fraction(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
