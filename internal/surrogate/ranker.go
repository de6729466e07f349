package surrogate

import (
	"math"
	"sort"
	"strings"

	"github.com/credlens/credlens/internal/model"
)

// Rank orders surrogate coefficients by absolute value descending, keeps
// the top k, and labels each entry's sign. Pure function: empty input
// yields an empty ranking. Ties break on feature name so the ranking is
// deterministic.
func Rank(m *model.SurrogateModel, k int) model.FeatureRanking {
	if m == nil || len(m.Coefficients) == 0 {
		return model.FeatureRanking{}
	}

	ranking := make(model.FeatureRanking, 0, len(m.Coefficients))
	for name, coef := range m.Coefficients {
		dir := model.DirectionPositive
		if coef < 0 {
			dir = model.DirectionNegative
		}
		ranking = append(ranking, model.RankedFeature{
			Feature:    name,
			Importance: coef,
			Direction:  dir,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		ai, aj := math.Abs(ranking[i].Importance), math.Abs(ranking[j].Importance)
		if ai != aj {
			return ai > aj
		}
		return ranking[i].Feature < ranking[j].Feature
	})

	if k > 0 && len(ranking) > k {
		ranking = ranking[:k]
	}
	return ranking
}

// BaseAttribute strips the one-hot category suffix from a ranked feature
// name: "housing_status=owner" -> "housing_status"
func BaseAttribute(feature string) string {
	if i := strings.IndexByte(feature, '='); i >= 0 {
		return feature[:i]
	}
	return feature
}
