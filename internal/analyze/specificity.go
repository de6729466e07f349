package analyze

import (
	"regexp"
	"strings"

	"github.com/credlens/credlens/internal/model"
)

var (
	valuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$[\d,]+`),
		regexp.MustCompile(`\b\d+(?:\.\d+)?%`),
		regexp.MustCompile(`\b\d{3,6}\b`),
	}
	thresholdPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(above|below|over|under|at least|no more than)\s+\$?\d`),
		regexp.MustCompile(`\b(threshold|criteria|requirement|minimum|maximum)\b`),
	}
	interactionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(combined with|along with|together with)\b`),
		regexp.MustCompile(`\b(ratio|compared to|relative to)\b`),
		regexp.MustCompile(`\b(given your|considering your|because of your)\b`),
	}
	actionablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(reduce|lower|bring)\b.*\b(below|under|down)\b`),
		regexp.MustCompile(`\b(increase|raise|build)\b.*\b(above|over|up|savings|history|credit)\b`),
		regexp.MustCompile(`\bpay\b.*\bon time\b`),
		regexp.MustCompile(`\bavoid\b.*\b(late|new|missed|additional)\b`),
		regexp.MustCompile(`\bconsider\b.*\b(consolidat\w+|refinanc\w+)\b`),
	}
)

// AnalyzeSpecificity counts concrete value mentions, thresholds,
// cross-feature comparisons and actionable imperatives, then maps the
// counts to a 0-5 ordinal scale normalized to [0,1]
func AnalyzeSpecificity(text string) model.DimensionScore {
	lower := strings.ToLower(text)

	values := countMatches(text, valuePatterns)
	thresholds := countMatches(lower, thresholdPatterns)
	interactions := countMatches(lower, interactionPatterns)
	actionable := 0
	for _, p := range actionablePatterns {
		if p.MatchString(lower) {
			actionable++
		}
	}

	ordinal := 0.0
	ordinal += minF(2, float64(values+thresholds)*0.5)
	ordinal += minF(1, float64(interactions)*0.5)
	ordinal += minF(2, float64(actionable))

	score := model.DimensionScore{
		Dimension: model.DimSpecificity,
		Value:     ordinal / 5.0,
		Data: map[string]interface{}{
			"actual_values":        values,
			"thresholds_mentioned": thresholds,
			"feature_interactions": interactions,
			"actionable_advice":    actionable,
			"ordinal":              ordinal,
			"formula":              "min(2,(values+thresholds)*0.5) + min(1,interactions*0.5) + min(2,actionable), /5",
		},
	}
	if ordinal <= 2 {
		score.Flags = append(score.Flags, "too_vague")
	}
	if actionable == 0 {
		score.Flags = append(score.Flags, "no_actionable_advice")
	}
	return score
}

func countMatches(text string, patterns []*regexp.Regexp) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllString(text, -1))
	}
	return n
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
