package extract

import "strings"

var positiveWords = []string{
	"increase", "increases", "increased", "improve", "improves", "improved",
	"boost", "boosts", "boosted", "higher", "better", "strengthens",
	"supports", "helps", "raises", "favorable", "positively",
}

var negativeWords = []string{
	"decrease", "decreases", "decreased", "reduce", "reduces", "reduced",
	"lower", "lowers", "lowered", "worse", "hurt", "hurts", "weakens",
	"drags", "penalizes", "negatively", "harms",
}

// DirectionOf reads the stated score direction out of a mention context:
// +1 when the sentence says the factor pushes the score up, -1 when it says
// the factor pushes it down, 0 when no direction is stated
func DirectionOf(sentence string) int {
	lower := strings.ToLower(sentence)
	pos, neg := false, false
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos = true
			break
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg = true
			break
		}
	}
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	}
	return 0
}
