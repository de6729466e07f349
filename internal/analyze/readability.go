package analyze

import (
	"regexp"
	"strings"

	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/model"
)

var (
	summaryPattern = regexp.MustCompile(
		`(?i)\b(approved|denied|declined|conditional|your (credit )?score|your application)\b`)
	reasonPattern = regexp.MustCompile(
		`(?i)\b(because|due to|as a result of|driven by|reflects|based on|since)\b`)
	nextStepPattern = regexp.MustCompile(
		`(?i)\b(to improve|you (can|could|should|may)|consider|next step|we recommend|try to)\b`)
)

// AnalyzeReadability scores explanation structure on a 0-5 ordinal scale:
// up to 1 point for a leading summary sentence, up to 2 for reason
// statements, 1 for an actionable next step, 1 for well-formed prose.
func AnalyzeReadability(text string) model.DimensionScore {
	sentences := extract.SplitSentences(extract.Normalize(text))

	ordinal := 0.0

	// A summary up front: the first sentence states the outcome
	hasSummary := len(sentences) > 0 && summaryPattern.MatchString(sentences[0])
	if hasSummary {
		ordinal += 1
	}

	reasons := 0
	for _, s := range sentences {
		if reasonPattern.MatchString(s) {
			reasons++
		}
	}
	switch {
	case reasons >= 3:
		ordinal += 2
	case reasons >= 1:
		ordinal += 1
	}

	hasNextStep := nextStepPattern.MatchString(strings.ToLower(text))
	if hasNextStep {
		ordinal += 1
	}

	wellFormed := wellFormedProse(text, sentences)
	if wellFormed {
		ordinal += 1
	}

	score := model.DimensionScore{
		Dimension: model.DimReadability,
		Value:     ordinal / 5.0,
		Data: map[string]interface{}{
			"sentences":         len(sentences),
			"leading_summary":   hasSummary,
			"reason_statements": reasons,
			"actionable_step":   hasNextStep,
			"well_formed":       wellFormed,
			"ordinal":           ordinal,
			"formula":           "summary(1) + reasons(2) + next_step(1) + well_formed(1), /5",
		},
	}
	if len(sentences) == 0 {
		score.Flags = append(score.Flags, "empty_text")
	} else if ordinal <= 1 {
		score.Flags = append(score.Flags, "poorly_structured")
	}
	return score
}

// wellFormedProse rejects empty text, single run-on blobs and all-caps
// shouting. Sentences of 4 to 40 words pass.
func wellFormedProse(text string, sentences []string) bool {
	if len(sentences) == 0 {
		return false
	}
	upper := 0
	letters := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			upper++
			letters++
		} else if r >= 'a' && r <= 'z' {
			letters++
		}
	}
	if letters > 0 && float64(upper)/float64(letters) > 0.5 {
		return false
	}
	inRange := 0
	for _, s := range sentences {
		words := len(strings.Fields(s))
		if words >= 4 && words <= 40 {
			inRange++
		}
	}
	return float64(inRange) >= float64(len(sentences))*0.5
}
