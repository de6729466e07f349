package extract

import (
	"strings"

	"github.com/credlens/credlens/internal/model"
)

// categoryTerms maps surface forms to canonical categories, per attribute
var categoryTerms = map[string]map[string]string{
	"housing_status": {
		"owner":     "owner",
		"homeowner": "owner",
		"home owner": "owner",
		"owns":      "owner",
		"renter":    "renter",
		"renting":   "renter",
		"rents":     "renter",
		"tenant":    "renter",
		"mortgage":  "mortgage",
	},
	"employment_status": {
		"employed":      "employed",
		"self-employed": "self_employed",
		"self employed": "self_employed",
		"unemployed":    "unemployed",
		"retired":       "retired",
	},
	"loan_purpose": {
		"personal loan":  "personal",
		"auto loan":      "auto",
		"car loan":       "auto",
		"home loan":      "home",
		"education loan": "education",
		"student loan":   "education",
		"business loan":  "business",
	},
}

// categoricalExtractor emits a status claim when a sentence names a
// category from a known attribute's universe
type categoricalExtractor struct{}

func newCategoricalExtractor() *categoricalExtractor {
	return &categoricalExtractor{}
}

func (x *categoricalExtractor) Kind() model.ClaimType {
	return model.ClaimCategorical
}

func (x *categoricalExtractor) Extract(sentences []string) []model.Claim {
	var claims []model.Claim
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for attr, terms := range categoryTerms {
			category, term := matchCategory(lower, terms)
			if category == "" {
				continue
			}
			// "unemployed" contains "employed"; take the longest match
			claims = append(claims, model.Claim{
				Span:      sentence,
				Feature:   attr,
				Type:      model.ClaimCategorical,
				Str:       category,
				Heuristic: "category:" + term,
			})
		}
	}
	return claims
}

// matchCategory returns the canonical category for the longest surface form
// present in the sentence
func matchCategory(lower string, terms map[string]string) (string, string) {
	bestTerm, bestCategory := "", ""
	for term, category := range terms {
		if strings.Contains(lower, term) && len(term) > len(bestTerm) {
			bestTerm, bestCategory = term, category
		}
	}
	return bestCategory, bestTerm
}
