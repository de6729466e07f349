package extract

import (
	"fmt"
	"strings"

	"github.com/credlens/credlens/internal/model"
)

// Extractor is one pluggable claim-extraction variant. Variants are tagged
// per attribute type so more robust NLP extraction can be substituted
// without touching scoring or aggregation.
type Extractor interface {
	Kind() model.ClaimType
	Extract(sentences []string) []model.Claim
}

// ClaimExtractor runs every registered variant over an explanation text
type ClaimExtractor struct {
	extractors []Extractor
}

// NewClaimExtractor creates the default extractor set: numeric value claims
// and categorical status claims
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		extractors: []Extractor{
			newNumericExtractor(),
			newCategoricalExtractor(),
		},
	}
}

// Register adds an extraction variant
func (e *ClaimExtractor) Register(x Extractor) {
	e.extractors = append(e.extractors, x)
}

// Extract pulls all claims from an explanation text
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	sentences := SplitSentences(Normalize(text))
	var claims []model.Claim
	for _, x := range e.extractors {
		claims = append(claims, x.Extract(sentences)...)
	}
	return dedupe(claims)
}

// dedupe drops repeated claims about the same feature and value
func dedupe(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool, len(claims))
	var unique []model.Claim
	for _, c := range claims {
		key := fmt.Sprintf("%s|%s|%g|%s", c.Feature, c.Type, c.Num, strings.ToLower(c.Str))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c)
		}
	}
	return unique
}
