package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/credlens/credlens/internal/model"
)

// numberRe matches a numeric token with optional currency and percent
// markers: $120,000 / 25% / 0.25 / 12
var numberRe = regexp.MustCompile(`(\$)?(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*(%)?`)

// numericExtractor emits a value claim when a sentence ties a numeric
// attribute mention to a number. Claimed values are unit-normalized the
// same way the fact table is, so verification compares like with like.
type numericExtractor struct{}

func newNumericExtractor() *numericExtractor {
	return &numericExtractor{}
}

func (x *numericExtractor) Kind() model.ClaimType {
	return model.ClaimNumeric
}

func (x *numericExtractor) Extract(sentences []string) []model.Claim {
	var claims []model.Claim
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		numbers := findNumbers(sentence)
		if len(numbers) == 0 {
			continue
		}
		for _, spec := range model.Attributes() {
			if spec.Type != model.ValueNumeric {
				continue
			}
			pos, syn := synonymPosition(lower, spec)
			if pos < 0 {
				continue
			}
			num, ok := bestNumberFor(spec, numbers, pos)
			if !ok {
				continue
			}
			claims = append(claims, model.Claim{
				Span:      sentence,
				Feature:   spec.Name,
				Type:      model.ClaimNumeric,
				Num:       num,
				Heuristic: "numeric:" + syn,
			})
		}
	}
	return claims
}

type numberToken struct {
	value    float64
	pos      int
	currency bool
	percent  bool
}

// findNumbers extracts all numeric tokens with their positions and units
func findNumbers(sentence string) []numberToken {
	var tokens []numberToken
	for _, m := range numberRe.FindAllStringSubmatchIndex(sentence, -1) {
		raw := strings.ReplaceAll(sentence[m[4]:m[5]], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		tok := numberToken{value: v, pos: m[0]}
		if m[2] >= 0 {
			tok.currency = true
		}
		if m[6] >= 0 {
			tok.percent = true
			tok.value = v / 100
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// synonymPosition finds the earliest synonym occurrence in a lowercased
// sentence, returning its position and the matched synonym
func synonymPosition(lower string, spec model.AttributeSpec) (int, string) {
	best := -1
	matched := ""
	candidates := append([]string{strings.ReplaceAll(spec.Name, "_", " ")}, spec.Synonyms...)
	for _, syn := range candidates {
		if i := strings.Index(lower, syn); i >= 0 && (best < 0 || i < best) {
			best = i
			matched = syn
		}
	}
	return best, matched
}

// bestNumberFor picks the number a mention most plausibly refers to:
// unit-compatible tokens first (percentages for ratio attributes, currency
// for dollar attributes), nearest to the mention as tie-break
func bestNumberFor(spec model.AttributeSpec, numbers []numberToken, mentionPos int) (float64, bool) {
	isRatio := spec.Max <= 1
	isCurrency := dollarAttribute(spec.Name)

	pick := func(filter func(numberToken) bool) (numberToken, bool) {
		best, found := numberToken{}, false
		bestDist := 0
		for _, tok := range numbers {
			if !filter(tok) {
				continue
			}
			dist := tok.pos - mentionPos
			if dist < 0 {
				dist = -dist
			}
			if !found || dist < bestDist {
				best, found, bestDist = tok, true, dist
			}
		}
		return best, found
	}

	if isRatio {
		if tok, ok := pick(func(t numberToken) bool { return t.percent || t.value <= 1 }); ok {
			return tok.value, true
		}
		return 0, false
	}
	if isCurrency {
		if tok, ok := pick(func(t numberToken) bool { return t.currency }); ok {
			return tok.value, true
		}
	}
	// Percent tokens never describe plain count or dollar attributes
	if tok, ok := pick(func(t numberToken) bool { return !t.percent }); ok {
		return tok.value, true
	}
	return 0, false
}

func dollarAttribute(name string) bool {
	switch name {
	case "income", "credit_limit", "used_credit", "loan_amount":
		return true
	}
	return false
}
