// Package facts builds the canonical ground-truth table for one profile.
package facts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/credlens/credlens/internal/model"
)

// MalformedProfileError is fatal: without the required attributes there is
// no ground truth to verify an explanation against.
type MalformedProfileError struct {
	Missing []string
}

func (e *MalformedProfileError) Error() string {
	return fmt.Sprintf("malformed profile: missing required attributes %s", strings.Join(e.Missing, ", "))
}

// Extractor normalizes a profile into a FactTable
type Extractor struct{}

// NewExtractor creates a fact extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

var (
	currencyRe = regexp.MustCompile(`^\$?\s*([\d,]+(?:\.\d+)?)\s*$`)
	percentRe  = regexp.MustCompile(`^([\d.]+)\s*%$`)
	durationRe = regexp.MustCompile(`^([\d.]+)\s*(?:years?|yrs?)$`)
)

// categoryAliases maps common spellings onto the canonical category universe
var categoryAliases = map[string]string{
	"own":       "owner",
	"homeowner": "owner",
	"owned":     "owner",
	"rent":      "renter",
	"renting":   "renter",
	"tenant":    "renter",
	"self-employed": "self_employed",
}

// Extract builds the canonical fact table for a profile. Units are
// normalized (currency to plain dollars, percentages to 0-1 ratios,
// durations to years) and categorical spellings are case-folded. Fails with
// MalformedProfileError when a required attribute is absent.
func (e *Extractor) Extract(profile model.Profile) (model.FactTable, error) {
	var missing []string
	for _, name := range model.RequiredAttributes() {
		if !profile.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MalformedProfileError{Missing: missing}
	}

	table := make(model.FactTable, profile.Len()+1)
	for _, name := range profile.Names() {
		v, _ := profile.Get(name)
		spec, known := model.AttributeByName(name)

		switch {
		case known && spec.Type == model.ValueNumeric:
			num, err := normalizeNumeric(v)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", name, err)
			}
			table[name] = model.Fact{Name: name, Type: model.ValueNumeric, Num: num}
		case known && spec.Type == model.ValueCategorical:
			table[name] = model.Fact{Name: name, Type: model.ValueCategorical, Str: NormalizeCategory(v.Str)}
		default:
			// Unknown attributes pass through as text facts so claim
			// verification can still classify mentions of them
			switch v.Type {
			case model.ValueNumeric:
				table[name] = model.Fact{Name: name, Type: model.ValueNumeric, Num: v.Num}
			default:
				table[name] = model.Fact{Name: name, Type: model.ValueText, Str: strings.ToLower(strings.TrimSpace(v.Str))}
			}
		}
	}

	addUtilization(table)
	return table, nil
}

// addUtilization derives credit_utilization = used_credit / credit_limit
func addUtilization(table model.FactTable) {
	limit, ok1 := table.Get("credit_limit")
	used, ok2 := table.Get("used_credit")
	if !ok1 || !ok2 {
		return
	}
	denom := limit.Num
	if denom < 1 {
		denom = 1
	}
	table["credit_utilization"] = model.Fact{
		Name: "credit_utilization",
		Type: model.ValueNumeric,
		Num:  used.Num / denom,
	}
}

// normalizeNumeric converts a typed value to canonical numeric units.
// Text inputs accept currency ("$120,000"), percent ("25%") and duration
// ("12 years") literals.
func normalizeNumeric(v model.Value) (float64, error) {
	switch v.Type {
	case model.ValueNumeric:
		return v.Num, nil
	case model.ValueText, model.ValueCategorical:
		return ParseNumericLiteral(v.Str)
	}
	return 0, fmt.Errorf("cannot normalize value of type %s", v.Type)
}

// ParseNumericLiteral parses a numeric literal with optional unit markers
func ParseNumericLiteral(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if m := percentRe.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		return f / 100, nil
	}
	if m := durationRe.FindStringSubmatch(s); m != nil {
		return strconv.ParseFloat(m[1], 64)
	}
	if m := currencyRe.FindStringSubmatch(s); m != nil {
		return strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	}
	return 0, fmt.Errorf("unparseable numeric literal %q", s)
}

// NormalizeCategory case-folds a category and maps known aliases onto the
// canonical universe
func NormalizeCategory(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	c = strings.ReplaceAll(c, " ", "_")
	if canonical, ok := categoryAliases[c]; ok {
		return canonical
	}
	return c
}
