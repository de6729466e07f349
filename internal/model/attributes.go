package model

// AttributeSpec describes one attribute of the credit application schema.
// The sampler uses Min/Max to normalize distances, the extractors use
// Synonyms to detect textual mentions, and the counterfactual analyzer uses
// Favorable as the "more favorable" category for flips.
type AttributeSpec struct {
	Name       string
	Type       ValueType
	Min, Max   float64
	Categories []string
	Favorable  string
	Synonyms   []string
	Required   bool
	Derived    bool // computed by the fact extractor, never present in raw profiles
}

// Range returns the normalization range for numeric attributes
func (s AttributeSpec) Range() float64 {
	r := s.Max - s.Min
	if r <= 0 {
		return 1
	}
	return r
}

// HasCategory reports whether c belongs to the attribute's category universe
func (s AttributeSpec) HasCategory(c string) bool {
	for _, cat := range s.Categories {
		if cat == c {
			return true
		}
	}
	return false
}

var attributeSpecs = []AttributeSpec{
	{
		Name: "income", Type: ValueNumeric, Min: 0, Max: 500000, Required: true,
		Synonyms: []string{"income", "salary", "earnings", "annual income"},
	},
	{
		Name: "employment_status", Type: ValueCategorical, Required: true,
		Categories: []string{"employed", "self_employed", "unemployed", "retired"},
		Favorable:  "employed",
		Synonyms:   []string{"employment status", "employed", "unemployed", "self-employed", "self employed", "retired"},
	},
	{
		Name: "employment_duration_years", Type: ValueNumeric, Min: 0, Max: 50, Required: true,
		Synonyms: []string{"employment duration", "years of employment", "employment length", "employment history", "job tenure", "years employed", "years of stable employment"},
	},
	{
		Name: "existing_loans", Type: ValueNumeric, Min: 0, Max: 20,
		Synonyms: []string{"existing loans", "open loans", "outstanding loans", "number of loans"},
	},
	{
		Name: "loan_amount", Type: ValueNumeric, Min: 0, Max: 1000000,
		Synonyms: []string{"loan amount", "requested amount", "amount requested"},
	},
	{
		Name: "credit_limit", Type: ValueNumeric, Min: 0, Max: 200000, Required: true,
		Synonyms: []string{"credit limit", "credit line"},
	},
	{
		Name: "used_credit", Type: ValueNumeric, Min: 0, Max: 200000, Required: true,
		Synonyms: []string{"used credit", "credit used", "outstanding balance", "current balance"},
	},
	{
		Name: "credit_utilization", Type: ValueNumeric, Min: 0, Max: 1, Derived: true,
		Synonyms: []string{"utilization", "credit usage", "utilization ratio", "utilisation"},
	},
	{
		Name: "payment_defaults", Type: ValueNumeric, Min: 0, Max: 20, Required: true,
		Synonyms: []string{"defaults", "payment defaults", "missed payments", "late payments", "delinquencies"},
	},
	{
		Name: "credit_inquiries_last_6_months", Type: ValueNumeric, Min: 0, Max: 50,
		Synonyms: []string{"inquiries", "credit inquiries", "hard pulls"},
	},
	{
		Name: "housing_status", Type: ValueCategorical, Required: true,
		Categories: []string{"owner", "renter", "mortgage"},
		Favorable:  "owner",
		Synonyms:   []string{"housing", "homeowner", "home owner", "homeownership", "renter", "renting", "mortgage", "owns", "owner"},
	},
	{
		Name: "address_stability_years", Type: ValueNumeric, Min: 0, Max: 60,
		Synonyms: []string{"address stability", "years at address", "time at address"},
	},
	{
		Name: "household_size", Type: ValueNumeric, Min: 1, Max: 15,
		Synonyms: []string{"household size", "dependents", "household"},
	},
	{
		Name: "loan_purpose", Type: ValueCategorical,
		Categories: []string{"personal", "auto", "home", "education", "business"},
		Synonyms:   []string{"loan purpose", "purpose of the loan"},
	},
}

var attributeIndex = func() map[string]AttributeSpec {
	idx := make(map[string]AttributeSpec, len(attributeSpecs))
	for _, s := range attributeSpecs {
		idx[s.Name] = s
	}
	return idx
}()

// Attributes returns the full attribute schema in canonical order
func Attributes() []AttributeSpec {
	return attributeSpecs
}

// AttributeByName looks up an attribute spec
func AttributeByName(name string) (AttributeSpec, bool) {
	s, ok := attributeIndex[name]
	return s, ok
}

// RequiredAttributes returns the attribute names that must be present for a
// run to proceed
func RequiredAttributes() []string {
	var names []string
	for _, s := range attributeSpecs {
		if s.Required {
			names = append(names, s.Name)
		}
	}
	return names
}
