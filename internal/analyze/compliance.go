package analyze

import (
	"regexp"

	"github.com/credlens/credlens/internal/model"
)

// ComplianceRule is one prohibited-content pattern. Every rule here is
// critical: a single hit fails the gate.
type ComplianceRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// The rule set covers three families of prohibited content in credit
// decisions: direct references to protected attributes, inferences about
// protected attributes from proxies, and advice that would harm the
// applicant's standing.
var complianceRules = []ComplianceRule{
	{
		Name: "protected_attribute_gender",
		Pattern: regexp.MustCompile(
			`(?i)\b(female|male|woman|women|man|men|gender|sex)\b`),
	},
	{
		Name: "protected_attribute_age",
		Pattern: regexp.MustCompile(
			`(?i)\b(too old|too young|your age|elderly|senior citizen|age group|because of.{0,20}\bage\b)`),
	},
	{
		Name: "protected_attribute_origin",
		Pattern: regexp.MustCompile(
			`(?i)\b(race|ethnicity|ethnic|nationality|national origin|religion|religious|immigrant|foreigner)\b`),
	},
	{
		Name: "protected_attribute_family",
		Pattern: regexp.MustCompile(
			`(?i)\b(marital status|married|unmarried|divorced|single mother|single father|pregnan\w+|maternity)\b`),
	},
	{
		Name: "protected_attribute_disability",
		Pattern: regexp.MustCompile(
			`(?i)\b(disabilit\w+|disabled|handicap\w*)\b`),
	},
	{
		Name: "protected_attribute_orientation",
		Pattern: regexp.MustCompile(
			`(?i)\b(sexual orientation|gay|lesbian|bisexual|transgender)\b`),
	},
	{
		Name: "protected_attribute_politics",
		Pattern: regexp.MustCompile(
			`(?i)\b(political (affiliation|views|opinions|party)|union membership)\b`),
	},
	{
		Name: "sensitive_inference",
		Pattern: regexp.MustCompile(
			`(?i)\b(your neighborhood suggests|people like you|your name indicates|typical for your (area|background|community))\b`),
	},
	{
		Name: "harmful_advice",
		Pattern: regexp.MustCompile(
			`(?i)\b(close (your|all|old) (credit )?(card|cards|account|accounts)|stop paying|default on|take out a payday loan|max out)\b`),
	},
	{
		Name: "harmful_advice_falsify",
		Pattern: regexp.MustCompile(
			`(?i)\b(falsify|fabricat\w+|lie about|misreport)\b|\b(hide|hiding|conceal\w*)\b[^.]{0,40}\b(income|debts?|loans?|defaults?|information|documents?)\b`),
	},
}

// AnalyzeCompliance checks the explanation against the prohibited-content
// rules. The dimension is binary and acts as a hard gate on the final
// score: any violation yields 0 and fails the gate.
func AnalyzeCompliance(text string) model.DimensionScore {
	score := model.DimensionScore{Dimension: model.DimCompliance}

	var violations []string
	for _, rule := range complianceRules {
		if rule.Pattern.MatchString(text) {
			violations = append(violations, rule.Name)
		}
	}

	if len(violations) == 0 {
		score.Value = 1.0
	} else {
		score.Flags = append(score.Flags, violations...)
	}
	score.Data = map[string]interface{}{
		"rules_checked": len(complianceRules),
		"violations":    len(violations),
	}
	return score
}

// CompliancePass reports whether a compliance score passed the gate
func CompliancePass(s model.DimensionScore) bool {
	return s.Value >= 1.0
}
