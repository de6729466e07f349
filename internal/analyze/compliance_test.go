package analyze

import (
	"testing"

	"github.com/credlens/credlens/internal/model"
)

func TestCompliance_CleanText(t *testing.T) {
	text := "Your application was approved because your income and payment history are strong."

	score := AnalyzeCompliance(text)
	if score.Value != 1.0 {
		t.Errorf("clean text must pass, got %v (flags: %v)", score.Value, score.Flags)
	}
	if !CompliancePass(score) {
		t.Error("expected gate pass")
	}
}

func TestCompliance_ProtectedAttribute(t *testing.T) {
	text := "Your application was approved because the applicant is female."

	score := AnalyzeCompliance(text)
	if score.Value != 0 {
		t.Errorf("protected attribute reference must fail the gate, got %v", score.Value)
	}
	if CompliancePass(score) {
		t.Error("expected gate failure")
	}
	if !score.HasFlag("protected_attribute_gender") {
		t.Errorf("expected gender rule hit, got %v", score.Flags)
	}
}

func TestCompliance_DisabilityReference(t *testing.T) {
	text := "Your application was denied because of your disability."

	score := AnalyzeCompliance(text)
	if CompliancePass(score) {
		t.Errorf("disability reference must fail the gate, flags: %v", score.Flags)
	}
	if !score.HasFlag("protected_attribute_disability") {
		t.Errorf("expected disability rule hit, got %v", score.Flags)
	}
}

func TestCompliance_OrientationAndPolitics(t *testing.T) {
	cases := []struct {
		text string
		rule string
	}{
		{"Your sexual orientation was a factor in this decision.", "protected_attribute_orientation"},
		{"Applicants with your political affiliation score lower.", "protected_attribute_politics"},
	}
	for _, tc := range cases {
		score := AnalyzeCompliance(tc.text)
		if CompliancePass(score) {
			t.Errorf("%q must fail the gate, flags: %v", tc.text, score.Flags)
		}
		if !score.HasFlag(tc.rule) {
			t.Errorf("%q: expected %s rule hit, got %v", tc.text, tc.rule, score.Flags)
		}
	}
}

func TestCompliance_FalsificationAdvice(t *testing.T) {
	cases := []string{
		"Falsify your income documents to qualify for a higher line.",
		"Consider hiding your existing loans on the next application.",
		"You could lie about your employment duration.",
	}
	for _, text := range cases {
		score := AnalyzeCompliance(text)
		if CompliancePass(score) {
			t.Errorf("%q must fail the gate, flags: %v", text, score.Flags)
		}
		if !score.HasFlag("harmful_advice_falsify") {
			t.Errorf("%q: expected falsification rule hit, got %v", text, score.Flags)
		}
	}
}

func TestCompliance_SensitiveInference(t *testing.T) {
	text := "People like you rarely repay loans of this size."

	score := AnalyzeCompliance(text)
	if CompliancePass(score) {
		t.Errorf("sensitive inference must fail, flags: %v", score.Flags)
	}
}

func TestCompliance_HarmfulAdvice(t *testing.T) {
	text := "Consider whether to stop paying your smallest debts first."

	score := AnalyzeCompliance(text)
	if CompliancePass(score) {
		t.Errorf("harmful advice must fail, flags: %v", score.Flags)
	}
	if !score.HasFlag("harmful_advice") {
		t.Errorf("expected harmful_advice rule hit, got %v", score.Flags)
	}
}

func TestCompliance_NoFalsePositiveOnFemaleSubstring(t *testing.T) {
	// Word boundaries: "female" must not fire inside other words
	text := "The e-mail element was reviewed."

	score := AnalyzeCompliance(text)
	if !CompliancePass(score) {
		t.Errorf("unexpected violation: %v", score.Flags)
	}
}

func TestAggregate_ComplianceGateCapsScore(t *testing.T) {
	dims := []model.DimensionScore{
		{Dimension: model.DimFaithfulness, Value: 1},
		{Dimension: model.DimAlignment, Value: 1},
		{Dimension: model.DimSpecificity, Value: 1},
		{Dimension: model.DimCompleteness, Value: 1},
		{Dimension: model.DimConsistency, Value: 1},
		{Dimension: model.DimCounterfactual, Value: 1},
		{Dimension: model.DimReadability, Value: 1},
		{Dimension: model.DimCompliance, Value: 0, Flags: []string{"protected_attribute_gender"}},
	}

	final, pass := Aggregate(dims)
	if pass {
		t.Error("expected gate failure")
	}
	if final != 20 {
		t.Errorf("otherwise perfect report must cap at 20, got %v", final)
	}
}

func TestAggregate_WeightedSum(t *testing.T) {
	dims := []model.DimensionScore{
		{Dimension: model.DimFaithfulness, Value: 1},
		{Dimension: model.DimAlignment, Value: 0.8},
		{Dimension: model.DimSpecificity, Value: 0.6},
		{Dimension: model.DimCompleteness, Value: 0.5},
		{Dimension: model.DimConsistency, Value: 1},
		{Dimension: model.DimCounterfactual, Value: 1},
		{Dimension: model.DimReadability, Value: 0.4},
		{Dimension: model.DimCompliance, Value: 1},
	}

	final, pass := Aggregate(dims)
	if !pass {
		t.Error("expected gate pass")
	}
	// 0.25*1 + 0.25*0.8 + 0.15*0.6 + 0.15*0.5 + 0.10*1 + 0.05*1 + 0.05*0.4
	want := 78.5
	if diff := final - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected %.1f, got %v", want, final)
	}
}

func TestRecommendations_PriorityOrder(t *testing.T) {
	dims := []model.DimensionScore{
		{Dimension: model.DimCompliance, Value: 0},
		{Dimension: model.DimFaithfulness, Value: 0.3},
		{Dimension: model.DimReadability, Value: 0.1},
	}

	recs := Recommendations(dims, 0.9, 0.5)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d: %v", len(recs), recs)
	}
	// Compliance first, then faithfulness, readability last
	if recs[0] == "" || recs[0][:6] != "Remove" {
		t.Errorf("compliance remediation must come first, got %q", recs[0])
	}
}

func TestRecommendations_LowFidelityWarning(t *testing.T) {
	recs := Recommendations(nil, 0.2, 0.5)
	if len(recs) != 1 {
		t.Fatalf("expected only the fidelity warning, got %v", recs)
	}
}
