package analyze

import (
	"testing"
)

func TestSpecificity_ConcreteActionable(t *testing.T) {
	text := "Your income of $85,000 is above our $60,000 minimum threshold. " +
		"Your utilization of 45% relative to your credit line is high. " +
		"Reduce your balance below 30% and pay every bill on time."

	score := AnalyzeSpecificity(text)
	if score.Value < 0.8 {
		t.Errorf("expected high specificity, got %v (data: %v)", score.Value, score.Data)
	}
	if score.HasFlag("too_vague") || score.HasFlag("no_actionable_advice") {
		t.Errorf("unexpected flags: %v", score.Flags)
	}
}

func TestSpecificity_VagueText(t *testing.T) {
	text := "Your application was evaluated on many factors and the outcome reflects our policy."

	score := AnalyzeSpecificity(text)
	if score.Value > 0.2 {
		t.Errorf("expected low specificity for vague text, got %v (data: %v)", score.Value, score.Data)
	}
	if !score.HasFlag("too_vague") {
		t.Error("vague text must be flagged")
	}
	if !score.HasFlag("no_actionable_advice") {
		t.Error("text without advice must be flagged")
	}
}

func TestSpecificity_ValuesWithoutAdvice(t *testing.T) {
	text := "Your income is $85,000 and your score is 72."

	score := AnalyzeSpecificity(text)
	if !score.HasFlag("no_actionable_advice") {
		t.Error("expected no_actionable_advice flag")
	}
	if score.Value <= 0 {
		t.Errorf("concrete values alone still earn specificity, got %v", score.Value)
	}
}
