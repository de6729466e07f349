package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/credlens/credlens/internal/facts"
	"github.com/credlens/credlens/internal/gateway"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/surrogate"
)

// fakeScorer scores profiles with a fixed linear rule so the surrogate can
// recover it exactly. The explanation text is deterministic.
type fakeScorer struct {
	calls int64
}

func (s *fakeScorer) Score(ctx context.Context, p model.Profile) (*gateway.Result, error) {
	atomic.AddInt64(&s.calls, 1)
	score := s.scoreOf(p)
	return &gateway.Result{
		Score:          score,
		Classification: gateway.ClassifyScore(score),
		Explanation: "Your application was scored on income and payment history. " +
			"This is because your income supports the requested line. " +
			"Low payment defaults keep the risk down. " +
			"To improve further, consider keeping your utilization low.",
	}, nil
}

func (s *fakeScorer) scoreOf(p model.Profile) float64 {
	score := 30.0
	if v, ok := p.Get("income"); ok {
		score += 20 * v.Num / 200000
	}
	if v, ok := p.Get("employment_status"); ok && v.Str == "employed" {
		score += 10
	}
	if v, ok := p.Get("housing_status"); ok && v.Str == "owner" {
		score += 5
	}
	if v, ok := p.Get("payment_defaults"); ok {
		score -= v.Num
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// flakyScorer succeeds on the first call (the baseline) and fails the rest
type flakyScorer struct {
	calls int64
}

func (s *flakyScorer) Score(ctx context.Context, p model.Profile) (*gateway.Result, error) {
	if atomic.AddInt64(&s.calls, 1) == 1 {
		return &gateway.Result{Score: 60, Classification: "conditional", Explanation: "Borderline."}, nil
	}
	return nil, &gateway.CallError{Kind: gateway.ErrConnection, Err: errors.New("gateway down")}
}

func applicantProfile() model.Profile {
	return model.NewProfile(map[string]model.Value{
		"income":                    model.Num(85000),
		"employment_status":         model.Cat("employed"),
		"employment_duration_years": model.Num(10),
		"credit_limit":              model.Num(100000),
		"used_credit":               model.Num(25000),
		"payment_defaults":          model.Num(0),
		"housing_status":            model.Cat("owner"),
	})
}

func testConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.Sampling.Samples = 60
	cfg.Sampling.Seed = 42
	cfg.Concurrency.Workers = 4
	cfg.Analysis.RepeatCalls = 2
	return cfg
}

func TestAssess_HappyPath(t *testing.T) {
	scorer := &fakeScorer{}
	eng := New(testConfig(), scorer, nil)

	report, err := eng.Assess(context.Background(), "applicant-001", applicantProfile(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Subject != "applicant-001" {
		t.Errorf("subject lost: %q", report.Subject)
	}
	// income 85000 -> 8.5, employed +10, owner +5, base 30
	if report.BaselineScore != 53.5 {
		t.Errorf("expected baseline 53.5, got %v", report.BaselineScore)
	}
	if report.Classification != "denied" {
		t.Errorf("expected denied band for 53.5, got %q", report.Classification)
	}
	if report.Explanation == "" {
		t.Error("empty input explanation must fall back to the baseline explanation")
	}

	if len(report.Dimensions) != 8 {
		t.Fatalf("expected 8 dimensions, got %d", len(report.Dimensions))
	}
	if report.Dimensions[0].Dimension != model.DimFaithfulness {
		t.Errorf("faithfulness must come first, got %s", report.Dimensions[0].Dimension)
	}
	if report.Dimensions[7].Dimension != model.DimReadability {
		t.Errorf("readability must come last, got %s", report.Dimensions[7].Dimension)
	}

	if !report.CompliancePass {
		t.Error("clean explanation must pass the compliance gate")
	}
	if report.FinalScore <= 0 || report.FinalScore > 100 {
		t.Errorf("final score outside scale: %v", report.FinalScore)
	}
	if report.QualityLevel == "" {
		t.Error("quality level must be set")
	}

	// The scoring rule is linear in the encoded features, so the fit
	// recovers it
	if report.Surrogate.FitQuality < 0.9 {
		t.Errorf("expected near-perfect fit, got %v", report.Surrogate.FitQuality)
	}
	if len(report.Ranking) == 0 {
		t.Error("expected a non-empty feature ranking")
	}

	diag := report.Diagnostics
	if diag.SamplesRequested != 60 {
		t.Errorf("expected 60 requested samples, got %d", diag.SamplesRequested)
	}
	if diag.SamplesScored != 60 || diag.SamplesDropped != 0 {
		t.Errorf("all calls succeed: scored=%d dropped=%d", diag.SamplesScored, diag.SamplesDropped)
	}
	if !diag.Seeded {
		t.Error("seeded run must be recorded")
	}
	if diag.RepeatObservations != 2 {
		t.Errorf("expected 2 consistency observations, got %d", diag.RepeatObservations)
	}
}

func TestAssess_ProvidedExplanationIsAssessed(t *testing.T) {
	eng := New(testConfig(), &fakeScorer{}, nil)
	text := "Denied because your payment defaults are too high. Consider resolving them first."

	report, err := eng.Assess(context.Background(), "a", applicantProfile(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Explanation != text {
		t.Errorf("provided explanation must be the one assessed, got %q", report.Explanation)
	}
}

func TestAssess_SweepFailuresAreFatalBelowMinimum(t *testing.T) {
	eng := New(testConfig(), &flakyScorer{}, nil)

	_, err := eng.Assess(context.Background(), "a", applicantProfile(), "")
	if err == nil {
		t.Fatal("expected error when every sweep call fails")
	}
	var insufficient *surrogate.InsufficientSamplesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientSamplesError, got %v", err)
	}
	if insufficient.Scored != 0 || insufficient.Attempted != 60 {
		t.Errorf("unexpected counts: %+v", insufficient)
	}
	if !IsFatal(err) {
		t.Error("insufficient samples must be fatal")
	}
}

func TestAssess_MalformedProfileIsFatal(t *testing.T) {
	eng := New(testConfig(), &fakeScorer{}, nil)
	incomplete := model.NewProfile(map[string]model.Value{
		"income": model.Num(85000),
	})

	_, err := eng.Assess(context.Background(), "a", incomplete, "")
	if err == nil {
		t.Fatal("expected error for incomplete profile")
	}
	var malformed *facts.MalformedProfileError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedProfileError, got %v", err)
	}
	if !IsFatal(err) {
		t.Error("malformed profile must be fatal")
	}
}

func TestAssessBatch(t *testing.T) {
	eng := New(testConfig(), &fakeScorer{}, nil)
	items := []BatchItem{
		{Subject: "applicant-002", Profile: applicantProfile()},
		{Subject: "applicant-001", Profile: applicantProfile()},
		{Subject: "applicant-003", Profile: model.NewProfile(map[string]model.Value{
			"income": model.Num(10000),
		})},
	}

	results, summary := eng.AssessBatch(context.Background(), items, 2)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"applicant-001", "applicant-002", "applicant-003"} {
		if results[i].Subject != want {
			t.Errorf("results must be sorted by subject: got %q at %d", results[i].Subject, i)
		}
	}

	if summary.Assessed != 2 || summary.Failed != 1 {
		t.Errorf("expected 2 assessed / 1 failed, got %d / %d", summary.Assessed, summary.Failed)
	}
	if summary.ComplianceRate != 1 {
		t.Errorf("both assessed reports pass the gate, got rate %v", summary.ComplianceRate)
	}
	if summary.MinScore > summary.MaxScore {
		t.Errorf("min %v above max %v", summary.MinScore, summary.MaxScore)
	}
	if summary.MeanScore < summary.MinScore || summary.MeanScore > summary.MaxScore {
		t.Errorf("mean %v outside [%v, %v]", summary.MeanScore, summary.MinScore, summary.MaxScore)
	}
	if len(summary.DimensionAverages) != 8 {
		t.Errorf("expected averages for all 8 dimensions, got %d", len(summary.DimensionAverages))
	}

	total := 0
	for _, n := range summary.LevelDistribution {
		total += n
	}
	if total != 2 {
		t.Errorf("level distribution must cover assessed reports, got %d", total)
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		sorted []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{5}, 5},
		{[]float64{1, 3}, 2},
		{[]float64{1, 2, 9}, 2},
		{[]float64{1, 2, 3, 10}, 2.5},
	}
	for _, tc := range cases {
		if got := median(tc.sorted); got != tc.want {
			t.Errorf("median(%v): expected %v, got %v", tc.sorted, tc.want, got)
		}
	}
}
