package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/credlens/credlens/internal/model"
)

func sampleReport() *model.QualityReport {
	return &model.QualityReport{
		Subject:        "applicant-001",
		AssessedAt:     time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Explanation:    "Approved because your income is strong.\nKeep utilization low.",
		BaselineScore:  78,
		Classification: "approved",
		Surrogate: model.SurrogateModel{
			Coefficients: map[string]float64{"income": 12.5},
			Intercept:    50,
			FitQuality:   0.94,
			SampleCount:  480,
		},
		Ranking: model.FeatureRanking{
			{Feature: "income", Importance: 12.5, Direction: model.DirectionPositive},
			{Feature: "payment_defaults", Importance: -8.0, Direction: model.DirectionNegative},
		},
		Dimensions: []model.DimensionScore{
			{Dimension: model.DimFaithfulness, Value: 1},
			{Dimension: model.DimCompliance, Value: 1},
		},
		CompliancePass:  true,
		FinalScore:      86.5,
		QualityLevel:    model.LevelGood,
		Recommendations: []string{"Name the decision drivers explicitly."},
		Diagnostics: model.RunDiagnostics{
			SamplesRequested: 500,
			SamplesScored:    480,
			SamplesDropped:   20,
			Seeded:           true,
		},
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewRenderer(true).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var decoded model.QualityReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Subject != "applicant-001" || decoded.FinalScore != 86.5 {
		t.Errorf("report fields lost in rendering: %+v", decoded)
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(true).RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"# Explanation Quality Report: applicant-001",
		"## Final Score: 86.5/100 (good)",
		"## Quality Dimensions",
		"## Decision Drivers (local surrogate)",
		"| income | +12.500 | positive driver |",
		"## Run Diagnostics",
		"*Generated by CredLens",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Multi-line explanations stay inside the blockquote
	if !strings.Contains(out, "> Approved because your income is strong.\n> Keep utilization low.") {
		t.Error("explanation newlines must be quoted")
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(false).RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by CredLens") {
		t.Error("footer must be omitted when disabled")
	}
}

func TestRenderMarkdown_ComplianceWarning(t *testing.T) {
	rep := sampleReport()
	rep.CompliancePass = false
	rep.FinalScore = 20
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(false).RenderMarkdown(rep, path); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "Compliance gate failed") {
		t.Error("failed gate must surface a warning banner")
	}
}
