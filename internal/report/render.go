// Package report renders quality reports to JSON, Markdown and the
// terminal summary block.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/credlens/credlens/internal/engine"
	"github.com/credlens/credlens/internal/model"
)

// Renderer writes quality reports in the supported formats
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.QualityReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *model.QualityReport, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Explanation Quality Report: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "**Assessed:** %s\n\n", report.AssessedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "## Final Score: %.1f/100 (%s)\n\n", report.FinalScore, report.QualityLevel)
	if !report.CompliancePass {
		b.WriteString("> ⚠️ **Compliance gate failed.** The explanation contains prohibited content and the final score is capped.\n\n")
	}

	fmt.Fprintf(&b, "## Decision\n\n")
	fmt.Fprintf(&b, "- Credit score: %.1f/100\n", report.BaselineScore)
	fmt.Fprintf(&b, "- Classification: %s\n\n", report.Classification)

	b.WriteString("## Explanation Under Assessment\n\n")
	fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(report.Explanation, "\n", "\n> "))

	b.WriteString("## Quality Dimensions\n\n")
	b.WriteString("| Dimension | Score | Flags |\n")
	b.WriteString("|-----------|-------|-------|\n")
	for _, d := range report.Dimensions {
		flags := "—"
		if len(d.Flags) > 0 {
			flags = strings.Join(d.Flags, ", ")
		}
		fmt.Fprintf(&b, "| %s | %.2f | %s |\n", d.Dimension, d.Value, flags)
	}
	b.WriteString("\n")

	b.WriteString("## Decision Drivers (local surrogate)\n\n")
	fmt.Fprintf(&b, "Fit quality (weighted R²): %.3f over %d samples\n\n",
		report.Surrogate.FitQuality, report.Surrogate.SampleCount)
	if len(report.Ranking) > 0 {
		b.WriteString("| Feature | Importance | Direction |\n")
		b.WriteString("|---------|-----------|-----------|\n")
		for _, f := range report.Ranking {
			fmt.Fprintf(&b, "| %s | %+.3f | %s |\n", f.Feature, f.Importance, f.Direction)
		}
		b.WriteString("\n")
	}

	if len(report.Verdicts) > 0 {
		b.WriteString("## Claim Verdicts\n\n")
		for _, v := range report.Verdicts {
			fmt.Fprintf(&b, "- **%s** `%s`: %s\n", v.Kind, v.Claim.Feature, v.Detail)
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Run Diagnostics\n\n")
	d := report.Diagnostics
	fmt.Fprintf(&b, "- Samples: %d requested, %d scored, %d dropped\n",
		d.SamplesRequested, d.SamplesScored, d.SamplesDropped)
	fmt.Fprintf(&b, "- Mean similarity weight: %.3f\n", d.MeanSimilarityWeight)
	fmt.Fprintf(&b, "- Repeat observations: %d\n", d.RepeatObservations)
	fmt.Fprintf(&b, "- Seeded: %v\n", d.Seeded)

	if r.includeFooter {
		b.WriteString("\n---\n*Generated by CredLens — explanation fidelity and quality assessment.*\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints the terminal summary block to stdout
func (r *Renderer) RenderSummary(report *model.QualityReport) {
	fmt.Println()
	fmt.Printf("═══ Explanation Quality: %s ═══\n", report.Subject)
	fmt.Printf("Final score:    %.1f/100 (%s)\n", report.FinalScore, report.QualityLevel)
	fmt.Printf("Credit score:   %.1f (%s)\n", report.BaselineScore, report.Classification)
	fmt.Printf("Compliance:     %s\n", passLabel(report.CompliancePass))
	fmt.Printf("Surrogate R²:   %.3f (%d samples)\n",
		report.Surrogate.FitQuality, report.Surrogate.SampleCount)
	for _, dim := range report.Dimensions {
		fmt.Printf("  %-20s %.2f\n", string(dim.Dimension)+":", dim.Value)
	}
	if len(report.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	fmt.Println()
}

// RenderBatchJSON writes the per-item reports and the corpus summary
func (r *Renderer) RenderBatchJSON(results []engine.BatchResult, summary *engine.BatchSummary, path string) error {
	type itemOut struct {
		Subject string               `json:"subject"`
		Report  *model.QualityReport `json:"report,omitempty"`
		Error   string               `json:"error,omitempty"`
	}
	out := struct {
		Summary *engine.BatchSummary `json:"summary"`
		Items   []itemOut            `json:"items"`
	}{Summary: summary}

	for _, res := range results {
		item := itemOut{Subject: res.Subject, Report: res.Report}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		out.Items = append(out.Items, item)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

// RenderBatchSummary prints the corpus summary block to stdout
func (r *Renderer) RenderBatchSummary(summary *engine.BatchSummary) {
	fmt.Println()
	fmt.Printf("═══ Batch Assessment: %d assessed, %d failed ═══\n",
		summary.Assessed, summary.Failed)
	if summary.Assessed == 0 {
		fmt.Println()
		return
	}
	fmt.Printf("Final scores:   mean %.1f, median %.1f, min %.1f, max %.1f\n",
		summary.MeanScore, summary.MedianScore, summary.MinScore, summary.MaxScore)
	fmt.Printf("Compliance:     %.0f%% pass\n", summary.ComplianceRate*100)
	fmt.Printf("Surrogate R²:   mean %.3f, min %.3f\n",
		summary.MeanFitQuality, summary.MinFitQuality)

	levels := make([]string, 0, len(summary.LevelDistribution))
	for level := range summary.LevelDistribution {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	fmt.Println("Quality levels:")
	for _, level := range levels {
		fmt.Printf("  %-12s %d\n", level+":", summary.LevelDistribution[level])
	}

	dims := make([]string, 0, len(summary.DimensionAverages))
	for dim := range summary.DimensionAverages {
		dims = append(dims, string(dim))
	}
	sort.Strings(dims)
	fmt.Println("Dimension averages:")
	for _, dim := range dims {
		fmt.Printf("  %-20s %.2f\n", dim+":", summary.DimensionAverages[model.Dimension(dim)])
	}
	if len(summary.Recommendations) > 0 {
		fmt.Println("Corpus recommendations:")
		for _, rec := range summary.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	fmt.Println()
}

func passLabel(pass bool) string {
	if pass {
		return "pass"
	}
	return "FAIL"
}
