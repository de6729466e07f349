package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/credlens/credlens/internal/report"
)

var (
	batchConcurrency int
	outputDir        string
	batchTimeout     time.Duration
	batchOutJSON     string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <corpus-file>",
	Short: "Assess a corpus of applicant profiles and aggregate the results",
	Long: `Batch assesses every profile in a JSONL corpus (one applicant object
per line) and aggregates the corpus: score distribution, quality level
counts, compliance rate, per-dimension averages, surrogate fit statistics
and corpus-level recommendations.

Example:
  credlens batch applicants.jsonl
  credlens batch applicants.jsonl --concurrency 4 --output-dir ./reports
  credlens batch applicants.jsonl --summary-json corpus.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "number of concurrent assessments")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./credlens-reports", "output directory for per-applicant reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchOutJSON, "summary-json", "", "write corpus summary plus all reports to one JSON file")
	batchCmd.Flags().IntVar(&samples, "samples", 0, "perturbation sample count per applicant (0 = config default)")
	batchCmd.Flags().Int64Var(&seed, "seed", 0, "sampling seed for reproducible runs (0 = nondeterministic)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the scoring response cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&gatewayURL, "gateway", "", "scoring service base URL (overrides config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if gatewayURL != "" {
		cfg.Gateway.URL = gatewayURL
	}
	if samples > 0 {
		cfg.Sampling.Samples = samples
	}
	if seed != 0 {
		cfg.Sampling.Seed = seed
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter

	items, err := loadProfileLines(file)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("corpus %s contains no profiles", file)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  CredLens Batch Assessment\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Corpus:       %s (%d profiles)\n", file, len(items))
	fmt.Fprintf(os.Stderr, "  Gateway:      %s\n", cfg.Gateway.URL)
	fmt.Fprintf(os.Stderr, "  Concurrency:  %d\n", batchConcurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	results, summary := eng.AssessBatch(ctx, items, batchConcurrency)

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Subject, res.Err)
			continue
		}

		slug := sanitizeFilename(res.Subject)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(res.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", res.Subject, err)
			continue
		}
		if err := renderer.RenderMarkdown(res.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", res.Subject, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (quality: %.1f/100, %s)\n",
			res.Subject, res.Report.FinalScore, res.Report.QualityLevel)
	}

	if batchOutJSON != "" {
		if err := renderer.RenderBatchJSON(results, summary, batchOutJSON); err != nil {
			return fmt.Errorf("render batch JSON: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote corpus summary: %s\n", batchOutJSON)
	}

	renderer.RenderBatchSummary(summary)
	return nil
}

// sanitizeFilename sanitizes a subject for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "applicant"
	}
	return s
}
