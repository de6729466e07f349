package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/credlens/credlens/internal/report"
)

var (
	outJSON         string
	outMD           string
	assessTimeout   time.Duration
	explanationText string
	samples         int
	seed            int64
	noCache         bool
	noFooter        bool
	gatewayURL      string
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <profile-file>",
	Short: "Assess the explanation quality for one applicant profile",
	Long: `Assess runs the full quality pipeline for one applicant:
- Extract verifiable facts from the profile
- Probe the scoring service with perturbed neighbor profiles
- Fit a local surrogate model and rank the decision drivers
- Verify the explanation's claims against the applicant's data
- Score eight quality dimensions under a hard compliance gate

The profile file is JSON or YAML with an "attributes" object and an
optional "explanation" to assess in place of the service's own.

Example:
  credlens assess applicant.json
  credlens assess applicant.yaml --json report.json --md report.md
  credlens assess applicant.json --samples 1000 --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	assessCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	assessCmd.Flags().DurationVar(&assessTimeout, "timeout", 5*time.Minute, "overall assessment deadline")
	assessCmd.Flags().StringVar(&explanationText, "explanation", "", "explanation text to assess (overrides profile file and service)")
	assessCmd.Flags().IntVar(&samples, "samples", 0, "perturbation sample count (0 = config default)")
	assessCmd.Flags().Int64Var(&seed, "seed", 0, "sampling seed for reproducible runs (0 = nondeterministic)")
	assessCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the scoring response cache")
	assessCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	assessCmd.Flags().StringVar(&gatewayURL, "gateway", "", "scoring service base URL (overrides config)")
}

func runAssess(cmd *cobra.Command, args []string) error {
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
	if assessTimeout > 0 {
		cfg.Concurrency.RunDeadline = assessTimeout
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter

	item, err := loadProfile(args[0])
	if err != nil {
		return err
	}
	if explanationText != "" {
		item.Explanation = explanationText
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Assessing: %s\n", item.Subject)
		fmt.Fprintf(os.Stderr, "Gateway:   %s\n", cfg.Gateway.URL)
		fmt.Fprintf(os.Stderr, "Samples:   %d\n", cfg.Sampling.Samples)
		fmt.Fprintf(os.Stderr, "Cache:     %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), assessTimeout)
	defer cancel()

	result, err := eng.Assess(ctx, item.Subject, item.Profile, item.Explanation)
	if err != nil {
		return fmt.Errorf("assessment failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Scored %d of %d perturbed samples\n",
			result.Diagnostics.SamplesScored, result.Diagnostics.SamplesRequested)
		fmt.Fprintf(os.Stderr, "✓ Surrogate fit quality: %.3f\n", result.Surrogate.FitQuality)
		fmt.Fprintf(os.Stderr, "✓ Decision drivers: %s\n", strings.Join(result.Ranking.Features(), ", "))
		fmt.Fprintf(os.Stderr, "✓ Final quality score: %.1f/100\n", result.FinalScore)
		fmt.Fprintln(os.Stderr)
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(result)

	return nil
}
