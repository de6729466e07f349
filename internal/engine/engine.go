// Package engine orchestrates one explanation-quality run: fact
// extraction, the perturbation sweep, the surrogate fit and the eight text
// analyzers, combined into a single QualityReport.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/credlens/credlens/internal/analyze"
	"github.com/credlens/credlens/internal/facts"
	"github.com/credlens/credlens/internal/gateway"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/surrogate"
	"github.com/credlens/credlens/internal/worker"
)

// Engine runs explanation-quality assessments against one scoring
// collaborator. All collaborators are injected; the engine holds no
// global state and is safe for concurrent Assess calls.
type Engine struct {
	cfg        model.Config
	scorer     gateway.Scorer
	similarity analyze.SimilarityProvider
}

// New creates an engine. similarity may be nil; the consistency dimension
// then falls back to lexical overlap.
func New(cfg model.Config, scorer gateway.Scorer, similarity analyze.SimilarityProvider) *Engine {
	return &Engine{cfg: cfg, scorer: scorer, similarity: similarity}
}

// scoreJob scores one perturbed sample through the gateway
type scoreJob struct {
	scorer gateway.Scorer
	sample surrogate.PerturbedSample
}

// scoreResult carries the sample together with its outcome
type scoreResult struct {
	sample surrogate.PerturbedSample
	result *gateway.Result
	err    error
}

func (r *scoreResult) GetError() error { return r.err }

func (j *scoreJob) Execute(ctx context.Context) worker.Result {
	res, err := j.scorer.Score(ctx, j.sample.Profile)
	return &scoreResult{sample: j.sample, result: res, err: err}
}

// Assess runs the full assessment for one applicant profile. When
// explanation is empty the collaborator's baseline explanation is assessed
// instead. Fatal errors (malformed profile, baseline call failure, too few
// scored samples) abort the run; individual sweep-call failures only
// shrink the sample set.
func (e *Engine) Assess(ctx context.Context, subject string, profile model.Profile, explanation string) (*model.QualityReport, error) {
	if e.cfg.Concurrency.RunDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Concurrency.RunDeadline)
		defer cancel()
	}

	table, err := facts.NewExtractor().Extract(profile)
	if err != nil {
		return nil, fmt.Errorf("extract facts: %w", err)
	}

	baseline, err := e.scorer.Score(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("baseline score: %w", err)
	}
	if explanation == "" {
		explanation = baseline.Explanation
	}

	scored, diagnostics := e.sweep(ctx, profile)
	diagnostics.Seeded = e.cfg.Sampling.Seed != 0

	fitter := surrogate.NewFitter(e.cfg.Sampling.MinSamples)
	surrogateModel, err := fitter.FitAttempted(scored, diagnostics.SamplesRequested)
	if err != nil {
		return nil, fmt.Errorf("fit surrogate: %w", err)
	}
	ranking := surrogate.Rank(surrogateModel, e.cfg.Analysis.TopK)

	repeats := e.repeatExplanations(ctx, profile, explanation)
	diagnostics.RepeatObservations = len(repeats)

	dimensions, verdicts := e.analyze(ctx, profile, explanation, table, surrogateModel, ranking, baseline.Score, repeats)

	final, pass := analyze.Aggregate(dimensions)
	recommendations := analyze.Recommendations(dimensions,
		surrogateModel.FitQuality, e.cfg.Analysis.LowFidelityThreshold)

	return &model.QualityReport{
		Subject:         subject,
		AssessedAt:      time.Now().UTC(),
		Explanation:     explanation,
		BaselineScore:   baseline.Score,
		Classification:  baseline.Classification,
		Surrogate:       *surrogateModel,
		Ranking:         ranking,
		Dimensions:      dimensions,
		Verdicts:        verdicts,
		CompliancePass:  pass,
		FinalScore:      final,
		QualityLevel:    model.QualityLevelFor(final),
		Recommendations: recommendations,
		Diagnostics:     diagnostics,
	}, nil
}

// sweep scores the perturbed neighborhood through the bounded worker pool.
// Failed calls are dropped; the fitter decides whether enough survived.
func (e *Engine) sweep(ctx context.Context, profile model.Profile) ([]surrogate.ScoredSample, model.RunDiagnostics) {
	n := e.cfg.Sampling.Samples
	samples := surrogate.NewSampler(profile, e.cfg.Sampling).Sample(n)

	pool := worker.NewPool(ctx, e.cfg.Concurrency.Workers, len(samples))
	pool.Start()
	for _, s := range samples {
		pool.Submit(&scoreJob{scorer: e.scorer, sample: s})
	}
	results := pool.Wait()

	var scored []surrogate.ScoredSample
	var weightSum float64
	for _, r := range results {
		sr, ok := r.(*scoreResult)
		if !ok || sr.err != nil {
			continue
		}
		scored = append(scored, surrogate.ScoredSample{
			PerturbedSample: sr.sample,
			Score:           sr.result.Score,
		})
		weightSum += sr.sample.Weight
	}

	diag := model.RunDiagnostics{
		SamplesRequested: n,
		SamplesScored:    len(scored),
		SamplesDropped:   n - len(scored),
	}
	if len(scored) > 0 {
		diag.MeanSimilarityWeight = weightSum / float64(len(scored))
	}
	return scored, diag
}

// repeatExplanations gathers the observation set for the consistency
// dimension: the assessed explanation plus M-1 fresh collaborator calls for
// the identical profile, bypassing the response cache. Failed calls shrink
// the observation set.
func (e *Engine) repeatExplanations(ctx context.Context, profile model.Profile, explanation string) []string {
	texts := []string{explanation}
	fresh, ok := e.scorer.(gateway.FreshScorer)

	for i := 1; i < e.cfg.Analysis.RepeatCalls; i++ {
		var res *gateway.Result
		var err error
		if ok {
			res, err = fresh.ScoreFresh(ctx, profile)
		} else {
			res, err = e.scorer.Score(ctx, profile)
		}
		if err != nil || res.Explanation == "" {
			continue
		}
		texts = append(texts, res.Explanation)
	}
	return texts
}

// analyze runs the eight dimensions. Each is independent: one dimension's
// flags never alter another's score, only the aggregate combines them.
func (e *Engine) analyze(
	ctx context.Context,
	profile model.Profile,
	explanation string,
	table model.FactTable,
	surrogateModel *model.SurrogateModel,
	ranking model.FeatureRanking,
	baselineScore float64,
	repeats []string,
) ([]model.DimensionScore, []model.ClaimVerdict) {
	faith, verdicts := analyze.NewFaithfulness().Analyze(explanation, table)

	alignment := analyze.AnalyzeAlignment(explanation, ranking)
	if surrogateModel.FitQuality < e.cfg.Analysis.LowFidelityThreshold {
		alignment.Flags = append(alignment.Flags, model.FlagLowFidelity)
	}

	dimensions := []model.DimensionScore{
		faith,
		alignment,
		analyze.AnalyzeSpecificity(explanation),
		analyze.AnalyzeCompleteness(explanation, ranking, e.cfg.Analysis.ImportanceThreshold),
		analyze.NewConsistency(e.similarity).Analyze(ctx, repeats),
		analyze.NewCounterfactual(e.scorer, e.cfg.Analysis).Analyze(ctx, profile, baselineScore),
		analyze.AnalyzeCompliance(explanation),
		analyze.AnalyzeReadability(explanation),
	}
	return dimensions, verdicts
}

// IsFatal reports whether an assessment error is one of the run-aborting
// kinds as opposed to an environmental failure worth retrying elsewhere
func IsFatal(err error) bool {
	var malformed *facts.MalformedProfileError
	var insufficient *surrogate.InsufficientSamplesError
	return errors.As(err, &malformed) || errors.As(err, &insufficient)
}
