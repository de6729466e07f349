package engine

import (
	"context"
	"sort"

	"github.com/credlens/credlens/internal/analyze"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/worker"
)

// BatchItem is one applicant to assess
type BatchItem struct {
	Subject     string
	Profile     model.Profile
	Explanation string
}

// BatchResult pairs an item with its outcome
type BatchResult struct {
	Subject string
	Report  *model.QualityReport
	Err     error
}

func (r *BatchResult) GetError() error { return r.Err }

// BatchSummary aggregates a corpus of quality reports
type BatchSummary struct {
	Assessed          int                         `json:"assessed"`
	Failed            int                         `json:"failed"`
	MeanScore         float64                     `json:"mean_score"`
	MedianScore       float64                     `json:"median_score"`
	MinScore          float64                     `json:"min_score"`
	MaxScore          float64                     `json:"max_score"`
	LevelDistribution map[string]int              `json:"level_distribution"`
	ComplianceRate    float64                     `json:"compliance_rate"`
	DimensionAverages map[model.Dimension]float64 `json:"dimension_averages"`
	MeanFitQuality    float64                     `json:"mean_fit_quality"`
	MinFitQuality     float64                     `json:"min_fit_quality"`
	Recommendations   []string                    `json:"recommendations,omitempty"`
}

// batchJob runs one full assessment inside the pool
type batchJob struct {
	engine *Engine
	item   BatchItem
}

func (j *batchJob) Execute(ctx context.Context) worker.Result {
	report, err := j.engine.Assess(ctx, j.item.Subject, j.item.Profile, j.item.Explanation)
	return &BatchResult{Subject: j.item.Subject, Report: report, Err: err}
}

// AssessBatch assesses every item and aggregates the corpus. Per-item
// failures are recorded in the results, never aborting the batch. The
// actual request rate against the collaborator stays bounded by the shared
// gateway limiter regardless of batch concurrency.
func (e *Engine) AssessBatch(ctx context.Context, items []BatchItem, concurrency int) ([]BatchResult, *BatchSummary) {
	pool := worker.NewPool(ctx, concurrency, len(items))
	pool.Start()
	for _, item := range items {
		pool.Submit(&batchJob{engine: e, item: item})
	}
	raw := pool.Wait()

	results := make([]BatchResult, 0, len(raw))
	for _, r := range raw {
		if br, ok := r.(*BatchResult); ok {
			results = append(results, *br)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Subject < results[j].Subject })

	return results, e.summarize(results)
}

// summarize computes the corpus-level aggregates over successful reports
func (e *Engine) summarize(results []BatchResult) *BatchSummary {
	summary := &BatchSummary{
		LevelDistribution: make(map[string]int),
		DimensionAverages: make(map[model.Dimension]float64),
	}

	var scores []float64
	var fitSum float64
	compliant := 0
	dimSums := make(map[model.Dimension]float64)
	dimCounts := make(map[model.Dimension]int)

	for _, r := range results {
		if r.Err != nil || r.Report == nil {
			summary.Failed++
			continue
		}
		rep := r.Report
		summary.Assessed++
		scores = append(scores, rep.FinalScore)
		summary.LevelDistribution[rep.QualityLevel]++
		if rep.CompliancePass {
			compliant++
		}
		fitSum += rep.Surrogate.FitQuality
		if summary.Assessed == 1 || rep.Surrogate.FitQuality < summary.MinFitQuality {
			summary.MinFitQuality = rep.Surrogate.FitQuality
		}
		for _, d := range rep.Dimensions {
			dimSums[d.Dimension] += d.Value
			dimCounts[d.Dimension]++
		}
	}

	if summary.Assessed == 0 {
		return summary
	}

	sort.Float64s(scores)
	summary.MinScore = scores[0]
	summary.MaxScore = scores[len(scores)-1]
	summary.MedianScore = median(scores)
	var sum float64
	for _, s := range scores {
		sum += s
	}
	summary.MeanScore = sum / float64(len(scores))
	summary.ComplianceRate = float64(compliant) / float64(summary.Assessed)
	summary.MeanFitQuality = fitSum / float64(summary.Assessed)

	averaged := make([]model.DimensionScore, 0, len(dimSums))
	for dim, total := range dimSums {
		avg := total / float64(dimCounts[dim])
		summary.DimensionAverages[dim] = avg
		averaged = append(averaged, model.DimensionScore{Dimension: dim, Value: avg})
	}
	summary.Recommendations = analyze.Recommendations(averaged,
		summary.MeanFitQuality, e.cfg.Analysis.LowFidelityThreshold)

	return summary
}

// median of an already sorted slice
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
