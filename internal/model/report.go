package model

import "time"

// Dimension identifies one explanation quality dimension
type Dimension string

const (
	DimFaithfulness   Dimension = "faithfulness"
	DimAlignment      Dimension = "surrogate_alignment"
	DimSpecificity    Dimension = "specificity"
	DimCompleteness   Dimension = "completeness"
	DimConsistency    Dimension = "consistency"
	DimCounterfactual Dimension = "counterfactual"
	DimCompliance     Dimension = "compliance"
	DimReadability    Dimension = "readability"
)

// Flags attached to dimension scores
const (
	FlagLowFidelity              = "low_fidelity"
	FlagVacuousExplanation       = "vacuous_explanation"
	FlagCriticalClaims           = "critical_claims"
	FlagMissingPositives         = "missing_positives"
	FlagMissingNegatives         = "missing_negatives"
	FlagInsufficientObservations = "insufficient_observations"
	FlagNoHighImpact             = "no_high_impact_perturbations"
	FlagLexicalFallback          = "lexical_fallback"
	FlagEmptyRanking             = "empty_ranking"
)

// DimensionScore is one independently computed quality dimension result.
// Value is always in [0,1]. Data carries the transparent inputs behind the
// score so every number in a report can be traced back to its formula.
type DimensionScore struct {
	Dimension Dimension              `json:"dimension"`
	Value     float64                `json:"value"`
	Flags     []string               `json:"flags,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// HasFlag reports whether a flag is set on the score
func (s DimensionScore) HasFlag(name string) bool {
	for _, f := range s.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// SurrogateModel is the weighted linear approximation of the scoring
// function around one decision. FitQuality is the weighted R² against the
// sample set the model was fit on, the caller's confidence signal.
type SurrogateModel struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	FitQuality   float64            `json:"fit_quality"`
	SampleCount  int                `json:"sample_count"`
}

// Feature importance directions
const (
	DirectionPositive = "positive driver"
	DirectionNegative = "negative driver"
)

// RankedFeature is one entry of a feature ranking
type RankedFeature struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Direction  string  `json:"direction"`
}

// FeatureRanking is an ordered sequence of features by |importance| desc
type FeatureRanking []RankedFeature

// Features returns the ranked feature names in order
func (r FeatureRanking) Features() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Feature
	}
	return names
}

// RunDiagnostics records the partial state of a run for auditing, including
// runs that end in a fatal error
type RunDiagnostics struct {
	SamplesRequested     int     `json:"samples_requested"`
	SamplesScored        int     `json:"samples_scored"`
	SamplesDropped       int     `json:"samples_dropped"`
	MeanSimilarityWeight float64 `json:"mean_similarity_weight"`
	RepeatObservations   int     `json:"repeat_observations"`
	Seeded               bool    `json:"seeded"`
}

// QualityReport is the terminal artifact of one explanation-quality run.
// Created once, immutable, returned to the caller.
type QualityReport struct {
	Subject         string           `json:"subject"`
	AssessedAt      time.Time        `json:"assessed_at"`
	Explanation     string           `json:"explanation"`
	BaselineScore   float64          `json:"baseline_score"` // canonical 0-100 scale
	Classification  string           `json:"classification"`
	Surrogate       SurrogateModel   `json:"surrogate"`
	Ranking         FeatureRanking   `json:"ranking"`
	Dimensions      []DimensionScore `json:"dimensions"`
	Verdicts        []ClaimVerdict   `json:"verdicts,omitempty"`
	CompliancePass  bool             `json:"compliance_pass"`
	FinalScore      float64          `json:"final_score"` // 0-100
	QualityLevel    string           `json:"quality_level"`
	Recommendations []string         `json:"recommendations,omitempty"`
	Diagnostics     RunDiagnostics   `json:"diagnostics"`
}

// Dimension returns the score for one dimension
func (r *QualityReport) Dimension(d Dimension) (DimensionScore, bool) {
	for _, s := range r.Dimensions {
		if s.Dimension == d {
			return s, true
		}
	}
	return DimensionScore{}, false
}

// Quality level bands on the 0-100 scale
const (
	LevelExcellent = "excellent"
	LevelGood      = "good"
	LevelFair      = "fair"
	LevelPoor      = "poor"
)

// QualityLevelFor maps a final score to its quality band
func QualityLevelFor(score float64) string {
	switch {
	case score >= 90:
		return LevelExcellent
	case score >= 80:
		return LevelGood
	case score >= 70:
		return LevelFair
	default:
		return LevelPoor
	}
}
