package model

import "time"

// Config holds the complete engine configuration
type Config struct {
	Gateway     GatewayConfig     `yaml:"gateway" mapstructure:"gateway"`
	Sampling    SamplingConfig    `yaml:"sampling" mapstructure:"sampling"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Similarity  SimilarityConfig  `yaml:"similarity" mapstructure:"similarity"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// GatewayConfig configures the external scoring collaborator
type GatewayConfig struct {
	URL        string        `yaml:"url" mapstructure:"url"`
	Username   string        `yaml:"username" mapstructure:"username"`
	Password   string        `yaml:"password" mapstructure:"password"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RatePerSec float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst      int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// SamplingConfig configures the perturbation sampler and surrogate fit.
// Seed 0 means unseeded: sampling varies run to run and only the seeded case
// guarantees reproducible rankings and dimension scores.
type SamplingConfig struct {
	Samples       int     `yaml:"samples" mapstructure:"samples"`
	MinSamples    int     `yaml:"min_samples" mapstructure:"min_samples"`
	NoiseScaleMin float64 `yaml:"noise_scale_min" mapstructure:"noise_scale_min"`
	NoiseScaleMax float64 `yaml:"noise_scale_max" mapstructure:"noise_scale_max"`
	FlipProb      float64 `yaml:"flip_prob" mapstructure:"flip_prob"`
	Bandwidth     float64 `yaml:"bandwidth" mapstructure:"bandwidth"`
	Seed          int64   `yaml:"seed" mapstructure:"seed"`
}

// AnalysisConfig configures the text analyzers
type AnalysisConfig struct {
	TopK                    int      `yaml:"top_k" mapstructure:"top_k"`
	ImportanceThreshold     float64  `yaml:"importance_threshold" mapstructure:"importance_threshold"`
	RepeatCalls             int      `yaml:"repeat_calls" mapstructure:"repeat_calls"`
	CounterfactualFeatures  []string `yaml:"counterfactual_features" mapstructure:"counterfactual_features"`
	CounterfactualDelta     float64  `yaml:"counterfactual_delta" mapstructure:"counterfactual_delta"`
	CounterfactualThreshold float64  `yaml:"counterfactual_threshold" mapstructure:"counterfactual_threshold"`
	LowFidelityThreshold    float64  `yaml:"low_fidelity_threshold" mapstructure:"low_fidelity_threshold"`
}

// SimilarityConfig configures the semantic similarity provider used by the
// consistency dimension. Empty provider means lexical token overlap only.
type SimilarityConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"`
	Model    string        `yaml:"model" mapstructure:"model"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ConcurrencyConfig bounds the scoring sweep
type ConcurrencyConfig struct {
	Workers     int           `yaml:"workers" mapstructure:"workers"`
	RunDeadline time.Duration `yaml:"run_deadline" mapstructure:"run_deadline"`
}

// CacheConfig configures the gateway response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			URL:        "http://localhost:8000",
			Timeout:    30 * time.Second,
			RatePerSec: 5,
			Burst:      5,
		},
		Sampling: SamplingConfig{
			Samples:       500,
			MinSamples:    10,
			NoiseScaleMin: 0.05,
			NoiseScaleMax: 0.15,
			FlipProb:      0.30,
			Bandwidth:     0.75,
		},
		Analysis: AnalysisConfig{
			TopK:                    10,
			ImportanceThreshold:     0.1,
			RepeatCalls:             5,
			CounterfactualFeatures:  []string{"income", "employment_status", "payment_defaults"},
			CounterfactualDelta:     0.20,
			CounterfactualThreshold: 10.0,
			LowFidelityThreshold:    0.5,
		},
		Similarity: SimilarityConfig{
			Model:   "text-embedding-3-small",
			Timeout: 15 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers:     8,
			RunDeadline: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
