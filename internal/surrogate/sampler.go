// Package surrogate fits a locally faithful linear approximation of the
// scoring function around one decision.
package surrogate

import (
	"math"
	"math/rand"
	"time"

	"github.com/credlens/credlens/internal/model"
)

// PerturbedSample is one synthetic neighbor of the reference profile.
// Weight decays with distance from the reference and is always in (0,1].
type PerturbedSample struct {
	Profile model.Profile
	Weight  float64
}

// ScoredSample is a perturbed sample plus the observed collaborator score
type ScoredSample struct {
	PerturbedSample
	Score float64
}

// Sampler generates weighted neighbor profiles around a reference profile
type Sampler struct {
	ref model.Profile
	cfg model.SamplingConfig
	rng *rand.Rand
}

// NewSampler creates a sampler for one reference profile. With a nonzero
// seed sampling is reproducible; with seed 0 a time-based source is used and
// results vary run to run.
func NewSampler(ref model.Profile, cfg model.SamplingConfig) *Sampler {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{ref: ref, cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Sample draws n perturbed neighbors of the reference profile
func (s *Sampler) Sample(n int) []PerturbedSample {
	samples := make([]PerturbedSample, 0, n)
	for i := 0; i < n; i++ {
		p := s.perturb()
		d := Distance(s.ref, p)
		samples = append(samples, PerturbedSample{
			Profile: p,
			Weight:  Kernel(d, s.cfg.Bandwidth),
		})
	}
	return samples
}

// perturb applies Gaussian noise to numeric attributes (scale drawn
// uniformly from the configured range, proportional to the attribute's
// magnitude) and flips categorical attributes with fixed probability.
func (s *Sampler) perturb() model.Profile {
	p := s.ref
	for _, name := range s.ref.Names() {
		spec, ok := model.AttributeByName(name)
		if !ok {
			continue
		}
		v, _ := s.ref.Get(name)

		switch spec.Type {
		case model.ValueNumeric:
			if v.Type != model.ValueNumeric {
				continue
			}
			scale := s.cfg.NoiseScaleMin + s.rng.Float64()*(s.cfg.NoiseScaleMax-s.cfg.NoiseScaleMin)
			mag := math.Abs(v.Num)
			if mag == 0 {
				// Zero-valued attributes still need a nonzero noise floor
				mag = spec.Range() * 0.01
			}
			next := v.Num + s.rng.NormFloat64()*scale*mag
			next = clamp(next, spec.Min, spec.Max)
			p = p.With(name, model.Num(next))
		case model.ValueCategorical:
			if len(spec.Categories) < 2 || s.rng.Float64() >= s.cfg.FlipProb {
				continue
			}
			p = p.With(name, model.Cat(s.pickOther(spec, v.Str)))
		}
	}
	return p
}

// pickOther picks a uniformly random category different from current
func (s *Sampler) pickOther(spec model.AttributeSpec, current string) string {
	others := make([]string, 0, len(spec.Categories)-1)
	for _, c := range spec.Categories {
		if c != current {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return current
	}
	return others[s.rng.Intn(len(others))]
}

// Distance is the normalized distance between two profiles: root mean
// square of per-attribute distances, numeric attributes scaled by their
// schema range and categorical attributes contributing 0 or 1.
func Distance(a, b model.Profile) float64 {
	var sum float64
	var n int
	for _, spec := range model.Attributes() {
		va, oka := a.Get(spec.Name)
		vb, okb := b.Get(spec.Name)
		if !oka || !okb {
			continue
		}
		switch spec.Type {
		case model.ValueNumeric:
			if va.Type != model.ValueNumeric || vb.Type != model.ValueNumeric {
				continue
			}
			d := math.Abs(va.Num-vb.Num) / spec.Range()
			sum += d * d
			n++
		case model.ValueCategorical:
			if va.Str != vb.Str {
				sum++
			}
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// Kernel converts a distance into a similarity weight via an exponential
// (RBF) kernel: exp(-d² / (2·bandwidth²)). The weight is strictly
// non-increasing in distance, which is the contract that keeps the
// surrogate fit locally faithful.
func Kernel(distance, bandwidth float64) float64 {
	if bandwidth <= 0 {
		bandwidth = 0.75
	}
	return math.Exp(-(distance * distance) / (2 * bandwidth * bandwidth))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
