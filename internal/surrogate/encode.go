package surrogate

import (
	"fmt"
	"sort"

	"github.com/credlens/credlens/internal/model"
)

// Encoder maps profiles to fixed-length feature vectors. Numeric attributes
// encode directly; categorical attributes one-hot encode over the category
// universe actually observed in the sample set.
type Encoder struct {
	numeric     []string
	categorical []catColumn
}

type catColumn struct {
	attr     string
	category string
}

// NewEncoder builds an encoder from the sample set. Column order is
// deterministic (sorted attribute then category names) so the fitted
// coefficients do not depend on sample arrival order.
func NewEncoder(samples []ScoredSample) *Encoder {
	numericSet := map[string]bool{}
	catSet := map[string]map[string]bool{}

	for _, s := range samples {
		for _, name := range s.Profile.Names() {
			spec, ok := model.AttributeByName(name)
			if !ok {
				continue
			}
			v, _ := s.Profile.Get(name)
			switch spec.Type {
			case model.ValueNumeric:
				if v.Type == model.ValueNumeric {
					numericSet[name] = true
				}
			case model.ValueCategorical:
				if catSet[name] == nil {
					catSet[name] = map[string]bool{}
				}
				catSet[name][v.Str] = true
			}
		}
	}

	e := &Encoder{}
	for name := range numericSet {
		e.numeric = append(e.numeric, name)
	}
	sort.Strings(e.numeric)

	attrs := make([]string, 0, len(catSet))
	for name := range catSet {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)
	for _, attr := range attrs {
		cats := make([]string, 0, len(catSet[attr]))
		for c := range catSet[attr] {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			e.categorical = append(e.categorical, catColumn{attr: attr, category: c})
		}
	}
	return e
}

// Width returns the feature vector length
func (e *Encoder) Width() int {
	return len(e.numeric) + len(e.categorical)
}

// FeatureNames returns the column names in vector order. One-hot columns
// are named attr=category.
func (e *Encoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	names = append(names, e.numeric...)
	for _, c := range e.categorical {
		names = append(names, fmt.Sprintf("%s=%s", c.attr, c.category))
	}
	return names
}

// Vector encodes one profile
func (e *Encoder) Vector(p model.Profile) []float64 {
	vec := make([]float64, 0, e.Width())
	for _, name := range e.numeric {
		v, ok := p.Get(name)
		if ok && v.Type == model.ValueNumeric {
			spec, _ := model.AttributeByName(name)
			// Scale to the schema range so coefficients are comparable
			// across attributes with very different magnitudes
			vec = append(vec, (v.Num-spec.Min)/spec.Range())
		} else {
			vec = append(vec, 0)
		}
	}
	for _, c := range e.categorical {
		v, ok := p.Get(c.attr)
		if ok && v.Str == c.category {
			vec = append(vec, 1)
		} else {
			vec = append(vec, 0)
		}
	}
	return vec
}
