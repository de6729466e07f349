package model

import (
	"fmt"
	"sort"
)

// Fact is one canonical attribute value used as ground truth for claim
// verification. Numeric facts are unit-normalized (currency as plain dollars,
// percentages as 0-1 ratios, durations as years); categorical facts are
// case-folded.
type Fact struct {
	Name string    `json:"name"`
	Type ValueType `json:"type"`
	Num  float64   `json:"num,omitempty"`
	Str  string    `json:"str,omitempty"`
}

// Value returns the fact as a typed value
func (f Fact) Value() Value {
	if f.Type == ValueNumeric {
		return Num(f.Num)
	}
	return Value{Type: f.Type, Str: f.Str}
}

// FactTable maps attribute name -> canonical fact. One per profile.
type FactTable map[string]Fact

// Get returns the fact for an attribute
func (t FactTable) Get(name string) (Fact, bool) {
	f, ok := t[name]
	return f, ok
}

// Names returns all fact names in sorted order
func (t FactTable) Names() []string {
	names := make([]string, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ClaimType categorizes the nature of an extracted claim
type ClaimType string

const (
	ClaimNumeric     ClaimType = "numeric"
	ClaimCategorical ClaimType = "categorical"
)

// Claim is a factual assertion extracted from an explanation text
type Claim struct {
	Span      string    `json:"span"`                // text span the claim came from
	Feature   string    `json:"feature"`             // attribute the claim is about
	Type      ClaimType `json:"type"`                //
	Num       float64   `json:"num,omitempty"`       // claimed numeric value (unit-normalized)
	Str       string    `json:"str,omitempty"`       // claimed category
	Heuristic string    `json:"heuristic,omitempty"` // which extraction rule matched
}

// VerdictKind classifies a claim against the fact table
type VerdictKind string

const (
	VerdictSupported    VerdictKind = "supported"
	VerdictContradicted VerdictKind = "contradicted"
	VerdictNotInInput   VerdictKind = "not_in_input"
	VerdictHallucinated VerdictKind = "hallucinated"
)

// ClaimVerdict is the verification result for one claim. Every claim maps to
// exactly one verdict.
type ClaimVerdict struct {
	Claim  Claim       `json:"claim"`
	Kind   VerdictKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
}

func (v ClaimVerdict) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Claim.Feature, v.Kind, v.Detail)
}

// IsCritical reports whether the verdict must be surfaced to the aggregate
// scorer regardless of the numeric faithfulness score
func (v ClaimVerdict) IsCritical() bool {
	return v.Kind == VerdictContradicted || v.Kind == VerdictHallucinated
}
