package model

import (
	"fmt"
	"sort"
)

// ValueType categorizes an attribute value
type ValueType string

const (
	ValueNumeric     ValueType = "numeric"
	ValueCategorical ValueType = "categorical"
	ValueText        ValueType = "text"
)

// Value is a typed attribute value
type Value struct {
	Type ValueType `json:"type"`
	Num  float64   `json:"num,omitempty"`
	Str  string    `json:"str,omitempty"`
}

// Num creates a numeric value
func Num(v float64) Value {
	return Value{Type: ValueNumeric, Num: v}
}

// Cat creates a categorical value
func Cat(s string) Value {
	return Value{Type: ValueCategorical, Str: s}
}

// Text creates a free-text value
func Text(s string) Value {
	return Value{Type: ValueText, Str: s}
}

// Equal compares two values of the same type
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	if v.Type == ValueNumeric {
		return v.Num == o.Num
	}
	return v.Str == o.Str
}

// Profile is an immutable applicant profile: attribute name -> typed value.
// It is the reference instance for one explanation-quality run.
type Profile struct {
	attrs map[string]Value
}

// NewProfile creates a profile from an attribute map (copied on construction)
func NewProfile(attrs map[string]Value) Profile {
	cp := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return Profile{attrs: cp}
}

// Get returns the value for an attribute
func (p Profile) Get(name string) (Value, bool) {
	v, ok := p.attrs[name]
	return v, ok
}

// Has reports whether the attribute is present
func (p Profile) Has(name string) bool {
	_, ok := p.attrs[name]
	return ok
}

// Names returns all attribute names in sorted order
func (p Profile) Names() []string {
	names := make([]string, 0, len(p.attrs))
	for k := range p.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of attributes
func (p Profile) Len() int {
	return len(p.attrs)
}

// With returns a copy of the profile with one attribute replaced
func (p Profile) With(name string, v Value) Profile {
	cp := make(map[string]Value, len(p.attrs)+1)
	for k, val := range p.attrs {
		cp[k] = val
	}
	cp[name] = v
	return Profile{attrs: cp}
}

// ProfileFromMap builds a profile from untyped input (e.g. decoded JSON/YAML).
// Numbers become numeric values; strings become categorical when the attribute
// is a known categorical, text otherwise.
func ProfileFromMap(m map[string]any) (Profile, error) {
	attrs := make(map[string]Value, len(m))
	for name, raw := range m {
		switch v := raw.(type) {
		case float64:
			attrs[name] = Num(v)
		case int:
			attrs[name] = Num(float64(v))
		case int64:
			attrs[name] = Num(float64(v))
		case string:
			if spec, ok := AttributeByName(name); ok && spec.Type == ValueCategorical {
				attrs[name] = Cat(v)
			} else {
				attrs[name] = Text(v)
			}
		case bool:
			if v {
				attrs[name] = Cat("yes")
			} else {
				attrs[name] = Cat("no")
			}
		case nil:
			// Absent attribute, skip
		default:
			return Profile{}, fmt.Errorf("attribute %q: unsupported value type %T", name, raw)
		}
	}
	return NewProfile(attrs), nil
}
