// Package transform holds the IFS transform variants and the ordered
// collection that forms one IFS. Variants are plain values; editing a
// variant returns a modified copy.
package transform

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrUnknownField is returned by WithField for an id the variant does not expose.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownKind is returned when a kind name cannot be resolved.
	ErrUnknownKind = errors.New("unknown transform kind")
)

// Kind identifies one of the closed set of variant types.
type Kind uint8

const (
	KindNone Kind = iota
	KindLinear
	KindAffine
	KindMoebius
	KindInverseJulia
)

// Kinds lists every concrete kind in the order the editor offers them.
var Kinds = []Kind{KindLinear, KindAffine, KindMoebius, KindInverseJulia}

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "Linear"
	case KindAffine:
		return "Affine"
	case KindMoebius:
		return "Moebius"
	case KindInverseJulia:
		return "InverseJulia"
	}
	return "None"
}

// Tag is the discriminator written to the "kind" field of a serialized variant.
func (k Kind) Tag() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindAffine:
		return "affine"
	case KindMoebius:
		return "moebius"
	case KindInverseJulia:
		return "inverse_julia"
	}
	return ""
}

// ParseKind resolves a discriminator tag produced by Kind.Tag.
func ParseKind(tag string) (Kind, error) {
	for _, k := range Kinds {
		if k.Tag() == tag {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// Next returns the kind after k, wrapping around.
func (k Kind) Next() Kind {
	for i, c := range Kinds {
		if c == k {
			return Kinds[(i+1)%len(Kinds)]
		}
	}
	return Kinds[0]
}

// Color is a base color with channels in [0,1].
type Color struct {
	R, G, B float32
}

// Complex is a complex coefficient stored as two float32 parts.
type Complex struct {
	Re, Im float32
}

func (c Complex) c128() complex128 {
	return complex(float64(c.Re), float64(c.Im))
}

// Common carries the attributes every variant has.
type Common struct {
	BaseColor Color
	// Weight is the relative selection probability used by the render engine.
	Weight float32
}

// Attrs returns the shared attributes.
func (c Common) Attrs() Common { return c }

// Field describes one editable scalar of a variant. ID doubles as the
// dotted JSON path of the value in the serialized record.
type Field struct {
	ID       string
	Label    string
	Min, Max float32
	Value    float32
}

// Variant is one transform of an IFS.
type Variant interface {
	Kind() Kind
	Attrs() Common
	// Fields describes every editable scalar in display order.
	Fields() []Field
	// WithField returns a copy with the field id set to v. Values are
	// stored as given; range clamping belongs to the editing widget.
	WithField(id string, v float32) (Variant, error)
	// Apply maps a point of the plane. rng is used by multi-valued maps.
	Apply(z complex128, rng *rand.Rand) complex128

	isVariant()
}

type fieldRef struct {
	id, label string
	min, max  float32
	p         *float32
}

func commonRefs(c *Common) []fieldRef {
	return []fieldRef{
		{"base_color.r", "Red", 0, 1, &c.BaseColor.R},
		{"base_color.g", "Green", 0, 1, &c.BaseColor.G},
		{"base_color.b", "Blue", 0, 1, &c.BaseColor.B},
		{"weight", "Weight", 0, 10, &c.Weight},
	}
}

func complexRefs(name string, c *Complex) []fieldRef {
	return []fieldRef{
		{name + ".re", name + ".re", -1, 1, &c.Re},
		{name + ".im", name + ".im", -1, 1, &c.Im},
	}
}

func describe(refs []fieldRef) []Field {
	out := make([]Field, len(refs))
	for i, r := range refs {
		out[i] = Field{ID: r.id, Label: r.label, Min: r.min, Max: r.max, Value: *r.p}
	}
	return out
}

func assign(refs []fieldRef, id string, v float32) error {
	for _, r := range refs {
		if r.id == id {
			*r.p = v
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, id)
}
