package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField is returned when a record lacks a field its kind requires.
	ErrMissingField = errors.New("missing field")
	// ErrNegativeWeight rejects records whose selection weight is below zero.
	ErrNegativeWeight = errors.New("negative weight")
	// ErrOutOfRange rejects colour channels outside [0,1] and inverse Julia
	// parameters outside their declared ranges.
	ErrOutOfRange = errors.New("value out of range")
)

// enforcedRange reports whether the declared range of field id is part of
// the data format rather than only a slider range.
func enforcedRange(k Kind, id string) bool {
	if strings.HasPrefix(id, "base_color.") {
		return true
	}
	return k == KindInverseJulia && (id == "r" || id == "theta")
}

// MarshalVariant encodes v as a discriminated record:
//
//	{"kind": "affine", "a": 0.5, ..., "base_color": {"r": 1, "g": 0, "b": 0}, "weight": 1}
func MarshalVariant(v Variant) ([]byte, error) {
	if v == nil {
		return nil, errors.New("marshal nil variant")
	}
	rec := map[string]any{"kind": v.Kind().Tag()}
	for _, f := range v.Fields() {
		put(rec, strings.Split(f.ID, "."), f.Value)
	}
	return json.Marshal(rec)
}

func put(m map[string]any, path []string, v float32) {
	if len(path) == 1 {
		m[path[0]] = v
		return
	}
	child, ok := m[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[path[0]] = child
	}
	put(child, path[1:], v)
}

// UnmarshalVariant decodes a record written by MarshalVariant. Every field
// the kind exposes is required; colours and inverse Julia parameters must
// lie in their ranges.
func UnmarshalVariant(data []byte) (Variant, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	tagRaw, ok := raw["kind"]
	if !ok {
		return nil, fmt.Errorf("%w: kind", ErrMissingField)
	}
	var tag string
	if err := json.Unmarshal(tagRaw, &tag); err != nil {
		return nil, fmt.Errorf("kind: %w", err)
	}
	kind, err := ParseKind(tag)
	if err != nil {
		return nil, err
	}

	v := Zero(kind)
	for _, f := range v.Fields() {
		val, err := lookup(raw, strings.Split(f.ID, "."))
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, f.ID, err)
		}
		if enforcedRange(kind, f.ID) && (val < f.Min || val > f.Max) {
			return nil, fmt.Errorf("%s %s: %w: %v not in [%v, %v]", kind, f.ID, ErrOutOfRange, val, f.Min, f.Max)
		}
		if v, err = v.WithField(f.ID, val); err != nil {
			return nil, err
		}
	}
	if v.Attrs().Weight < 0 {
		return nil, fmt.Errorf("%s: %w", kind, ErrNegativeWeight)
	}
	return v, nil
}

func lookup(m map[string]json.RawMessage, path []string) (float32, error) {
	raw, ok := m[path[0]]
	if !ok || string(raw) == "null" {
		return 0, ErrMissingField
	}
	if len(path) > 1 {
		var child map[string]json.RawMessage
		if err := json.Unmarshal(raw, &child); err != nil {
			return 0, err
		}
		return lookup(child, path[1:])
	}
	var v float32
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// MarshalJSON encodes the collection as an array of variant records.
func (c *Collection) MarshalJSON() ([]byte, error) {
	recs := make([]json.RawMessage, len(c.variants))
	for i, v := range c.variants {
		b, err := MarshalVariant(v)
		if err != nil {
			return nil, fmt.Errorf("transform %d: %w", i, err)
		}
		recs[i] = b
	}
	return json.Marshal(recs)
}

// UnmarshalJSON decodes an array of variant records. An empty array is rejected.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var recs []json.RawMessage
	if err := json.Unmarshal(data, &recs); err != nil {
		return err
	}
	if len(recs) == 0 {
		return ErrEmptyCollection
	}
	vs := make([]Variant, len(recs))
	for i, rec := range recs {
		v, err := UnmarshalVariant(rec)
		if err != nil {
			return fmt.Errorf("transform %d: %w", i, err)
		}
		vs[i] = v
	}
	c.variants = vs
	return nil
}
