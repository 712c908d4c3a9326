package transform

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrInvalidIndex is returned for out-of-range indices and for a
	// delete that would leave the collection empty.
	ErrInvalidIndex = errors.New("invalid transform index")
	// ErrEmptyCollection is returned when building a collection with no variants.
	ErrEmptyCollection = errors.New("collection needs at least one transform")
)

// Collection is the ordered list of variants forming one IFS. The index
// of a variant identifies it across frames and keyframes. A collection
// never becomes empty.
type Collection struct {
	variants []Variant
}

// NewCollection builds a collection from vs. At least one variant is required.
func NewCollection(vs ...Variant) (*Collection, error) {
	if len(vs) == 0 {
		return nil, ErrEmptyCollection
	}
	for i, v := range vs {
		if v == nil {
			return nil, fmt.Errorf("transform %d: nil variant", i)
		}
	}
	return &Collection{variants: append([]Variant(nil), vs...)}, nil
}

// Len returns the number of transforms.
func (c *Collection) Len() int {
	return len(c.variants)
}

// Add appends v.
func (c *Collection) Add(v Variant) {
	c.variants = append(c.variants, v)
}

// CanDelete reports whether Delete(i) would succeed.
func (c *Collection) CanDelete(i int) bool {
	return i >= 0 && i < len(c.variants) && len(c.variants) > 1
}

// Delete removes the variant at i and shifts later variants down.
func (c *Collection) Delete(i int) error {
	if !c.CanDelete(i) {
		return fmt.Errorf("%w: delete %d of %d", ErrInvalidIndex, i, len(c.variants))
	}
	c.variants = append(c.variants[:i], c.variants[i+1:]...)
	return nil
}

// Get returns the variant at i.
func (c *Collection) Get(i int) (Variant, error) {
	if i < 0 || i >= len(c.variants) {
		return nil, fmt.Errorf("%w: get %d of %d", ErrInvalidIndex, i, len(c.variants))
	}
	return c.variants[i], nil
}

// Set replaces the variant at i without changing the structure.
func (c *Collection) Set(i int, v Variant) error {
	if i < 0 || i >= len(c.variants) {
		return fmt.Errorf("%w: set %d of %d", ErrInvalidIndex, i, len(c.variants))
	}
	if v == nil {
		return fmt.Errorf("set %d: nil variant", i)
	}
	c.variants[i] = v
	return nil
}

// All iterates over index/variant pairs in order.
func (c *Collection) All() iter.Seq2[int, Variant] {
	return func(yield func(int, Variant) bool) {
		for i, v := range c.variants {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Kinds returns the kind of every variant in order.
func (c *Collection) Kinds() []Kind {
	out := make([]Kind, len(c.variants))
	for i, v := range c.variants {
		out[i] = v.Kind()
	}
	return out
}

// TotalWeight sums the selection weights.
func (c *Collection) TotalWeight() float64 {
	var sum float64
	for _, v := range c.variants {
		sum += float64(v.Attrs().Weight)
	}
	return sum
}

// Clone returns an independent copy. Variants are values, so a shallow
// copy of the slice is enough.
func (c *Collection) Clone() *Collection {
	return &Collection{variants: append([]Variant(nil), c.variants...)}
}
