// Package keyframe keeps the transform collections of an animation in
// lockstep. Index i of every keyframe denotes the same logical transform,
// so every structural change goes through the Coordinator.
package keyframe

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/iburimskiy/ifs-editor/internal/transform"
)

var (
	// ErrMisaligned is returned when keyframes do not share one length.
	ErrMisaligned = errors.New("keyframes are not aligned")
	// ErrNoKeyframe is returned for a keyframe index out of range.
	ErrNoKeyframe = errors.New("no such keyframe")
)

// Coordinator owns the keyframe collections and the step counts between
// consecutive keyframes.
type Coordinator struct {
	keyframes []*transform.Collection
	steps     []int
}

// New takes ownership of keyframes. steps[i] is the number of frames
// between keyframe i and i+1, so len(steps) must be len(keyframes)-1.
func New(keyframes []*transform.Collection, steps []int) (*Coordinator, error) {
	if len(keyframes) == 0 {
		return nil, fmt.Errorf("%w: no keyframes", ErrNoKeyframe)
	}
	if len(steps) != len(keyframes)-1 {
		return nil, fmt.Errorf("got %d step counts for %d keyframes", len(steps), len(keyframes))
	}
	for i, s := range steps {
		if s < 0 {
			return nil, fmt.Errorf("step count %d is negative", i)
		}
	}
	c := &Coordinator{
		keyframes: append([]*transform.Collection(nil), keyframes...),
		steps:     append([]int(nil), steps...),
	}
	if !c.Aligned() {
		return nil, ErrMisaligned
	}
	return c, nil
}

// Len returns the number of keyframes.
func (c *Coordinator) Len() int {
	return len(c.keyframes)
}

// Width returns the shared number of transforms per keyframe.
func (c *Coordinator) Width() int {
	return c.keyframes[0].Len()
}

// Aligned reports whether every keyframe has the same length.
func (c *Coordinator) Aligned() bool {
	for _, k := range c.keyframes[1:] {
		if k.Len() != c.keyframes[0].Len() {
			return false
		}
	}
	return true
}

// Keyframe returns keyframe i for reading. Callers must not change its
// structure; use the Coordinator methods instead.
func (c *Coordinator) Keyframe(i int) (*transform.Collection, error) {
	if i < 0 || i >= len(c.keyframes) {
		return nil, fmt.Errorf("%w: %d", ErrNoKeyframe, i)
	}
	return c.keyframes[i], nil
}

// StepCounts returns a copy of the step counts.
func (c *Coordinator) StepCounts() []int {
	return append([]int(nil), c.steps...)
}

// TotalFrames is the sum of all step counts.
func (c *Coordinator) TotalFrames() int {
	total := 0
	for _, s := range c.steps {
		total += s
	}
	return total
}

// AddToAll appends v to every keyframe.
func (c *Coordinator) AddToAll(v transform.Variant) {
	for _, k := range c.keyframes {
		k.Add(v)
	}
}

// DeleteFromAll removes index i from every keyframe. The guard is
// checked once against keyframe 0; on failure nothing changes.
func (c *Coordinator) DeleteFromAll(i int) error {
	if !c.keyframes[0].CanDelete(i) {
		return fmt.Errorf("%w: delete %d of %d", transform.ErrInvalidIndex, i, c.Width())
	}
	for _, k := range c.keyframes {
		if err := k.Delete(i); err != nil {
			return err
		}
	}
	return nil
}

// SetVariant edits the parameters of transform i in keyframe k.
func (c *Coordinator) SetVariant(k, i int, v transform.Variant) error {
	kf, err := c.Keyframe(k)
	if err != nil {
		return err
	}
	return kf.Set(i, v)
}

// ReplaceKeyframe swaps in a new collection for keyframe i. The length
// may differ from the other keyframes; call Reconcile before the tick ends.
func (c *Coordinator) ReplaceKeyframe(i int, col *transform.Collection) error {
	if i < 0 || i >= len(c.keyframes) {
		return fmt.Errorf("%w: %d", ErrNoKeyframe, i)
	}
	if col == nil {
		return fmt.Errorf("replace keyframe %d: nil collection", i)
	}
	c.keyframes[i] = col
	return nil
}

// RandomizeKeyframe replaces keyframe i with freshly sampled variants of
// the same kinds.
func (c *Coordinator) RandomizeKeyframe(i int, rng *rand.Rand) error {
	kf, err := c.Keyframe(i)
	if err != nil {
		return err
	}
	vs := make([]transform.Variant, 0, kf.Len())
	for _, v := range kf.All() {
		vs = append(vs, transform.Randomized(v, rng))
	}
	next, err := transform.NewCollection(vs...)
	if err != nil {
		return err
	}
	c.keyframes[i] = next
	return nil
}

// Reconcile restores lockstep against keyframe ref: longer keyframes are
// truncated and shorter ones are padded with copies of ref's variants.
// It reports whether anything had to change.
func (c *Coordinator) Reconcile(ref int) (bool, error) {
	base, err := c.Keyframe(ref)
	if err != nil {
		return false, err
	}
	changed := false
	for i, k := range c.keyframes {
		if i == ref || k.Len() == base.Len() {
			continue
		}
		changed = true
		for k.Len() > base.Len() {
			if err := k.Delete(k.Len() - 1); err != nil {
				return changed, err
			}
		}
		for j := k.Len(); j < base.Len(); j++ {
			v, _ := base.Get(j)
			k.Add(v)
		}
	}
	return changed, nil
}
