package keyframe

import (
	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/ifs-editor/internal/transform"
)

// Interpolate returns the IFS shown at the given global frame. Frames are
// counted from keyframe 0; frame TotalFrames() is the last keyframe.
// Each field is tweened with fn between the two surrounding keyframes.
// Where the two keyframes disagree on kind, the left variant is used as is.
func (c *Coordinator) Interpolate(frame int, fn ease.TweenFunc) *transform.Collection {
	if fn == nil {
		fn = ease.Linear
	}
	if frame <= 0 || len(c.keyframes) == 1 {
		return c.keyframes[0].Clone()
	}

	start := 0
	for s, n := range c.steps {
		if n == 0 || frame >= start+n {
			start += n
			continue
		}
		return blend(c.keyframes[s], c.keyframes[s+1], float32(frame-start), float32(n), fn)
	}
	return c.keyframes[len(c.keyframes)-1].Clone()
}

func blend(from, to *transform.Collection, t, d float32, fn ease.TweenFunc) *transform.Collection {
	out := from.Clone()
	for i, a := range from.All() {
		b, err := to.Get(i)
		if err != nil || b.Kind() != a.Kind() {
			continue
		}
		v := a
		bf := b.Fields()
		for j, f := range a.Fields() {
			next, err := v.WithField(f.ID, fn(t, f.Value, bf[j].Value-f.Value, d))
			if err != nil {
				continue
			}
			v = next
		}
		_ = out.Set(i, v)
	}
	return out
}
