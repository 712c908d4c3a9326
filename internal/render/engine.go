// Package render evaluates a keyframe set with the chaos game and
// rasterizes the visited points.
package render

import (
	"context"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/ifs-editor/internal/keyframe"
	"github.com/iburimskiy/ifs-editor/internal/transform"
)

// Params are the per-render inputs besides the keyframes.
type Params struct {
	Width, Height int
	NumIterations int
	NumPoints     int
	// Frame selects the interpolated IFS, see keyframe.Coordinator.Interpolate.
	Frame int
}

// SaveScale is the hit count at which a pixel saturates: the mean number
// of samples per pixel, at least 1. Preview and export both use it.
func SaveScale(p Params) int {
	area := p.Width * p.Height
	if area <= 0 {
		return 1
	}
	return max(1, (p.NumPoints*p.NumIterations)/area)
}

// Engine produces a fresh raster for the keyframes.
type Engine interface {
	Render(ctx context.Context, kf *keyframe.Coordinator, p Params) (*Raster, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, kf *keyframe.Coordinator, p Params) (*Raster, error)

func (f EngineFunc) Render(ctx context.Context, kf *keyframe.Coordinator, p Params) (*Raster, error) {
	return f(ctx, kf, p)
}

// Chaos is the chaos-game engine. Output is deterministic for a given
// Seed, keyframe set and Params.
type Chaos struct {
	Seed uint64
	// Extent is the half width of the plotted square of the plane.
	// Zero means 2.
	Extent float64
	// Ease blends keyframes; nil means linear.
	Ease ease.TweenFunc
}

// ctxCheckEvery is how many starting points are traced between context checks.
const ctxCheckEvery = 64

func (c *Chaos) Render(ctx context.Context, kf *keyframe.Coordinator, p Params) (*Raster, error) {
	ifs := kf.Interpolate(p.Frame, c.Ease)
	variants := make([]transform.Variant, 0, ifs.Len())
	cumulative := make([]float64, 0, ifs.Len())
	var total float64
	for _, v := range ifs.All() {
		total += float64(v.Attrs().Weight)
		variants = append(variants, v)
		cumulative = append(cumulative, total)
	}

	extent := c.Extent
	if extent == 0 {
		extent = 2
	}
	rng := rand.New(rand.NewPCG(c.Seed, uint64(p.Frame)))
	pick := func() transform.Variant {
		if total <= 0 {
			return variants[rng.IntN(len(variants))]
		}
		u := rng.Float64() * total
		for i, w := range cumulative {
			if u < w {
				return variants[i]
			}
		}
		return variants[len(variants)-1]
	}

	n := p.Width * p.Height
	hits := make([]uint32, n)
	acc := make([]float32, n*3)

	for i := 0; i < p.NumPoints; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		z := complex(rng.Float64()*2-1, rng.Float64()*2-1)
		col := transform.Color{R: 0.5, G: 0.5, B: 0.5}
		for j := 0; j < p.NumIterations; j++ {
			t := pick()
			z = t.Apply(z, rng)
			if cmplx.IsNaN(z) || cmplx.IsInf(z) {
				break
			}
			base := t.Attrs().BaseColor
			col = transform.Color{R: (col.R + base.R) / 2, G: (col.G + base.G) / 2, B: (col.B + base.B) / 2}

			x := int(math.Floor((real(z) + extent) / (2 * extent) * float64(p.Width)))
			y := int(math.Floor((extent - imag(z)) / (2 * extent) * float64(p.Height)))
			if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
				continue
			}
			k := y*p.Width + x
			hits[k]++
			acc[k*3] += col.R
			acc[k*3+1] += col.G
			acc[k*3+2] += col.B
		}
	}

	return tonemap(hits, acc, p.Width, p.Height, SaveScale(p)), nil
}

// tonemap averages the accumulated colour per pixel and scales it by the
// pixel's hit density relative to scale.
func tonemap(hits []uint32, acc []float32, width, height, scale int) *Raster {
	r := NewRaster(width, height)
	for k, h := range hits {
		if h == 0 {
			continue
		}
		density := min(1, float32(h)/float32(scale))
		for ch := 0; ch < 3; ch++ {
			v := acc[k*3+ch] / float32(h) * density
			r.Pix[k*3+ch] = byte(min(255, v*255+0.5))
		}
	}
	return r
}
