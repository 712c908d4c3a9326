package transform

import (
	"math"
	"math/rand/v2"
)

// Zero returns the zero value of the given kind, or nil for KindNone.
func Zero(k Kind) Variant {
	switch k {
	case KindLinear:
		return Linear{}
	case KindAffine:
		return Affine{}
	case KindMoebius:
		return Moebius{}
	case KindInverseJulia:
		return InverseJulia{}
	}
	return nil
}

// Default returns the variant inserted by "add transform".
func Default(k Kind) Variant {
	common := Common{BaseColor: Color{R: 0.5, G: 0.5, B: 0.5}, Weight: 1}
	switch k {
	case KindLinear:
		return Linear{A: 0.5, D: 0.5, Common: common}
	case KindAffine:
		return Affine{A: 0.5, D: 0.5, XShift: 0.5, Common: common}
	case KindMoebius:
		return Moebius{
			A:      Complex{Re: 1},
			B:      Complex{Re: 0.25},
			D:      Complex{Re: 1},
			C:      Complex{Im: 0.5},
			Common: common,
		}
	case KindInverseJulia:
		return InverseJulia{R: 1, Theta: math.Pi, Common: common}
	}
	return nil
}

// Random samples a variant of kind k with every field drawn uniformly
// from its editing range. Weights are kept away from zero so a freshly
// randomized transform is always selectable.
func Random(k Kind, rng *rand.Rand) Variant {
	v := Zero(k)
	if v == nil {
		return nil
	}
	return Randomized(v, rng)
}

// Randomized returns a variant of the same kind as v with freshly sampled parameters.
func Randomized(v Variant, rng *rand.Rand) Variant {
	for _, f := range v.Fields() {
		lo, hi := f.Min, f.Max
		if f.ID == "weight" {
			lo, hi = 0.1, 1
		}
		next, err := v.WithField(f.ID, lo+rng.Float32()*(hi-lo))
		if err != nil {
			continue
		}
		v = next
	}
	return v
}
