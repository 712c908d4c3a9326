package transform

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
)

// Linear maps (x, y) to (ax+by, cx+dy).
type Linear struct {
	A, B, C, D float32
	Common
}

func (Linear) Kind() Kind { return KindLinear }
func (Linear) isVariant() {}

func (t *Linear) refs() []fieldRef {
	return append([]fieldRef{
		{"a", "a", -1, 1, &t.A},
		{"b", "b", -1, 1, &t.B},
		{"c", "c", -1, 1, &t.C},
		{"d", "d", -1, 1, &t.D},
	}, commonRefs(&t.Common)...)
}

func (t Linear) Fields() []Field { return describe(t.refs()) }

func (t Linear) WithField(id string, v float32) (Variant, error) {
	if err := assign(t.refs(), id, v); err != nil {
		return nil, err
	}
	return t, nil
}

func (t Linear) Apply(z complex128, _ *rand.Rand) complex128 {
	x, y := real(z), imag(z)
	return complex(
		float64(t.A)*x+float64(t.B)*y,
		float64(t.C)*x+float64(t.D)*y,
	)
}

// Affine is a Linear map followed by a translation.
type Affine struct {
	A, B, C, D     float32
	XShift, YShift float32
	Common
}

func (Affine) Kind() Kind { return KindAffine }
func (Affine) isVariant() {}

func (t *Affine) refs() []fieldRef {
	return append([]fieldRef{
		{"a", "a", -1, 1, &t.A},
		{"b", "b", -1, 1, &t.B},
		{"c", "c", -1, 1, &t.C},
		{"d", "d", -1, 1, &t.D},
		{"xshift", "xshift", -2, 2, &t.XShift},
		{"yshift", "yshift", -2, 2, &t.YShift},
	}, commonRefs(&t.Common)...)
}

func (t Affine) Fields() []Field { return describe(t.refs()) }

func (t Affine) WithField(id string, v float32) (Variant, error) {
	if err := assign(t.refs(), id, v); err != nil {
		return nil, err
	}
	return t, nil
}

func (t Affine) Apply(z complex128, _ *rand.Rand) complex128 {
	x, y := real(z), imag(z)
	return complex(
		float64(t.A)*x+float64(t.B)*y+float64(t.XShift),
		float64(t.C)*x+float64(t.D)*y+float64(t.YShift),
	)
}

// Moebius maps z to (az+b)/(cz+d).
type Moebius struct {
	A, B, C, D Complex
	Common
}

func (Moebius) Kind() Kind { return KindMoebius }
func (Moebius) isVariant() {}

func (t *Moebius) refs() []fieldRef {
	var refs []fieldRef
	refs = append(refs, complexRefs("a", &t.A)...)
	refs = append(refs, complexRefs("b", &t.B)...)
	refs = append(refs, complexRefs("c", &t.C)...)
	refs = append(refs, complexRefs("d", &t.D)...)
	return append(refs, commonRefs(&t.Common)...)
}

func (t Moebius) Fields() []Field { return describe(t.refs()) }

func (t Moebius) WithField(id string, v float32) (Variant, error) {
	if err := assign(t.refs(), id, v); err != nil {
		return nil, err
	}
	return t, nil
}

func (t Moebius) Apply(z complex128, _ *rand.Rand) complex128 {
	den := t.C.c128()*z + t.D.c128()
	if den == 0 {
		return 0
	}
	return (t.A.c128()*z + t.B.c128()) / den
}

// InverseJulia is one branch pair of the inverse of z -> z^2 + c with
// c = r*e^(i*theta).
type InverseJulia struct {
	R     float32
	Theta float32
	Common
}

func (InverseJulia) Kind() Kind { return KindInverseJulia }
func (InverseJulia) isVariant() {}

func (t *InverseJulia) refs() []fieldRef {
	return append([]fieldRef{
		{"r", "r", 0, 3, &t.R},
		{"theta", "theta", 0, 2 * math.Pi, &t.Theta},
	}, commonRefs(&t.Common)...)
}

func (t InverseJulia) Fields() []Field { return describe(t.refs()) }

func (t InverseJulia) WithField(id string, v float32) (Variant, error) {
	if err := assign(t.refs(), id, v); err != nil {
		return nil, err
	}
	return t, nil
}

func (t InverseJulia) Apply(z complex128, rng *rand.Rand) complex128 {
	c := cmplx.Rect(float64(t.R), float64(t.Theta))
	w := cmplx.Sqrt(z - c)
	if rng != nil && rng.IntN(2) == 1 {
		return -w
	}
	return w
}
