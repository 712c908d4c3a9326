package transform

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(a float32) Variant {
	return Linear{A: a, D: 1, Common: Common{Weight: 1}}
}

func collect(c *Collection) []Variant {
	var out []Variant
	for _, v := range c.All() {
		out = append(out, v)
	}
	return out
}

func TestNewCollectionRejectsEmpty(t *testing.T) {
	_, err := NewCollection()
	assert.ErrorIs(t, err, ErrEmptyCollection)
}

func TestDeleteLastRemainingFails(t *testing.T) {
	c, err := NewCollection(linear(1))
	require.NoError(t, err)

	err = c.Delete(0)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.Equal(t, 1, c.Len())
}

func TestDeleteOutOfRange(t *testing.T) {
	c, err := NewCollection(linear(1), linear(2))
	require.NoError(t, err)

	for _, i := range []int{-1, 2, 100} {
		assert.ErrorIs(t, c.Delete(i), ErrInvalidIndex, "index %d", i)
	}
	assert.Equal(t, 2, c.Len())
}

func TestDeleteShiftsThenAddAppends(t *testing.T) {
	x, y, z, w := linear(0.1), linear(0.2), linear(0.3), linear(0.4)
	c, err := NewCollection(x, y, z)
	require.NoError(t, err)

	require.NoError(t, c.Delete(1))
	assert.Equal(t, []Variant{x, z}, collect(c))

	c.Add(w)
	assert.Equal(t, []Variant{x, z, w}, collect(c))
}

func TestAddThenDeleteLastRestores(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{1, 2, 5} {
		vs := make([]Variant, n)
		for i := range vs {
			vs[i] = Random(Kinds[i%len(Kinds)], rng)
		}
		c, err := NewCollection(vs...)
		require.NoError(t, err)
		before := collect(c)

		c.Add(Random(KindMoebius, rng))
		require.NoError(t, c.Delete(c.Len()-1))
		assert.Equal(t, before, collect(c))
	}
}

func TestGetSet(t *testing.T) {
	c, err := NewCollection(linear(1))
	require.NoError(t, err)

	_, err = c.Get(1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.ErrorIs(t, c.Set(3, linear(2)), ErrInvalidIndex)

	require.NoError(t, c.Set(0, linear(2)))
	v, err := c.Get(0)
	require.NoError(t, err)
	assert.Equal(t, linear(2), v)
}

func TestCloneIsIndependent(t *testing.T) {
	c, err := NewCollection(linear(1), linear(2))
	require.NoError(t, err)

	cp := c.Clone()
	cp.Add(linear(3))
	require.NoError(t, cp.Set(0, linear(9)))

	assert.Equal(t, 2, c.Len())
	v, _ := c.Get(0)
	assert.Equal(t, linear(1), v)
}

func TestAllStopsEarly(t *testing.T) {
	c, err := NewCollection(linear(1), linear(2), linear(3))
	require.NoError(t, err)

	seen := 0
	for i := range c.All() {
		seen++
		if i == 1 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestKindsAndWeight(t *testing.T) {
	c, err := NewCollection(
		Linear{Common: Common{Weight: 0.5}},
		InverseJulia{Common: Common{Weight: 1.5}},
	)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindLinear, KindInverseJulia}, c.Kinds())
	assert.InDelta(t, 2.0, c.TotalWeight(), 1e-9)
}
