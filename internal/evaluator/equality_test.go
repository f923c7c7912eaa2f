package evaluator

import (
	"testing"

	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestStructurallyEqualScalars(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	a := g.Storage.StoreConst(NumberVal{Value: 5}, 0)
	b := g.Storage.StoreConst(NumberVal{Value: 5}, 0)
	c := g.Storage.StoreConst(NumberVal{Value: 6}, 0)

	assert.True(t, StructurallyEqual(g.Storage, a, b))
	assert.False(t, StructurallyEqual(g.Storage, a, c))
}

func TestStructurallyEqualArraysByValue(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	mk := func(n float64) ValueRef {
		return g.Storage.StoreConst(&ArrayVal{Elements: []ValueRef{
			g.Storage.StoreConst(NumberVal{Value: n}, 0),
		}}, 0)
	}
	a := mk(1)
	b := mk(1)
	c := mk(2)

	assert.True(t, StructurallyEqual(g.Storage, a, b))
	assert.False(t, StructurallyEqual(g.Storage, a, c))
}

func TestStructurallyEqualDictsByValue(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	mk := func(n float64) ValueRef {
		d := NewDict()
		d.Set("x", g.Storage.StoreConst(NumberVal{Value: n}, 0))
		return g.Storage.StoreConst(d, 0)
	}
	a := mk(1)
	b := mk(1)
	c := mk(2)

	assert.True(t, StructurallyEqual(g.Storage, a, b))
	assert.False(t, StructurallyEqual(g.Storage, a, c))
}

func TestStructurallyEqualCyclicStructureTerminates(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	arr := &ArrayVal{}
	ref := g.Storage.Store(arr, 1, 0, true)
	arr.Elements = []ValueRef{ref} // self-referential

	assert.NotPanics(t, func() {
		StructurallyEqual(g.Storage, ref, ref)
	})
}

func TestStructurallyEqualDifferentTypesAreNotEqual(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	a := g.Storage.StoreConst(NumberVal{Value: 1}, 0)
	b := g.Storage.StoreConst(StrVal{Value: "1"}, 0)
	assert.False(t, StructurallyEqual(g.Storage, a, b))
}
