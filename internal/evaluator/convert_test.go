package evaluator

import (
	"testing"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertIsNoopWhenAlreadyTargetType(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(NumberVal{Value: 1}, 0)
	v, err := g.Convert(ref, TypeNumber, ast.Info{})
	require.NoError(t, err)
	assert.Equal(t, NumberVal{Value: 1}, v)
}

func TestConvertNumberToGroup(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(NumberVal{Value: 5}, 0)
	v, err := g.Convert(ref, TypeGroup, ast.Info{})
	require.NoError(t, err)
	assert.Equal(t, GroupVal{ID: SpecificID(ast.IDGroup, 5)}, v)
}

func TestConvertGroupToNumberRequiresSpecificID(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(GroupVal{ID: ArbitraryID(ast.IDGroup)}, 0)
	_, err := g.Convert(ref, TypeNumber, ast.Info{})
	require.Error(t, err)
}

func TestConvertAnyToString(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(NumberVal{Value: 3.5}, 0)
	v, err := g.Convert(ref, TypeString, ast.Info{})
	require.NoError(t, err)
	assert.Equal(t, StrVal{Value: "3.5"}, v)
}

func TestConvertStringToNumber(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(StrVal{Value: "42"}, 0)
	v, err := g.Convert(ref, TypeNumber, ast.Info{})
	require.NoError(t, err)
	assert.Equal(t, NumberVal{Value: 42}, v)
}

func TestConvertStringToNumberInvalid(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(StrVal{Value: "not a number"}, 0)
	_, err := g.Convert(ref, TypeNumber, ast.Info{})
	require.Error(t, err)
}

func TestConvertUnsupportedPairErrors(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(BoolVal{Value: true}, 0)
	_, err := g.Convert(ref, TypeDictionary, ast.Info{})
	require.Error(t, err)
}

func TestConvertRangeToArray(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(RangeVal{Start: 0, End: 3, Step: 1}, 0)
	v, err := g.Convert(ref, TypeArray, ast.Info{})
	require.NoError(t, err)
	arr, ok := v.(*ArrayVal)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)

	var got []float64
	for _, el := range arr.Elements {
		got = append(got, g.Storage.Read(el).(NumberVal).Value)
	}
	assert.Equal(t, []float64{0, 1, 2}, got)
}

func TestConvertRangeToArrayDescending(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ref := g.Storage.StoreConst(RangeVal{Start: 3, End: 0, Step: 1}, 0)
	v, err := g.Convert(ref, TypeArray, ast.Info{})
	require.NoError(t, err)
	arr := v.(*ArrayVal)

	var got []float64
	for _, el := range arr.Elements {
		got = append(got, g.Storage.Read(el).(NumberVal).Value)
	}
	assert.Equal(t, []float64{2, 1, 0}, got)
}
