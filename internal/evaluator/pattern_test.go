package evaluator

import (
	"testing"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesTypePattern(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	pat := g.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeNumber}, 0)
	num := g.Storage.StoreConst(NumberVal{Value: 1}, 0)
	str := g.Storage.StoreConst(StrVal{Value: "x"}, 0)

	ok, err := g.Matches(num, pat, ast.Info{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Matches(str, pat, ast.Info{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesEitherPattern(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	numPat := g.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeNumber}, 0)
	strPat := g.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeString}, 0)
	either, err := g.Builtins.Call(g, nil, ast.Info{}, "_either_", []ValueRef{numPat, strPat})
	require.NoError(t, err)
	eitherRef := g.Storage.StoreConst(either, 0)

	num := g.Storage.StoreConst(NumberVal{Value: 1}, 0)
	bl := g.Storage.StoreConst(BoolVal{Value: true}, 0)

	ok, err := g.Matches(num, eitherRef, ast.Info{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Matches(bl, eitherRef, ast.Info{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesArrayElementPattern(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	numPat := g.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeNumber}, 0)
	patArr := g.Storage.StoreConst(&ArrayVal{Elements: []ValueRef{numPat}}, 0)

	allNums := g.Storage.StoreConst(&ArrayVal{Elements: []ValueRef{
		g.Storage.StoreConst(NumberVal{Value: 1}, 0),
		g.Storage.StoreConst(NumberVal{Value: 2}, 0),
	}}, 0)
	mixed := g.Storage.StoreConst(&ArrayVal{Elements: []ValueRef{
		g.Storage.StoreConst(NumberVal{Value: 1}, 0),
		g.Storage.StoreConst(StrVal{Value: "x"}, 0),
	}}, 0)

	ok, err := g.Matches(allNums, patArr, ast.Info{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Matches(mixed, patArr, ast.Info{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesEmptyArrayPatternMatchesAnyArray(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	patArr := g.Storage.StoreConst(&ArrayVal{}, 0)
	any := g.Storage.StoreConst(&ArrayVal{Elements: []ValueRef{
		g.Storage.StoreConst(StrVal{Value: "x"}, 0),
	}}, 0)

	ok, err := g.Matches(any, patArr, ast.Info{})
	require.NoError(t, err)
	assert.True(t, ok)
}
