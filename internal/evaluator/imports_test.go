package evaluator

import (
	"errors"
	"testing"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls  int
	result Returns
	err    error
}

func (l *countingLoader) ImportModule(spec ast.ImportSpec, ctx *Context, g *Globals, info ast.Info, forced bool) (Returns, error) {
	l.calls++
	return l.result, l.err
}

func TestImportWithoutLoaderErrors(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ctx := NewRootContext()
	_, err := g.Import(ast.ImportSpec{Lib: "foo"}, ctx, ast.Info{})
	require.Error(t, err)
}

func TestImportMemoizesByDefault(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ctx := NewRootContext()
	ref := g.Storage.StoreConst(NumberVal{Value: 1}, 0)
	loader := &countingLoader{result: Returns{{Value: ref, Ctx: ctx}}}
	g.Loader = loader

	_, err := g.Import(ast.ImportSpec{Lib: "foo"}, ctx, ast.Info{})
	require.NoError(t, err)
	_, err = g.Import(ast.ImportSpec{Lib: "foo"}, ctx, ast.Info{})
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
}

func TestImportForcedBypassesCache(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ctx := NewRootContext()
	ref := g.Storage.StoreConst(NumberVal{Value: 1}, 0)
	loader := &countingLoader{result: Returns{{Value: ref, Ctx: ctx}}}
	g.Loader = loader

	_, err := g.Import(ast.ImportSpec{Lib: "foo"}, ctx, ast.Info{})
	require.NoError(t, err)
	_, err = g.Import(ast.ImportSpec{Lib: "foo", Forced: true}, ctx, ast.Info{})
	require.NoError(t, err)

	assert.Equal(t, 2, loader.calls)
}

func TestImportGenerationChangesOnForcedReload(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ctx := NewRootContext()
	ref := g.Storage.StoreConst(NumberVal{Value: 1}, 0)
	loader := &countingLoader{result: Returns{{Value: ref, Ctx: ctx}}}
	g.Loader = loader

	_, ok := g.ImportGeneration(ast.ImportSpec{Lib: "foo"})
	require.False(t, ok)

	_, err := g.Import(ast.ImportSpec{Lib: "foo"}, ctx, ast.Info{})
	require.NoError(t, err)
	first, ok := g.ImportGeneration(ast.ImportSpec{Lib: "foo"})
	require.True(t, ok)

	_, err = g.Import(ast.ImportSpec{Lib: "foo"}, ctx, ast.Info{})
	require.NoError(t, err)
	cached, ok := g.ImportGeneration(ast.ImportSpec{Lib: "foo"})
	require.True(t, ok)
	assert.Equal(t, first, cached)

	_, err = g.Import(ast.ImportSpec{Lib: "foo", Forced: true}, ctx, ast.Info{})
	require.NoError(t, err)
	reloaded, ok := g.ImportGeneration(ast.ImportSpec{Lib: "foo"})
	require.True(t, ok)
	assert.NotEqual(t, first, reloaded)
}

func TestImportErrorIsWrappedAndUnwraps(t *testing.T) {
	g := NewGlobals(config.DefaultLimits())
	ctx := NewRootContext()
	wrapped := errors.New("boom")
	loader := &countingLoader{err: wrapped}
	g.Loader = loader

	_, err := g.Import(ast.ImportSpec{Lib: "foo"}, ctx, ast.Info{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, wrapped))
}
