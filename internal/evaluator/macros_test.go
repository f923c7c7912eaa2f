package evaluator

import (
	"testing"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doubleMacro builds a no-arg-default macro: (n) { return n + n }
func doubleMacro(g *Globals, ctxFnID FnId) ValueRef {
	m := &Macro{
		Args: []MacroArg{{Name: "n"}},
		Body: ast.CmpStmt{
			ast.ReturnStatement{Value: &ast.Expression{
				First: &ast.Variable{Body: ast.SymbolLit{Name: "n"}},
				Rest:  []ast.OpValue{{Op: ast.Plus, Value: &ast.Variable{Body: ast.SymbolLit{Name: "n"}}}},
			}},
		},
		DefContext: map[string]ValueRef{},
	}
	return g.Storage.StoreConst(MacroVal{Macro: m}, ctxFnID)
}

func TestInvokeMacroPositionalArgument(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()
	macroRef := doubleMacro(e.G, ctx.FuncID)
	arg := e.G.Storage.StoreConst(NumberVal{Value: 21}, ctx.FuncID)

	result, err := e.InvokeMacro(macroRef, 0, false, []BoundArg{{Value: arg}}, ctx, ast.Info{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, NumberVal{Value: 42}, e.G.Storage.Read(result[0].Value))
}

func TestInvokeMacroMissingRequiredArgumentErrors(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()
	macroRef := doubleMacro(e.G, ctx.FuncID)

	_, err := e.InvokeMacro(macroRef, 0, false, nil, ctx, ast.Info{})
	require.Error(t, err)
}

func TestInvokeMacroUsesDefaultWhenUnbound(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()
	def := e.G.Storage.StoreConst(NumberVal{Value: 7}, ctx.FuncID)
	m := &Macro{
		Args: []MacroArg{{Name: "n", Default: def, HasDefault: true}},
		Body: ast.CmpStmt{
			ast.ReturnStatement{Value: &ast.Expression{First: &ast.Variable{Body: ast.SymbolLit{Name: "n"}}}},
		},
		DefContext: map[string]ValueRef{},
	}
	macroRef := e.G.Storage.StoreConst(MacroVal{Macro: m}, ctx.FuncID)

	result, err := e.InvokeMacro(macroRef, 0, false, nil, ctx, ast.Info{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, NumberVal{Value: 7}, e.G.Storage.Read(result[0].Value))
}

func TestInvokeMacroPatternMismatchErrors(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()
	pat := e.G.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeString}, ctx.FuncID)
	m := &Macro{
		Args: []MacroArg{{Name: "n", HasPattern: true, Pattern: pat}},
		Body: ast.CmpStmt{
			ast.ReturnStatement{Value: &ast.Expression{First: &ast.Variable{Body: ast.SymbolLit{Name: "n"}}}},
		},
		DefContext: map[string]ValueRef{},
	}
	macroRef := e.G.Storage.StoreConst(MacroVal{Macro: m}, ctx.FuncID)
	arg := e.G.Storage.StoreConst(NumberVal{Value: 1}, ctx.FuncID)

	_, err := e.InvokeMacro(macroRef, 0, false, []BoundArg{{Value: arg}}, ctx, ast.Info{})
	require.Error(t, err)
}

func TestInvokeMacroSelfRequiresParent(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()
	m := &Macro{
		Args: []MacroArg{{Name: "self"}},
		Body: ast.CmpStmt{
			ast.ReturnStatement{Value: &ast.Expression{First: &ast.Variable{Body: ast.SelfLit{}}}},
		},
		DefContext: map[string]ValueRef{},
	}
	macroRef := e.G.Storage.StoreConst(MacroVal{Macro: m}, ctx.FuncID)

	_, err := e.InvokeMacro(macroRef, 0, false, nil, ctx, ast.Info{})
	require.Error(t, err)

	parent := e.G.Storage.StoreConst(NumberVal{Value: 9}, ctx.FuncID)
	result, err := e.InvokeMacro(macroRef, parent, true, nil, ctx, ast.Info{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, NumberVal{Value: 9}, e.G.Storage.Read(result[0].Value))
}
