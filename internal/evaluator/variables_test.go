package evaluator

import (
	"testing"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUndefinedSymbolReadErrors covers `y + 4` with y never defined: the
// plain (non-let) read must raise UndefinedErr instead of silently
// binding y to Null and failing later inside _plus_.
func TestUndefinedSymbolReadErrors(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()

	expr := &ast.Expression{
		First: symbol("y"),
		Rest:  []ast.OpValue{{Op: ast.Plus, Value: numLit(4)}},
	}
	var acc Returns
	_, err := e.EvalExpression(expr, ctx, &acc)
	require.Error(t, err)
	var undef *UndefinedErr
	assert.ErrorAs(t, err, &undef)
	assert.Equal(t, "y", undef.Name)
	assert.Equal(t, "variable", undef.Descriptor)
	_, defined := ctx.Variables["y"]
	assert.False(t, defined, "a failed read must not pollute the context with a bogus binding")
}

func TestLetOnAbsentSymbolStillDefines(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()

	body := ast.CmpStmt{letStmt("z", numLit(9))}
	_, _, err := e.CompileScope(body, []*Context{ctx})
	require.NoError(t, err)
	assert.Equal(t, NumberVal{Value: 9}, e.G.Storage.Read(ctx.Variables["z"]))
}
