package evaluator

import (
	"testing"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjLitTriggerFuncValueBecomesStartGroup(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()
	ctx.Variables["tf"] = e.G.Storage.StoreConst(TriggerFuncVal{StartGroup: SpecificID(ast.IDGroup, 5)}, 0)

	var acc Returns
	lit := &ast.Expression{First: &ast.Variable{Body: ast.ObjLit{
		Entries: []ast.ObjEntry{{
			Key:   &ast.Expression{First: numLit(1)},
			Value: &ast.Expression{First: symbol("tf")},
		}},
	}}}
	rs, err := e.EvalExpression(lit, ctx, &acc)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	ov := e.G.Storage.Read(rs[0].Value).(*ObjVal)
	require.Len(t, ov.Fields, 1)
	assert.Equal(t, ObjParamGroup{ID: SpecificID(ast.IDGroup, 5)}, ov.Fields[0].Param)
}

func TestObjLitEpsilonDictRoundTrips(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()

	epsilonDict := NewDict()
	epsilonDict.Set(TypeKeyName, e.G.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeEpsilon}, 0))
	ctx.Variables["eps"] = e.G.Storage.StoreConst(epsilonDict, 0)

	var acc Returns
	lit := &ast.Expression{First: &ast.Variable{Body: ast.ObjLit{
		Entries: []ast.ObjEntry{{
			Key:   &ast.Expression{First: numLit(1)},
			Value: &ast.Expression{First: symbol("eps")},
		}},
	}}}
	rs, err := e.EvalExpression(lit, ctx, &acc)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	ov := e.G.Storage.Read(rs[0].Value).(*ObjVal)
	require.Len(t, ov.Fields, 1)
	assert.Equal(t, ObjParamEpsilon{}, ov.Fields[0].Param)

	back := e.objParamToRef(ov.Fields[0].Param)
	d, ok := e.G.Storage.Read(back).(*DictVal)
	require.True(t, ok)
	assert.Equal(t, TypeEpsilon, d.NumericType(e.G.Storage))
}

func TestObjKeyRejectsDictWithoutObjectKeyType(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()

	notAKey := NewDict()
	notAKey.Set("id", e.G.Storage.StoreConst(NumberVal{Value: 1}, 0))
	ctx.Variables["k"] = e.G.Storage.StoreConst(notAKey, 0)

	var acc Returns
	lit := &ast.Expression{First: &ast.Variable{Body: ast.ObjLit{
		Entries: []ast.ObjEntry{{
			Key:   &ast.Expression{First: symbol("k")},
			Value: &ast.Expression{First: numLit(5)},
		}},
	}}}
	_, err := e.EvalExpression(lit, ctx, &acc)
	require.Error(t, err)
}

func TestObjKeyPatternMismatchErrors(t *testing.T) {
	e := New(config.DefaultLimits())
	ctx := NewRootContext()

	key := NewDict()
	key.Set(TypeKeyName, e.G.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeObjectKey}, 0))
	key.Set("id", e.G.Storage.StoreConst(NumberVal{Value: 1}, 0))
	key.Set("pattern", e.G.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeString}, 0))
	ctx.Variables["k"] = e.G.Storage.StoreConst(key, 0)

	var acc Returns
	lit := &ast.Expression{First: &ast.Variable{Body: ast.ObjLit{
		Entries: []ast.ObjEntry{{
			Key:   &ast.Expression{First: symbol("k")},
			Value: &ast.Expression{First: numLit(5)},
		}},
	}}}
	_, err := e.EvalExpression(lit, ctx, &acc)
	require.Error(t, err)
}
