package evaluator

import (
	"github.com/LarsCG/spwn-core/internal/ast"
)

// triple is the (current, context, parent) tuple §4.5 Phase 2 threads
// through path application. parent is the value current was reached
// through (e.g. the receiver of a Member step), needed to bind `self`
// when the path ends in a Call.
type triple struct {
	Current   ValueRef
	Ctx       *Context
	Parent    ValueRef
	HasParent bool
}

// EvalVariable is §4.5: resolve a Variable's ValueBody (Phase 1), walk
// its path (Phase 2), then apply its prefix unary operator (Phase 3).
func (e *Evaluator) EvalVariable(v *ast.Variable, ctx *Context, acc *Returns) (Returns, error) {
	start, err := e.resolveBody(v, ctx, acc)
	if err != nil {
		return nil, err
	}

	triples := make([]triple, len(start))
	for i, p := range start {
		triples[i] = triple{Current: p.Value, Ctx: p.Ctx}
	}

	for _, step := range v.Path {
		var next []triple
		for _, t := range triples {
			ts, err := e.applyPathStep(step, t, v.Info, acc)
			if err != nil {
				return nil, err
			}
			next = append(next, ts...)
		}
		triples = next
	}

	out := make(Returns, 0, len(triples))
	for _, t := range triples {
		ref, err := e.applyUnaryOp(v.Operator, t, v.Info)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Value: ref, Ctx: t.Ctx})
	}
	// Context-count enforcement happens at the statement/expression level
	// (CompileScope, EvalExpression), where a bag of contexts with no
	// still-live associated value is safe to quiesce. A Variable's own
	// fan-out is bounded by its path length and is left alone here.
	return out, nil
}

func (e *Evaluator) resolveBody(v *ast.Variable, ctx *Context, acc *Returns) (Returns, error) {
	info := v.Info
	switch b := v.Body.(type) {
	case ast.NumberLit:
		return Returns{{Value: e.G.Storage.StoreConst(NumberVal{Value: b.Value}, ctx.FuncID), Ctx: ctx}}, nil
	case ast.StringLit:
		return Returns{{Value: e.G.Storage.StoreConst(StrVal{Value: b.Value}, ctx.FuncID), Ctx: ctx}}, nil
	case ast.BoolLit:
		return Returns{{Value: e.G.Storage.StoreConst(BoolVal{Value: b.Value}, ctx.FuncID), Ctx: ctx}}, nil
	case ast.NullLit:
		return Returns{{Value: NullRef, Ctx: ctx}}, nil
	case ast.BuiltinsLit:
		return Returns{{Value: BuiltinsRef, Ctx: ctx}}, nil
	case ast.TypeIndicatorLit:
		id, ok := e.G.TypeByName(b.Name)
		if !ok {
			return nil, newUndefinedErr(info, b.Name, "type")
		}
		return Returns{{Value: e.G.Storage.StoreConst(TypeIndicatorVal{TypeID: id}, ctx.FuncID), Ctx: ctx}}, nil
	case ast.SelfLit:
		ref, ok := ctx.Variables["self"]
		if !ok {
			return nil, newRuntimeErr(info, "self used outside of a macro")
		}
		return Returns{{Value: ref, Ctx: ctx}}, nil
	case ast.IDLit:
		var id ID
		if b.Specific != nil {
			id = SpecificID(b.Class, *b.Specific)
			e.G.IDs.Observe(b.Class, *b.Specific)
		} else {
			id = e.G.IDs.Next(b.Class)
		}
		return Returns{{Value: e.G.Storage.StoreConst(idToValue(b.Class, id), ctx.FuncID), Ctx: ctx}}, nil
	case ast.SymbolLit:
		return e.resolveSymbol(v, b.Name, ctx)
	case ast.DictionaryLit:
		return e.evalDictionaryLit(b, ctx, acc)
	case ast.ArrayLit:
		return e.evalArrayLit(b, ctx, acc)
	case ast.ObjLit:
		return e.evalObjLit(b, ctx, acc)
	case ast.MacroLit:
		return e.evalMacroLit(b, ctx, acc, info)
	case ast.CmpStmtLit:
		explicit, survivors, err := e.CompileScope(b.Body, []*Context{ctx})
		if err != nil {
			return nil, err
		}
		*acc = append(*acc, explicit...)
		var out Returns
		for _, c := range survivors {
			out = append(out, Pair{Value: NullRef, Ctx: c})
		}
		return out, nil
	case ast.TernaryLit:
		return e.evalTernary(b, ctx, acc)
	case ast.SwitchLit:
		return e.evalSwitch(b, ctx, acc)
	case ast.ImportLit:
		return e.G.Import(b.Spec, ctx, info)
	default:
		return nil, newRuntimeErr(info, "unrecognized value body")
	}
}

func idToValue(class ast.IDClass, id ID) Value {
	switch class {
	case ast.IDGroup:
		return GroupVal{ID: id}
	case ast.IDColor:
		return ColorVal{ID: id}
	case ast.IDBlock:
		return BlockVal{ID: id}
	default:
		return ItemVal{ID: id}
	}
}

// resolveSymbol implements the read side of §4.5 and the define side of
// §4.12: an absent symbol is a fresh `let`-bound definition only when the
// variable's operator is `let`; any other absent read is an UndefinedErr
// (confirmed by compiler_types.rs::to_value, which only defines on an
// absent Symbol for the Let operator).
func (e *Evaluator) resolveSymbol(v *ast.Variable, name string, ctx *Context) (Returns, error) {
	if ref, ok := ctx.Variables[name]; ok {
		if v.Operator == ast.OpLet {
			return nil, newRuntimeErr(v.Info, "%s is already defined", name)
		}
		return Returns{{Value: ref, Ctx: ctx}}, nil
	}
	if v.Operator != ast.OpLet {
		return nil, newUndefinedErr(v.Info, name, "variable")
	}
	ref := e.G.Storage.Store(NullVal{}, 1, ctx.FuncID, true)
	ctx.Variables[name] = ref
	return Returns{{Value: ref, Ctx: ctx}}, nil
}

func (e *Evaluator) applyUnaryOp(op ast.UnaryOp, t triple, info ast.Info) (ValueRef, error) {
	switch op {
	case ast.OpNone, ast.OpLet:
		return t.Current, nil
	case ast.OpNegate:
		n, ok := e.G.Storage.Read(t.Current).(NumberVal)
		if !ok {
			return 0, newRuntimeErr(info, "unary - requires @number")
		}
		return e.G.Storage.StoreConst(NumberVal{Value: -n.Value}, t.Ctx.FuncID), nil
	case ast.OpNot:
		b, ok := e.G.Storage.Read(t.Current).(BoolVal)
		if !ok {
			return 0, newRuntimeErr(info, "unary ! requires @bool")
		}
		return e.G.Storage.StoreConst(BoolVal{Value: !b.Value}, t.Ctx.FuncID), nil
	case ast.OpIncr, ast.OpDecr:
		rec, err := e.G.Storage.Write(t.Current)
		if err != nil {
			return 0, newRuntimeErr(info, "cannot mutate an immutable value")
		}
		n, ok := rec.Value.(NumberVal)
		if !ok {
			return 0, newRuntimeErr(info, "++/-- requires @number")
		}
		delta := 1.0
		if op == ast.OpDecr {
			delta = -1.0
		}
		rec.Value = NumberVal{Value: n.Value + delta}
		return t.Current, nil
	case ast.OpRangeTo:
		n, ok := e.G.Storage.Read(t.Current).(NumberVal)
		if !ok {
			return 0, newRuntimeErr(info, "range-to requires @number")
		}
		return e.G.Storage.StoreConst(RangeVal{Start: 0, End: int32(n.Value + 0.5), Step: 1}, t.Ctx.FuncID), nil
	default:
		return 0, newRuntimeErr(info, "unrecognized unary operator")
	}
}
