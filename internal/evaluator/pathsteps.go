package evaluator

import (
	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
)

// applyPathStep is §4.5 Phase 2: apply one path component to one triple,
// possibly fanning it out into several (a Call's argument list and an
// Index's subscript expression can each split context).
//
// Absent Member/Associated/Index targets are where §4.12's "define on
// first touch" rule kicks in: a path reaching an unknown slot creates
// it as a mutable Null instead of raising UndefinedErr. The new slot is
// mutable whether or not the path is `let`-bound; no step here creates
// an immutable Null.
func (e *Evaluator) applyPathStep(step ast.PathComponent, t triple, info ast.Info, acc *Returns) ([]triple, error) {
	switch s := step.(type) {
	case ast.Member:
		return e.applyMember(s, t, info)
	case ast.Associated:
		return e.applyAssociated(s, t, info)
	case ast.Index:
		return e.applyIndex(s, t, info, acc)
	case ast.Increment:
		return e.applyPostfix(t, info, 1)
	case ast.Decrement:
		return e.applyPostfix(t, info, -1)
	case ast.Constructor:
		return e.applyConstructor(s, t, info, acc)
	case ast.Call:
		return e.applyCall(s, t, info, acc)
	default:
		return nil, newRuntimeErr(info, "unrecognized path component")
	}
}

func (e *Evaluator) applyMember(s ast.Member, t triple, info ast.Info) ([]triple, error) {
	if ref, ok := e.G.Member(t.Current, s.Name, info); ok {
		return []triple{{Current: ref, Ctx: t.Ctx, Parent: t.Current, HasParent: true}}, nil
	}
	d, ok := e.G.Storage.Read(t.Current).(*DictVal)
	if !ok {
		return nil, newUndefinedErr(info, s.Name, "member")
	}
	rec := e.G.Storage.RecordOf(t.Current)
	if !rec.Mutable {
		return nil, newRuntimeErr(info, "cannot define field %q on an immutable dictionary", s.Name)
	}
	ref := e.G.Storage.Store(NullVal{}, 1, t.Ctx.FuncID, true)
	d.Set(s.Name, ref)
	return []triple{{Current: ref, Ctx: t.Ctx, Parent: t.Current, HasParent: true}}, nil
}

func (e *Evaluator) applyAssociated(s ast.Associated, t triple, info ast.Info) ([]triple, error) {
	ti, ok := e.G.Storage.Read(t.Current).(TypeIndicatorVal)
	if !ok {
		return nil, newRuntimeErr(info, "associated access (::) requires a type indicator")
	}
	if impl, ok := e.G.Implementation(ti.TypeID, s.Name); ok {
		if mv, ok := e.G.Storage.Read(impl.Value).(MacroVal); ok && len(mv.Macro.Args) > 0 && mv.Macro.Args[0].Name == config.SelfArgName {
			return nil, newRuntimeErr(info, "%s must be called through a value, not its type", s.Name)
		}
		return []triple{{Current: impl.Value, Ctx: t.Ctx, Parent: t.Current, HasParent: true}}, nil
	}
	ref := e.G.Storage.Store(NullVal{}, 1, t.Ctx.FuncID, true)
	e.G.SetImplementation(ti.TypeID, s.Name, Impl{Value: ref, ImplementedInModule: true})
	return []triple{{Current: ref, Ctx: t.Ctx, Parent: t.Current, HasParent: true}}, nil
}

func (e *Evaluator) applyIndex(s ast.Index, t triple, info ast.Info, acc *Returns) ([]triple, error) {
	idxBag, err := e.EvalExpression(s.Expr, t.Ctx, acc)
	if err != nil {
		return nil, err
	}
	var out []triple
	for _, ip := range idxBag {
		ref, err := e.indexOne(t.Current, ip.Value, info)
		if err != nil {
			return nil, err
		}
		out = append(out, triple{Current: ref, Ctx: ip.Ctx, Parent: t.Current, HasParent: true})
	}
	return out, nil
}

func (e *Evaluator) indexOne(container, idxRef ValueRef, info ast.Info) (ValueRef, error) {
	switch c := e.G.Storage.Read(container).(type) {
	case *ArrayVal:
		n, ok := e.G.Storage.Read(idxRef).(NumberVal)
		if !ok {
			return 0, newTypeErr(info, "@number", e.G.TypeName(e.G.Storage.Read(idxRef).NumericType(e.G.Storage)))
		}
		i := int(n.Value)
		if i < 0 {
			i += len(c.Elements)
		}
		if i < 0 || i >= len(c.Elements) {
			return 0, newRuntimeErr(info, "array index out of bounds")
		}
		return c.Elements[i], nil
	case StrVal:
		n, ok := e.G.Storage.Read(idxRef).(NumberVal)
		if !ok {
			return 0, newTypeErr(info, "@number", e.G.TypeName(e.G.Storage.Read(idxRef).NumericType(e.G.Storage)))
		}
		runes := []rune(c.Value)
		i := int(n.Value)
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return 0, newRuntimeErr(info, "string index out of bounds")
		}
		return e.G.Storage.StoreConst(StrVal{Value: string(runes[i])}, 0), nil
	case *DictVal:
		key, ok := e.G.Storage.Read(idxRef).(StrVal)
		if !ok {
			return 0, newTypeErr(info, "@string", e.G.TypeName(e.G.Storage.Read(idxRef).NumericType(e.G.Storage)))
		}
		ref, ok := c.Get(key.Value)
		if !ok {
			rec := e.G.Storage.RecordOf(container)
			if !rec.Mutable {
				return 0, newRuntimeErr(info, "key %q not found", key.Value)
			}
			newRef := e.G.Storage.Store(NullVal{}, 1, 0, true)
			c.Set(key.Value, newRef)
			return newRef, nil
		}
		return ref, nil
	case *ObjVal:
		keyDict, ok := e.G.Storage.Read(idxRef).(*DictVal)
		if !ok {
			return 0, newTypeErr(info, "@object_key", e.G.TypeName(e.G.Storage.Read(idxRef).NumericType(e.G.Storage)))
		}
		idRef, ok := keyDict.Get("id")
		if !ok {
			return 0, newRuntimeErr(info, "object_key dict is missing its 'id' field")
		}
		idNum, ok := e.G.Storage.Read(idRef).(NumberVal)
		if !ok {
			return 0, newTypeErr(info, "@number", "")
		}
		key := uint16(idNum.Value)
		for _, f := range c.Fields {
			if f.Key == key {
				return e.objParamToRef(f.Param), nil
			}
		}
		return 0, newRuntimeErr(info, "object has no field %d", key)
	default:
		return 0, newRuntimeErr(info, "value of type %s cannot be indexed", e.G.TypeName(c.NumericType(e.G.Storage)))
	}
}

// objParamToRef converts a stored object field back into a fresh value
// (§6's reverse direction of the ObjParam encoding).
func (e *Evaluator) objParamToRef(p ObjParam) ValueRef {
	switch v := p.(type) {
	case ObjParamNumber:
		return e.G.Storage.StoreConst(NumberVal{Value: v.Value}, 0)
	case ObjParamText:
		return e.G.Storage.StoreConst(StrVal{Value: v.Value}, 0)
	case ObjParamGroup:
		return e.G.Storage.StoreConst(GroupVal{ID: v.ID}, 0)
	case ObjParamColor:
		return e.G.Storage.StoreConst(ColorVal{ID: v.ID}, 0)
	case ObjParamBlock:
		return e.G.Storage.StoreConst(BlockVal{ID: v.ID}, 0)
	case ObjParamItem:
		return e.G.Storage.StoreConst(ItemVal{ID: v.ID}, 0)
	case ObjParamBool:
		return e.G.Storage.StoreConst(BoolVal{Value: v.Value}, 0)
	case ObjParamGroupList:
		elems := make([]ValueRef, len(v.IDs))
		for i, id := range v.IDs {
			elems[i] = e.G.Storage.StoreConst(GroupVal{ID: id}, 0)
		}
		return e.G.Storage.StoreConst(&ArrayVal{Elements: elems}, 0)
	case ObjParamEpsilon:
		d := NewDict()
		d.Set(TypeKeyName, e.G.Storage.StoreConst(TypeIndicatorVal{TypeID: TypeEpsilon}, 0))
		return e.G.Storage.StoreConst(d, 0)
	default:
		return e.G.Storage.StoreConst(NullVal{}, 0)
	}
}

// applyPostfix handles path-position ++/-- (§4.5 Phase 2): mutate in
// place, yield the pre-modified value as a fresh ref (the prefix form in
// applyUnaryOp yields the post-modified value instead).
func (e *Evaluator) applyPostfix(t triple, info ast.Info, delta float64) ([]triple, error) {
	rec, err := e.G.Storage.Write(t.Current)
	if err != nil {
		return nil, newRuntimeErr(info, "cannot mutate an immutable value")
	}
	n, ok := rec.Value.(NumberVal)
	if !ok {
		return nil, newRuntimeErr(info, "++/-- requires @number")
	}
	oldMutable := rec.Mutable
	pre := e.G.Storage.Store(NumberVal{Value: n.Value}, 1, t.Ctx.FuncID, oldMutable)
	rec.Value = NumberVal{Value: n.Value + delta}
	return []triple{{Current: pre, Ctx: t.Ctx, Parent: t.Current, HasParent: true}}, nil
}

func (e *Evaluator) applyConstructor(s ast.Constructor, t triple, info ast.Info, acc *Returns) ([]triple, error) {
	ti, ok := e.G.Storage.Read(t.Current).(TypeIndicatorVal)
	if !ok {
		return nil, newRuntimeErr(info, "construction requires a type indicator")
	}
	lit := ast.DictionaryLit{Entries: s.Fields}
	bag, err := e.evalDictionaryLit(lit, t.Ctx, acc)
	if err != nil {
		return nil, err
	}
	var out []triple
	for _, p := range bag {
		d := e.G.Storage.Read(p.Value).(*DictVal)
		d.Set(TypeKeyName, e.G.Storage.StoreConst(ti, 0))
		out = append(out, triple{Current: p.Value, Ctx: p.Ctx, Parent: t.Current, HasParent: true})
	}
	return out, nil
}

func (e *Evaluator) applyCall(s ast.Call, t triple, info ast.Info, acc *Returns) ([]triple, error) {
	switch v := e.G.Storage.Read(t.Current).(type) {
	case MacroVal:
		return e.callMacro(t, s.Args, info, acc)
	case TypeIndicatorVal:
		if len(s.Args) != 1 || s.Args[0].Symbol != nil {
			return nil, newRuntimeErr(info, "a type cast takes exactly one positional argument")
		}
		argBag, err := e.EvalExpression(s.Args[0].Value, t.Ctx, acc)
		if err != nil {
			return nil, err
		}
		var out []triple
		for _, ap := range argBag {
			rs, err := e.HandleOperator(ap.Value, t.Current, "_as_", ap.Ctx, info)
			if err != nil {
				return nil, err
			}
			for _, p := range rs {
				out = append(out, triple{Current: p.Value, Ctx: p.Ctx})
			}
		}
		return out, nil
	case BuiltinFunctionVal:
		return e.callBuiltinFunction(v, t, s.Args, info, acc)
	default:
		return nil, newRuntimeErr(info, "value of type %s is not callable", e.G.TypeName(v.NumericType(e.G.Storage)))
	}
}

func (e *Evaluator) callMacro(t triple, callArgs []ast.CallArg, info ast.Info, acc *Returns) ([]triple, error) {
	combos, err := AllCombinations(len(callArgs), t.Ctx, func(i int, c *Context) (Returns, error) {
		return e.EvalExpression(callArgs[i].Value, c, acc)
	})
	if err != nil {
		return nil, err
	}
	var out []triple
	for _, combo := range combos {
		bound := make([]BoundArg, len(callArgs))
		for i, ca := range callArgs {
			bound[i] = BoundArg{Symbol: ca.Symbol, Value: combo.Values[i]}
		}
		rs, err := e.InvokeMacro(t.Current, t.Parent, t.HasParent, bound, combo.Ctx, info)
		if err != nil {
			return nil, err
		}
		for _, p := range rs {
			out = append(out, triple{Current: p.Value, Ctx: p.Ctx})
		}
	}
	return out, nil
}

func (e *Evaluator) callBuiltinFunction(fn BuiltinFunctionVal, t triple, callArgs []ast.CallArg, info ast.Info, acc *Returns) ([]triple, error) {
	combos, err := AllCombinations(len(callArgs), t.Ctx, func(i int, c *Context) (Returns, error) {
		return e.EvalExpression(callArgs[i].Value, c, acc)
	})
	if err != nil {
		return nil, err
	}
	var out []triple
	for _, combo := range combos {
		v, err := e.G.Builtins.Call(e.G, combo.Ctx, info, fn.Name, combo.Values)
		if err != nil {
			return nil, err
		}
		ref := e.G.Storage.StoreConst(v, combo.Ctx.FuncID)
		out = append(out, triple{Current: ref, Ctx: combo.Ctx})
	}
	return out, nil
}
