package evaluator

import (
	"github.com/LarsCG/spwn-core/internal/ast"
)

// evalDictionaryLit is §4.10: build a Dict, threading context through
// each entry via the Cartesian combinator so entry N's side effects are
// visible when entry N+1 evaluates. A spread entry must itself be a
// Dict; its keys are merged in, preserving the spread's own order.
func (e *Evaluator) evalDictionaryLit(b ast.DictionaryLit, ctx *Context, acc *Returns) (Returns, error) {
	combos, err := AllCombinations(len(b.Entries), ctx, func(i int, c *Context) (Returns, error) {
		return e.EvalExpression(b.Entries[i].Value, c, acc)
	})
	if err != nil {
		return nil, err
	}
	var out Returns
	for _, combo := range combos {
		d := NewDict()
		for i, entry := range b.Entries {
			ref := combo.Values[i]
			if entry.Spread {
				sv, ok := e.G.Storage.Read(ref).(*DictVal)
				if !ok {
					return nil, newTypeErr(entry.Value.Info, "@dictionary", e.G.TypeName(e.G.Storage.Read(ref).NumericType(e.G.Storage)))
				}
				for _, k := range sv.Keys {
					d.Set(k, sv.Entries[k])
				}
				continue
			}
			d.Set(entry.Key, ref)
		}
		out = append(out, Pair{Value: e.G.Storage.Store(d, 1, combo.Ctx.FuncID, true), Ctx: combo.Ctx})
	}
	return out, nil
}

// evalArrayLit is §4.13's Cartesian combinator applied to an array's
// elements.
func (e *Evaluator) evalArrayLit(b ast.ArrayLit, ctx *Context, acc *Returns) (Returns, error) {
	combos, err := AllCombinations(len(b.Elements), ctx, func(i int, c *Context) (Returns, error) {
		return e.EvalExpression(b.Elements[i], c, acc)
	})
	if err != nil {
		return nil, err
	}
	var out Returns
	for _, combo := range combos {
		arr := &ArrayVal{Elements: append([]ValueRef(nil), combo.Values...)}
		out = append(out, Pair{Value: e.G.Storage.Store(arr, 1, combo.Ctx.FuncID, true), Ctx: combo.Ctx})
	}
	return out, nil
}

// evalObjLit builds an object/trigger literal: each field's param
// expression is evaluated (Cartesian-threaded), then converted to the
// ObjParam shape its key class expects.
func (e *Evaluator) evalObjLit(b ast.ObjLit, ctx *Context, acc *Returns) (Returns, error) {
	n := len(b.Entries) * 2
	combos, err := AllCombinations(n, ctx, func(i int, c *Context) (Returns, error) {
		entry := b.Entries[i/2]
		if i%2 == 0 {
			return e.EvalExpression(entry.Key, c, acc)
		}
		return e.EvalExpression(entry.Value, c, acc)
	})
	if err != nil {
		return nil, err
	}
	var out Returns
	for _, combo := range combos {
		fields := make([]ObjField, len(b.Entries))
		for i, entry := range b.Entries {
			keyRef := combo.Values[i*2]
			valRef := combo.Values[i*2+1]
			key, patternRef, hasPattern, err := e.objKeyNumber(keyRef, entry.Key.Info)
			if err != nil {
				return nil, err
			}
			if hasPattern {
				ok, err := e.G.Matches(valRef, patternRef, entry.Value.Info)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, newRuntimeErr(entry.Value.Info, "object field value does not match its key's pattern")
				}
			}
			if b.Mode == ast.ObjectModeTrigger && (key == 57 || key == 62) {
				return nil, newRuntimeErr(entry.Key.Info, "fields 57 and 62 are reserved for spawn-order bookkeeping and cannot be set on a @trigger literal")
			}
			param, err := e.toObjParam(valRef, key)
			if err != nil {
				return nil, err
			}
			fields[i] = ObjField{Key: key, Param: param}
		}
		ov := &ObjVal{Fields: fields, Mode: b.Mode}
		out = append(out, Pair{Value: e.G.Storage.Store(ov, 1, combo.Ctx.FuncID, true), Ctx: combo.Ctx})
	}
	return out, nil
}

// objKeyNumber resolves an object-literal key to its integer field id:
// either a bare @number or an @object_key dict (TYPE==19, §6's object_key
// representation, built from a Dict with a TYPE override rather than a
// distinct Value variant) carrying an "id" field and an optional
// "pattern" the value must match.
func (e *Evaluator) objKeyNumber(ref ValueRef, info ast.Info) (key uint16, patternRef ValueRef, hasPattern bool, err error) {
	switch v := e.G.Storage.Read(ref).(type) {
	case NumberVal:
		return uint16(v.Value), 0, false, nil
	case *DictVal:
		if v.NumericType(e.G.Storage) != TypeObjectKey {
			return 0, 0, false, newTypeErr(info, "@number or @object_key", e.G.TypeName(v.NumericType(e.G.Storage)))
		}
		idRef, ok := v.Get("id")
		if !ok {
			return 0, 0, false, newRuntimeErr(info, "object_key dict is missing its 'id' field")
		}
		n, ok := e.G.Storage.Read(idRef).(NumberVal)
		if !ok {
			return 0, 0, false, newTypeErr(info, "@number", "")
		}
		patternRef, hasPattern = v.Get("pattern")
		return uint16(n.Value), patternRef, hasPattern, nil
	default:
		return 0, 0, false, newTypeErr(info, "@number or @object_key", e.G.TypeName(v.NumericType(e.G.Storage)))
	}
}

func (e *Evaluator) toObjParam(ref ValueRef, key uint16) (ObjParam, error) {
	switch v := e.G.Storage.Read(ref).(type) {
	case NumberVal:
		return ObjParamNumber{Value: v.Value}, nil
	case StrVal:
		return ObjParamText{Value: v.Value}, nil
	case GroupVal:
		return ObjParamGroup{ID: v.ID}, nil
	case ColorVal:
		return ObjParamColor{ID: v.ID}, nil
	case BlockVal:
		return ObjParamBlock{ID: v.ID}, nil
	case ItemVal:
		return ObjParamItem{ID: v.ID}, nil
	case BoolVal:
		return ObjParamBool{Value: v.Value}, nil
	case *ArrayVal:
		ids := make([]ID, 0, len(v.Elements))
		for _, el := range v.Elements {
			g, ok := e.G.Storage.Read(el).(GroupVal)
			if !ok {
				return nil, newTypeErr(ast.Info{}, "@group", e.G.TypeName(e.G.Storage.Read(el).NumericType(e.G.Storage)))
			}
			ids = append(ids, g.ID)
		}
		return ObjParamGroupList{IDs: ids}, nil
	case TriggerFuncVal:
		return ObjParamGroup{ID: v.StartGroup}, nil
	case *DictVal:
		if v.NumericType(e.G.Storage) == TypeEpsilon {
			return ObjParamEpsilon{}, nil
		}
		return nil, newTypeErr(ast.Info{}, "an object-parameter-compatible value", e.G.TypeName(v.NumericType(e.G.Storage)))
	default:
		return nil, newTypeErr(ast.Info{}, "an object-parameter-compatible value", e.G.TypeName(v.NumericType(e.G.Storage)))
	}
}

// evalMacroLit builds a Macro closing over ctx.Variables by ValueRef
// (§9: closures capture references, never snapshots).
func (e *Evaluator) evalMacroLit(b ast.MacroLit, ctx *Context, acc *Returns, info ast.Info) (Returns, error) {
	args := make([]MacroArg, len(b.Args))
	for i, a := range b.Args {
		arg := MacroArg{Name: a.Name, Tag: a.Tag}
		if a.Default != nil {
			rs, err := e.EvalExpression(a.Default, ctx, acc)
			if err != nil {
				return nil, err
			}
			if len(rs) > 0 {
				arg.HasDefault = true
				arg.Default = rs[0].Value
			}
		}
		if a.Pattern != nil {
			rs, err := e.EvalExpression(a.Pattern, ctx, acc)
			if err != nil {
				return nil, err
			}
			if len(rs) > 0 {
				arg.HasPattern = true
				arg.Pattern = rs[0].Value
			}
		}
		args[i] = arg
	}

	closure := make(map[string]ValueRef, len(ctx.Variables))
	for k, v := range ctx.Variables {
		closure[k] = v
	}

	m := &Macro{Args: args, DefContext: closure, File: info.CurrentFile, Body: b.Body}
	mv := MacroVal{Macro: m}
	return Returns{{Value: e.G.Storage.Store(mv, 1, ctx.FuncID, false), Ctx: ctx}}, nil
}
