package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// HandleOperator is §4.7's handle_operator: look up macroName as a member
// of a; if it resolves to a Macro whose first formal's pattern accepts b,
// invoke it with a single (cloned) argument. Otherwise fall through to
// the external built-in of the same name.
func (e *Evaluator) HandleOperator(a, b ValueRef, macroName string, ctx *Context, info ast.Info) (Returns, error) {
	if memberRef, ok := e.G.Member(a, macroName, info); ok {
		if mv, ok := e.G.Storage.Read(memberRef).(MacroVal); ok {
			m := mv.Macro
			if len(m.Args) == 0 {
				return nil, newRuntimeErr(info, "overload %q must accept at least one argument", macroName)
			}
			first := m.Args[0]
			if first.HasPattern {
				ok, err := e.G.Matches(b, first.Pattern, info)
				if err != nil {
					return nil, err
				}
				if !ok {
					return e.callBuiltin(a, b, macroName, ctx, info)
				}
			}
			clonedB := e.G.Storage.CloneDeep(b, 1, ctx.FuncID, true)
			return e.InvokeMacro(memberRef, a, true, []BoundArg{{Value: clonedB}}, ctx, info)
		}
	}
	return e.callBuiltin(a, b, macroName, ctx, info)
}

func (e *Evaluator) callBuiltin(a, b ValueRef, name string, ctx *Context, info ast.Info) (Returns, error) {
	if name == "_swap_" {
		return e.swapInPlace(a, b, ctx, info)
	}
	v, err := e.G.Builtins.Call(e.G, ctx, info, name, []ValueRef{a, b})
	if err != nil {
		return nil, err
	}
	if AssignOpNames[name] {
		if err := e.G.Storage.Set(a, v); err != nil {
			return nil, newRuntimeErr(info, "cannot assign to an immutable value")
		}
		return Returns{{Value: a, Ctx: ctx}}, nil
	}
	ref := e.G.Storage.StoreConst(v, ctx.FuncID)
	return Returns{{Value: ref, Ctx: ctx}}, nil
}

// swapInPlace implements `a <=> b` (§4.6): both operands must be
// writable slots; their stored values trade places and a is returned.
func (e *Evaluator) swapInPlace(a, b ValueRef, ctx *Context, info ast.Info) (Returns, error) {
	recA, err := e.G.Storage.Write(a)
	if err != nil {
		return nil, newRuntimeErr(info, "cannot swap: left side is immutable")
	}
	recB, err := e.G.Storage.Write(b)
	if err != nil {
		return nil, newRuntimeErr(info, "cannot swap: right side is immutable")
	}
	recA.Value, recB.Value = recB.Value, recA.Value
	return Returns{{Value: a, Ctx: ctx}}, nil
}
