package evaluator

import (
	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
)

// BoundArg is one already-evaluated call argument: a name for a named
// argument (nil for positional) and the ValueRef the call-site expression
// produced.
type BoundArg struct {
	Symbol *string
	Value  ValueRef
}

func indexOfArg(args []MacroArg, name string) int {
	for i, a := range args {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// InvokeMacro is the macro executor of §4.9, for a single already-
// Cartesian-expanded argument combination. parent is the value the macro
// was called through (Call's receiver), used only when the macro's first
// formal is `self`; hasParent distinguishes "called with no receiver"
// from "called on Null".
func (e *Evaluator) InvokeMacro(macroRef ValueRef, parent ValueRef, hasParent bool, boundArgs []BoundArg, ctx *Context, info ast.Info) (Returns, error) {
	mv, ok := e.G.Storage.Read(macroRef).(MacroVal)
	if !ok {
		return nil, newRuntimeErr(info, "value is not callable as a macro")
	}
	m := mv.Macro

	newCtx := ctx.Fork()
	newCtx.Variables = make(map[string]ValueRef, len(m.DefContext))
	for k, v := range m.DefContext {
		newCtx.Variables[k] = v // closure capture: by ValueRef, not by value (§9)
	}

	hasSelf := len(m.Args) > 0 && m.Args[0].Name == config.SelfArgName
	startPositional := 0
	if hasSelf {
		startPositional = 1
	}

	bound := make(map[string]ValueRef, len(m.Args))
	boundSet := make(map[string]bool, len(m.Args))
	posCursor := startPositional

	for _, ba := range boundArgs {
		var formal *MacroArg
		if ba.Symbol != nil {
			idx := indexOfArg(m.Args, *ba.Symbol)
			if idx < 0 {
				return nil, newUndefinedErr(info, *ba.Symbol, "macro argument")
			}
			formal = &m.Args[idx]
		} else {
			if posCursor >= len(m.Args) {
				return nil, newRuntimeErr(info, "too many positional arguments")
			}
			formal = &m.Args[posCursor]
			posCursor++
		}

		if formal.HasPattern {
			ok, err := e.G.Matches(ba.Value, formal.Pattern, info)
			if err != nil {
				return nil, err
			}
			if !ok {
				found := e.G.TypeName(e.G.Storage.Read(ba.Value).NumericType(e.G.Storage))
				return nil, newTypeErr(info, "a value matching "+formal.Name+"'s pattern", found)
			}
		}

		var valRef ValueRef
		if ba.Symbol != nil {
			valRef = ba.Value // named args bind directly
		} else {
			valRef = e.G.Storage.CloneDeep(ba.Value, 1, newCtx.FuncID, false)
		}
		bound[formal.Name] = valRef
		boundSet[formal.Name] = true
	}

	for _, a := range m.Args {
		if boundSet[a.Name] || a.Name == config.SelfArgName {
			continue
		}
		if a.HasDefault {
			bound[a.Name] = e.G.Storage.CloneDeep(a.Default, 1, newCtx.FuncID, false)
			continue
		}
		return nil, newRuntimeErr(info, "Non-optional argument '%s' not satisfied!", a.Name)
	}

	if hasSelf {
		if !hasParent {
			return nil, newRuntimeErr(info, "macro requires a self value but was not called through one")
		}
		bound[config.SelfArgName] = parent // reference, no clone
	}

	for k, v := range bound {
		newCtx.Variables[k] = v
	}

	explicit, survivors, err := e.CompileScope(m.Body, []*Context{newCtx})
	if err != nil {
		return nil, err
	}

	for _, c := range survivors {
		if c.Broken != nil && c.Broken.Kind == BreakLoop {
			return nil, newRuntimeErr(c.Broken.Info, "break statement is never used")
		}
	}

	var result Returns
	if len(explicit) > 0 {
		result = explicit
	} else {
		for _, c := range survivors {
			result = append(result, Pair{Value: NullRef, Ctx: c})
		}
	}

	out := make(Returns, 0, len(result))
	for _, p := range result {
		e.G.Storage.Bump(p.Value, 1, nil) // let the return value escape this scope
		e.G.Storage.RecordOf(p.Value).Mutable = false

		restored := p.Ctx.Fork()
		restored.Variables = make(map[string]ValueRef, len(ctx.Variables))
		for k, v := range ctx.Variables {
			restored.Variables[k] = v
		}
		restored.Broken = nil
		out = append(out, Pair{Value: p.Value, Ctx: restored})
	}
	return out, nil
}
