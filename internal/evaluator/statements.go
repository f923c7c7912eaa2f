package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// CompileScope is component 10 of §2 ("compound-statement and
// trigger-function construction"), implemented directly rather than
// treated as an external collaborator: the evaluator both produces and
// consumes statement bodies (macro bodies, trigger-function bodies).
//
// It executes body against every context in ctxs in program order,
// fanning each context out across whatever an individual statement
// splits it into, and returns the explicit-return bag (from any `return`
// reached) plus the surviving (non-explicitly-returned) contexts.
func (e *Evaluator) CompileScope(body ast.CmpStmt, ctxs []*Context) (Returns, []*Context, error) {
	var explicit Returns
	cur := ctxs
	for _, stmt := range body {
		var next []*Context
		for _, c := range cur {
			if c.Broken != nil {
				// Already returned/broke earlier in this scope: later
				// statements have no effect on this branch.
				next = append(next, c)
				continue
			}
			switch s := stmt.(type) {
			case ast.ExprStatement:
				var inner Returns
				rs, err := e.EvalExpression(s.Expr, c, &inner)
				if err != nil {
					return nil, nil, err
				}
				explicit = append(explicit, inner...)
				for _, p := range rs {
					next = append(next, p.Ctx)
				}

			case ast.ReturnStatement:
				var rs Returns
				if s.Value != nil {
					var err error
					var inner Returns
					rs, err = e.EvalExpression(s.Value, c, &inner)
					if err != nil {
						return nil, nil, err
					}
					explicit = append(explicit, inner...)
				} else {
					rs = Returns{{Value: NullRef, Ctx: c}}
				}
				for _, p := range rs {
					c2 := p.Ctx.Fork()
					c2.Broken = &BreakInfo{Info: s.Info, Kind: BreakMacro}
					explicit = append(explicit, Pair{Value: p.Value, Ctx: c2})
				}

			case ast.BreakStatement:
				c2 := c.Fork()
				c2.Broken = &BreakInfo{Info: s.Info, Kind: BreakLoop}
				next = append(next, c2)

			case ast.ContinueStatement:
				c2 := c.Fork()
				c2.Broken = &BreakInfo{Info: s.Info, Kind: BreakContinueLoop}
				next = append(next, c2)

			case ast.ForStatement:
				ex, survivors, err := e.runForOne(s, c)
				if err != nil {
					return nil, nil, err
				}
				explicit = append(explicit, ex...)
				next = append(next, survivors...)

			default:
				return nil, nil, newRuntimeErr(ast.Info{}, "unrecognized statement kind")
			}
		}
		cur = e.G.EnforceContextMax(next)
		if len(cur) == 0 {
			break
		}
	}
	return explicit, cur, nil
}

// runForOne drives a ForStatement over a single incoming context: each
// element of the materialized iterable runs the body once, threading the
// (possibly multi-way split) surviving contexts from one iteration into
// the next. A `break` stops that branch's iteration and yields a normal
// (unbroken) survivor; `continue` likewise clears and moves to the next
// element; an explicit return propagates untouched past the loop.
func (e *Evaluator) runForOne(stmt ast.ForStatement, c0 *Context) (Returns, []*Context, error) {
	var explicit Returns
	var finished []*Context

	var iterInner Returns
	iterBag, err := e.EvalExpression(stmt.Iterable, c0, &iterInner)
	if err != nil {
		return nil, nil, err
	}
	explicit = append(explicit, iterInner...)

	for _, p := range iterBag {
		converted, err := e.G.Convert(p.Value, TypeArray, stmt.Info)
		if err != nil {
			return nil, nil, err
		}
		arr, ok := converted.(*ArrayVal)
		if !ok {
			return nil, nil, newRuntimeErr(stmt.Info, "for-loop target is not iterable")
		}

		cur := []*Context{p.Ctx}
		for _, elem := range arr.Elements {
			var nextCur []*Context
			for _, c := range cur {
				iterCtx := c.Fork()
				iterCtx.Variables[stmt.Var] = elem

				ex, survivors, err := e.CompileScope(stmt.Body, []*Context{iterCtx})
				if err != nil {
					return nil, nil, err
				}
				explicit = append(explicit, ex...)

				for _, s := range survivors {
					if s.Broken == nil {
						nextCur = append(nextCur, s)
						continue
					}
					switch s.Broken.Kind {
					case BreakLoop:
						cleared := s.Fork()
						cleared.Broken = nil
						finished = append(finished, cleared)
					case BreakContinueLoop:
						cleared := s.Fork()
						cleared.Broken = nil
						nextCur = append(nextCur, cleared)
					default: // BreakMacro: an explicit return, propagate as-is
						finished = append(finished, s)
					}
				}
			}
			cur = nextCur
			if len(cur) == 0 {
				break
			}
		}
		finished = append(finished, cur...)
	}

	return explicit, finished, nil
}
