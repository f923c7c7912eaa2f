package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// evalTernary is §4.8's `cond ? a : b`: the condition bag fans out, each
// branch then evaluated under its own (possibly split) context.
func (e *Evaluator) evalTernary(b ast.TernaryLit, ctx *Context, acc *Returns) (Returns, error) {
	condBag, err := e.EvalExpression(b.Cond, ctx, acc)
	if err != nil {
		return nil, err
	}
	var out Returns
	for _, cp := range condBag {
		bv, ok := e.G.Storage.Read(cp.Value).(BoolVal)
		if !ok {
			return nil, newTypeErr(b.Cond.Info, "@bool", e.G.TypeName(e.G.Storage.Read(cp.Value).NumericType(e.G.Storage)))
		}
		branch := b.IfFalse
		if bv.Value {
			branch = b.IfTrue
		}
		rs, err := e.EvalExpression(branch, cp.Ctx, acc)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

// evalSwitch is §4.8's switch expression: the scrutinee bag fans out,
// then each instance walks the case list in order, testing value
// equality or pattern membership, falling to the next case in the same
// context on a miss. A case's own test expression can itself split
// context, each split tested independently.
func (e *Evaluator) evalSwitch(b ast.SwitchLit, ctx *Context, acc *Returns) (Returns, error) {
	scrutBag, err := e.EvalExpression(b.Scrutinee, ctx, acc)
	if err != nil {
		return nil, err
	}
	var out Returns
	for _, sp := range scrutBag {
		rs, err := e.matchCases(b.Cases, sp.Value, sp.Ctx, acc)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

func (e *Evaluator) matchCases(cases []ast.SwitchCase, scrutinee ValueRef, ctx *Context, acc *Returns) (Returns, error) {
	if len(cases) == 0 {
		return nil, newRuntimeErr(ast.Info{}, "no switch arm matched the scrutinee")
	}
	head, rest := cases[0], cases[1:]

	switch c := head.(type) {
	case ast.DefaultCase:
		return e.EvalExpression(c.Body, ctx, acc)

	case ast.ValueCase:
		bag, err := e.EvalExpression(c.Expr, ctx, acc)
		if err != nil {
			return nil, err
		}
		var out Returns
		for _, p := range bag {
			eqBag, err := e.HandleOperator(scrutinee, p.Value, "_equal_", p.Ctx, c.Expr.Info)
			if err != nil {
				return nil, err
			}
			for _, ep := range eqBag {
				bv, ok := e.G.Storage.Read(ep.Value).(BoolVal)
				if !ok {
					return nil, newTypeErr(c.Expr.Info, "@bool", e.G.TypeName(e.G.Storage.Read(ep.Value).NumericType(e.G.Storage)))
				}
				if bv.Value {
					rs, err := e.EvalExpression(c.Body, ep.Ctx, acc)
					if err != nil {
						return nil, err
					}
					out = append(out, rs...)
					continue
				}
				rs, err := e.matchCases(rest, scrutinee, ep.Ctx, acc)
				if err != nil {
					return nil, err
				}
				out = append(out, rs...)
			}
		}
		return out, nil

	case ast.PatternCase:
		bag, err := e.EvalExpression(c.Pattern, ctx, acc)
		if err != nil {
			return nil, err
		}
		var out Returns
		for _, p := range bag {
			ok, err := e.G.Matches(scrutinee, p.Value, c.Pattern.Info)
			if err != nil {
				return nil, err
			}
			if ok {
				rs, err := e.EvalExpression(c.Body, p.Ctx, acc)
				if err != nil {
					return nil, err
				}
				out = append(out, rs...)
				continue
			}
			rs, err := e.matchCases(rest, scrutinee, p.Ctx, acc)
			if err != nil {
				return nil, err
			}
			out = append(out, rs...)
		}
		return out, nil

	default:
		return nil, newRuntimeErr(ast.Info{}, "unrecognized switch case kind")
	}
}
