package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// EvalExpression is §4.6's expression evaluator: for each context
// produced by evaluating the leftmost Variable, fold left across the
// remaining (Operator, Variable) pairs, splitting context on every step.
//
// acc accumulates any explicit-return pairs surfaced by a nested
// compound-statement value embedded anywhere in expr (§4.5's "inner
// returns"); pass a fresh *Returns and inspect it after the call.
func (e *Evaluator) EvalExpression(expr *ast.Expression, ctx *Context, acc *Returns) (Returns, error) {
	left, err := e.EvalVariable(expr.First, ctx, acc)
	if err != nil {
		return nil, err
	}

	for _, step := range expr.Rest {
		var folded Returns
		for _, lp := range left {
			rs, err := e.foldStep(step.Op, lp, step.Value, acc)
			if err != nil {
				return nil, err
			}
			folded = append(folded, rs...)
		}
		left = e.G.EnforceContextMaxReturns(folded)
	}
	return left, nil
}

// foldStep applies one (op, rightVariable) pair against a single left
// (value, context) pair, per the §4.6 fold rule.
func (e *Evaluator) foldStep(op ast.Operator, lp Pair, rightVar *ast.Variable, acc *Returns) (Returns, error) {
	leftVal := e.G.Storage.Read(lp.Value)

	if op == ast.Or {
		if b, ok := leftVal.(BoolVal); ok && b.Value {
			if !e.isOverloaded(lp.Value, ast.Or.MacroName()) {
				// Short-circuit: b's effects are never evaluated (§4.6,
				// testable property 6).
				return Returns{{Value: e.G.Storage.StoreConst(BoolVal{Value: true}, lp.Ctx.FuncID), Ctx: lp.Ctx}}, nil
			}
		}
	}
	if op == ast.And {
		if b, ok := leftVal.(BoolVal); ok && !b.Value {
			if !e.isOverloaded(lp.Value, ast.And.MacroName()) {
				return Returns{{Value: e.G.Storage.StoreConst(BoolVal{Value: false}, lp.Ctx.FuncID), Ctx: lp.Ctx}}, nil
			}
		}
	}

	rightBag, err := e.EvalVariable(rightVar, lp.Ctx, acc)
	if err != nil {
		return nil, err
	}

	var out Returns
	for _, rp := range rightBag {
		rs, err := e.HandleOperator(lp.Value, rp.Value, op.MacroName(), rp.Ctx, rightVar.Info)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

// isOverloaded reports whether name is overloaded on value's type, used
// solely to decide whether the and/or short-circuit of §4.6 applies
// (overloads on Bool must never be shadowed by the built-in rule).
func (e *Evaluator) isOverloaded(ref ValueRef, name string) bool {
	v := e.G.Storage.Read(ref)
	_, ok := e.G.Implementation(v.NumericType(e.G.Storage), name)
	return ok
}
