package evaluator

// Pair is one (ValueRef, Context) entry of a Returns bag.
type Pair struct {
	Value ValueRef
	Ctx   *Context
}

// Returns is the bag of (value-id, context) pairs every evaluator
// produces (§2 component 7, Glossary). Context splitting is modeled as
// this first-class slice, never as coroutines or continuations (§9).
type Returns []Pair

// Values returns just the value refs, in bag order.
func (r Returns) Values() []ValueRef {
	out := make([]ValueRef, len(r))
	for i, p := range r {
		out[i] = p.Value
	}
	return out
}

// Combination is one fully-resolved tuple produced by AllCombinations:
// one value per input bag, all under a single merged context history.
type Combination struct {
	Values []ValueRef
	Ctx    *Context
}

// EvalInCtx evaluates the i-th expression of a sequence under a single
// context, returning its Returns bag. Supplied by callers (the variable
// walker, literal evaluators, the macro executor) so AllCombinations stays
// generic over what is being combined.
type EvalInCtx func(index int, ctx *Context) (Returns, error)

// AllCombinations is the Cartesian combinator of §4.13: given n items and
// a way to evaluate item i under a context, it produces every combination
// of outcomes, threading each item's resulting context into the next
// item's evaluation. This is how array literals, call argument lists, and
// dict literals fan a single incoming context out across every element.
func AllCombinations(n int, ctx *Context, eval EvalInCtx) ([]Combination, error) {
	frontier := []Combination{{Values: nil, Ctx: ctx}}
	for i := 0; i < n; i++ {
		var next []Combination
		for _, combo := range frontier {
			rs, err := eval(i, combo.Ctx)
			if err != nil {
				return nil, err
			}
			for _, p := range rs {
				values := make([]ValueRef, len(combo.Values)+1)
				copy(values, combo.Values)
				values[len(combo.Values)] = p.Value
				next = append(next, Combination{Values: values, Ctx: p.Ctx})
			}
		}
		frontier = next
	}
	return frontier, nil
}
