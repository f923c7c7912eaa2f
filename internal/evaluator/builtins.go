package evaluator

import (
	"fmt"

	"github.com/LarsCG/spwn-core/internal/ast"
)

// BuiltinFunc is the signature external built-in function bodies
// implement (§6 "Built-in functions"). The core only specifies the
// dispatch contract of §4.7, not these semantics; the registry below
// supplies a minimal, real arithmetic/comparison stdlib so operator
// dispatch and the evaluator have something concrete to fall through to
// when no user overload applies.
type BuiltinFunc func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error)

// BuiltinRegistry is the name -> implementation table behind
// built_in_function (§6).
type BuiltinRegistry struct {
	fns map[string]BuiltinFunc
}

func NewBuiltinRegistry() *BuiltinRegistry {
	r := &BuiltinRegistry{fns: make(map[string]BuiltinFunc)}
	registerArithmetic(r)
	registerComparison(r)
	registerLogic(r)
	registerCast(r)
	registerAssignment(r)
	registerMisc(r)
	return r
}

func (r *BuiltinRegistry) Register(name string, fn BuiltinFunc) { r.fns[name] = fn }

func (r *BuiltinRegistry) Has(name string) bool {
	_, ok := r.fns[name]
	return ok
}

// Call invokes the named built-in (§6 built_in_function contract).
func (r *BuiltinRegistry) Call(g *Globals, ctx *Context, info ast.Info, name string, args []ValueRef) (Value, error) {
	fn, ok := r.fns[name]
	if !ok {
		return nil, newRuntimeErr(info, "unknown built-in feature %q", name)
	}
	return fn(g, ctx, info, args)
}

func numArg(g *Globals, info ast.Info, ref ValueRef, pos string) (float64, error) {
	switch v := g.Storage.Read(ref).(type) {
	case NumberVal:
		return v.Value, nil
	default:
		return 0, newRuntimeErr(info, "expected @number for %s operand, found %s", pos, g.TypeName(v.NumericType(g.Storage)))
	}
}

func registerArithmetic(r *BuiltinRegistry) {
	bin := func(name string, op func(a, b float64) (Value, error)) {
		r.Register(name, func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
			if len(args) != 2 {
				return nil, newRuntimeErr(info, "%s expects 2 arguments, got %d", name, len(args))
			}
			// String concatenation is the one non-numeric overload _plus_
			// carries by default; the rest are pure arithmetic.
			if name == "_plus_" {
				if sa, ok := g.Storage.Read(args[0]).(StrVal); ok {
					if sb, ok := g.Storage.Read(args[1]).(StrVal); ok {
						return StrVal{Value: sa.Value + sb.Value}, nil
					}
				}
			}
			a, err := numArg(g, info, args[0], "left")
			if err != nil {
				return nil, err
			}
			b, err := numArg(g, info, args[1], "right")
			if err != nil {
				return nil, err
			}
			v, err := op(a, b)
			if err != nil {
				return nil, newRuntimeErr(info, "%s: %v", name, err)
			}
			return v, nil
		})
	}
	bin("_plus_", func(a, b float64) (Value, error) { return NumberVal{Value: a + b}, nil })
	bin("_minus_", func(a, b float64) (Value, error) { return NumberVal{Value: a - b}, nil })
	bin("_times_", func(a, b float64) (Value, error) { return NumberVal{Value: a * b}, nil })
	bin("_divided_by_", func(a, b float64) (Value, error) {
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return NumberVal{Value: a / b}, nil
	})
	bin("_intdivided_by_", func(a, b float64) (Value, error) {
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return NumberVal{Value: float64(int64(a) / int64(b))}, nil
	})
	bin("_mod_", func(a, b float64) (Value, error) {
		if b == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		m := a - b*float64(int64(a/b))
		return NumberVal{Value: m}, nil
	})
	bin("_pow_", func(a, b float64) (Value, error) {
		result := 1.0
		neg := b < 0
		n := int(b)
		if float64(n) != b {
			// Non-integer exponents are outside the minimal stdlib; a
			// richer numeric built-in would use math.Pow here.
			return nil, fmt.Errorf("non-integer exponents are not supported by the core stdlib")
		}
		if neg {
			n = -n
		}
		for i := 0; i < n; i++ {
			result *= a
		}
		if neg {
			if result == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			result = 1 / result
		}
		return NumberVal{Value: result}, nil
	})
}

func registerComparison(r *BuiltinRegistry) {
	numCompare := func(name string, cmp func(a, b float64) bool) {
		r.Register(name, func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
			if len(args) != 2 {
				return nil, newRuntimeErr(info, "%s expects 2 arguments, got %d", name, len(args))
			}
			a, err := numArg(g, info, args[0], "left")
			if err != nil {
				return nil, err
			}
			b, err := numArg(g, info, args[1], "right")
			if err != nil {
				return nil, err
			}
			return BoolVal{Value: cmp(a, b)}, nil
		})
	}
	numCompare("_more_than_", func(a, b float64) bool { return a > b })
	numCompare("_less_than_", func(a, b float64) bool { return a < b })
	numCompare("_more_or_equal_", func(a, b float64) bool { return a >= b })
	numCompare("_less_or_equal_", func(a, b float64) bool { return a <= b })

	r.Register("_equal_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		if len(args) != 2 {
			return nil, newRuntimeErr(info, "_equal_ expects 2 arguments, got %d", len(args))
		}
		return BoolVal{Value: StructurallyEqual(g.Storage, args[0], args[1])}, nil
	})
	r.Register("_not_equal_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		if len(args) != 2 {
			return nil, newRuntimeErr(info, "_not_equal_ expects 2 arguments, got %d", len(args))
		}
		return BoolVal{Value: !StructurallyEqual(g.Storage, args[0], args[1])}, nil
	})
}

// registerCast backs the `value as @type` dispatch of §4.5 Phase 2's
// Call-on-TypeIndicator case: the built-in fallback of the `_as_`
// overload name.
func registerCast(r *BuiltinRegistry) {
	r.Register("_as_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		if len(args) != 2 {
			return nil, newRuntimeErr(info, "_as_ expects 2 arguments, got %d", len(args))
		}
		ti, ok := g.Storage.Read(args[1]).(TypeIndicatorVal)
		if !ok {
			return nil, newTypeErr(info, "@type_indicator", g.TypeName(g.Storage.Read(args[1]).NumericType(g.Storage)))
		}
		return g.Convert(args[0], ti.TypeID, info)
	})
}

// AssignOpNames are the operator names whose built-in fallback mutates
// the left operand's arena slot in place rather than producing a fresh
// value (§4.7's "not a per-call overload" assignment family). callBuiltin
// in operators.go special-cases these instead of storing a new ref.
var AssignOpNames = map[string]bool{
	"_assign_": true, "_add_": true, "_subtract_": true, "_multiply_": true,
	"_divide_": true, "_exponate_": true, "_modulate_": true, "_intdivide_": true,
}

// registerAssignment computes the *new* value each `=`/`+=`-family
// operator would assign; the caller (callBuiltin) is responsible for
// writing it back into the left operand's slot instead of minting a new
// ValueRef, since these ops target an lvalue.
func registerAssignment(r *BuiltinRegistry) {
	r.Register("_assign_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		return g.Storage.Read(args[1]), nil
	})
	compound := func(name, plainName string) {
		r.Register(name, func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
			return g.Builtins.Call(g, ctx, info, plainName, args)
		})
	}
	compound("_add_", "_plus_")
	compound("_subtract_", "_minus_")
	compound("_multiply_", "_times_")
	compound("_divide_", "_divided_by_")
	compound("_exponate_", "_pow_")
	compound("_modulate_", "_mod_")
	compound("_intdivide_", "_intdivided_by_")
}

// registerMisc backs the remaining §4.6 operators that are not part of
// the assignment family and produce an ordinary fresh value: range
// construction, either-pattern combination, and membership testing.
func registerMisc(r *BuiltinRegistry) {
	r.Register("_range_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		a, err := numArg(g, info, args[0], "left")
		if err != nil {
			return nil, err
		}
		b, err := numArg(g, info, args[1], "right")
		if err != nil {
			return nil, err
		}
		return RangeVal{Start: int32(a), End: int32(b), Step: 1}, nil
	})
	r.Register("_either_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		pa, err := g.AsPattern(args[0], info)
		if err != nil {
			return nil, err
		}
		pb, err := g.AsPattern(args[1], info)
		if err != nil {
			return nil, err
		}
		return PatternVal{Pattern: PatternEither{A: pa, B: pb}}, nil
	})
	r.Register("_has_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		switch c := g.Storage.Read(args[0]).(type) {
		case *ArrayVal:
			for _, el := range c.Elements {
				if StructurallyEqual(g.Storage, el, args[1]) {
					return BoolVal{Value: true}, nil
				}
			}
			return BoolVal{Value: false}, nil
		case *DictVal:
			key, ok := g.Storage.Read(args[1]).(StrVal)
			if !ok {
				return nil, newTypeErr(info, "@string", g.TypeName(g.Storage.Read(args[1]).NumericType(g.Storage)))
			}
			_, ok = c.Get(key.Value)
			return BoolVal{Value: ok}, nil
		default:
			return nil, newTypeErr(info, "@array or @dictionary", g.TypeName(c.NumericType(g.Storage)))
		}
	})
}

func registerLogic(r *BuiltinRegistry) {
	boolArg := func(g *Globals, info ast.Info, ref ValueRef, pos string) (bool, error) {
		v, ok := g.Storage.Read(ref).(BoolVal)
		if !ok {
			return false, newRuntimeErr(info, "expected @bool for %s operand", pos)
		}
		return v.Value, nil
	}
	r.Register("_or_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		a, err := boolArg(g, info, args[0], "left")
		if err != nil {
			return nil, err
		}
		b, err := boolArg(g, info, args[1], "right")
		if err != nil {
			return nil, err
		}
		return BoolVal{Value: a || b}, nil
	})
	r.Register("_and_", func(g *Globals, ctx *Context, info ast.Info, args []ValueRef) (Value, error) {
		a, err := boolArg(g, info, args[0], "left")
		if err != nil {
			return nil, err
		}
		b, err := boolArg(g, info, args[1], "right")
		if err != nil {
			return nil, err
		}
		return BoolVal{Value: a && b}, nil
	})
}
