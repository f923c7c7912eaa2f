package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// Pattern is the runtime-matchable type predicate of §3/§4.4.
type Pattern interface{ isPattern() }

type PatternType struct{ TypeID int }
type PatternArray struct{ Elements []Pattern }
type PatternEither struct{ A, B Pattern }

func (PatternType) isPattern()   {}
func (PatternArray) isPattern()  {}
func (PatternEither) isPattern() {}

// AsPattern coerces val (read from ref) to a Pattern via §4.3's
// TypeIndicator/Array conversion rules, storing any freshly-created
// child values along the way.
func (g *Globals) AsPattern(ref ValueRef, info ast.Info) (Pattern, error) {
	v := g.Storage.Read(ref)
	if p, ok := v.(PatternVal); ok {
		return p.Pattern, nil
	}
	converted, err := g.Convert(ref, TypePattern, info)
	if err != nil {
		return nil, err
	}
	p, ok := converted.(PatternVal)
	if !ok {
		return nil, newRuntimeErr(info, "value of type %s cannot be used as a pattern", g.TypeName(v.NumericType(g.Storage)))
	}
	return p.Pattern, nil
}

// Matches implements matches_pattern (§4.4): value.matches(pat), with pat
// first coerced to a Pattern.
func (g *Globals) Matches(valueRef ValueRef, patternRef ValueRef, info ast.Info) (bool, error) {
	pat, err := g.AsPattern(patternRef, info)
	if err != nil {
		return false, err
	}
	return g.matches(valueRef, pat, info)
}

func (g *Globals) matches(valueRef ValueRef, pat Pattern, info ast.Info) (bool, error) {
	v := g.Storage.Read(valueRef)
	switch p := pat.(type) {
	case PatternType:
		return v.NumericType(g.Storage) == p.TypeID, nil
	case PatternEither:
		ok, err := g.matches(valueRef, p.A, info)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		return g.matches(valueRef, p.B, info)
	case PatternArray:
		switch len(p.Elements) {
		case 0:
			return true, nil // empty pattern matches any array
		case 1:
			arr, ok := v.(*ArrayVal)
			if !ok {
				return false, nil
			}
			for _, el := range arr.Elements {
				ok, err := g.matches(el, p.Elements[0], info)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}
			return true, nil
		default:
			return false, newRuntimeErr(info, "arrays with multiple elements cannot be used as patterns (yet)")
		}
	default:
		return false, newRuntimeErr(info, "unrecognized pattern")
	}
}
