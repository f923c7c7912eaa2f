package evaluator

// StructurallyEqual implements the value-equality the merger and the
// `_equal_`/`_not_equal_` builtins rely on (§4.2b): Array/Dict compare
// recursively by value, everything else by direct equality of its
// (already-resolved) leaf representation.
func StructurallyEqual(st *Storage, a, b ValueRef) bool {
	return structurallyEqual(st, a, b, make(map[[2]ValueRef]bool))
}

func structurallyEqual(st *Storage, a, b ValueRef, seen map[[2]ValueRef]bool) bool {
	key := [2]ValueRef{a, b}
	if seen[key] {
		return true // already assumed equal on this recursion path; breaks cycles
	}
	seen[key] = true

	va := st.Read(a)
	vb := st.Read(b)

	switch x := va.(type) {
	case *ArrayVal:
		y, ok := vb.(*ArrayVal)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !structurallyEqual(st, x.Elements[i], y.Elements[i], seen) {
				return false
			}
		}
		return true
	case *DictVal:
		y, ok := vb.(*DictVal)
		if !ok || len(x.Keys) != len(y.Keys) {
			return false
		}
		for _, k := range x.Keys {
			yref, ok := y.Entries[k]
			if !ok {
				return false
			}
			if !structurallyEqual(st, x.Entries[k], yref, seen) {
				return false
			}
		}
		return true
	case NumberVal:
		y, ok := vb.(NumberVal)
		return ok && x.Value == y.Value
	case StrVal:
		y, ok := vb.(StrVal)
		return ok && x.Value == y.Value
	case BoolVal:
		y, ok := vb.(BoolVal)
		return ok && x.Value == y.Value
	case NullVal:
		_, ok := vb.(NullVal)
		return ok
	case GroupVal:
		y, ok := vb.(GroupVal)
		return ok && x.ID == y.ID
	case ColorVal:
		y, ok := vb.(ColorVal)
		return ok && x.ID == y.ID
	case BlockVal:
		y, ok := vb.(BlockVal)
		return ok && x.ID == y.ID
	case ItemVal:
		y, ok := vb.(ItemVal)
		return ok && x.ID == y.ID
	case TriggerFuncVal:
		y, ok := vb.(TriggerFuncVal)
		return ok && x.StartGroup == y.StartGroup
	case TypeIndicatorVal:
		y, ok := vb.(TypeIndicatorVal)
		return ok && x.TypeID == y.TypeID
	case BuiltinFunctionVal:
		y, ok := vb.(BuiltinFunctionVal)
		return ok && x.Name == y.Name
	case RangeVal:
		y, ok := vb.(RangeVal)
		return ok && x == y
	case BuiltinsVal:
		_, ok := vb.(BuiltinsVal)
		return ok
	case MacroVal:
		y, ok := vb.(MacroVal)
		return ok && x.Macro == y.Macro // closures compare by identity
	default:
		return false
	}
}
