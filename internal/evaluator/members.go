package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// Member implements Value::member (§4.11). It returns the resolved
// ValueRef, or ok==false if name is not found on value.
func (g *Globals) Member(valueRef ValueRef, name string, info ast.Info) (ValueRef, bool) {
	v := g.Storage.Read(valueRef)

	if name == TypeKeyName {
		return g.Storage.StoreConst(TypeIndicatorVal{TypeID: v.NumericType(g.Storage)}, 0), true
	}

	if d, ok := v.(*DictVal); ok {
		if ref, ok := d.Get(name); ok {
			return ref, true
		}
		// fall through: a Dict may still carry implementations via its
		// reported TYPE override.
	}

	if tf, ok := v.(TriggerFuncVal); ok && name == "start_group" {
		return g.Storage.StoreConst(GroupVal{ID: tf.StartGroup}, 0), true
	}

	impl, ok := g.Implementation(v.NumericType(g.Storage), name)
	if !ok {
		return 0, false
	}
	return impl.Value, true
}
