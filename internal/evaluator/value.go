package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// ValueRef is a key into the Storage arena. It never decreases once
// assigned and is never reused while the referent is alive.
type ValueRef uint64

// Frozen numeric type tags (§6). Used by the converter, the stdlib
// dispatch table, and trigger encoding; never renumber these.
const (
	TypeGroup           = 0
	TypeColor           = 1
	TypeBlock           = 2
	TypeItem            = 3
	TypeNumber          = 4
	TypeBool            = 5
	TypeTriggerFunction = 6
	TypeDictionary      = 7
	TypeMacro           = 8
	TypeString          = 9
	TypeArray           = 10
	TypeObject          = 11
	TypeSpwn            = 12
	TypeBuiltin         = 13
	TypeTypeIndicator   = 14
	TypeNull            = 15
	TypeTrigger         = 16
	TypeRange           = 17
	TypePattern         = 18
	TypeObjectKey       = 19
	TypeEpsilon         = 20
)

// Value is the tagged runtime value variant of §3. Every concrete case
// below implements it; NumericType resolves the §6 tag, consulting st
// only to detect a Dict's TYPE override.
type Value interface {
	NumericType(st *Storage) int
}

type GroupVal struct{ ID ID }
type ColorVal struct{ ID ID }
type BlockVal struct{ ID ID }
type ItemVal struct{ ID ID }
type NumberVal struct{ Value float64 }
type BoolVal struct{ Value bool }
type TriggerFuncVal struct{ StartGroup ID }
type MacroVal struct{ Macro *Macro }
type StrVal struct{ Value string }
type ArrayVal struct{ Elements []ValueRef }

func (*ArrayVal) NumericType(*Storage) int { return TypeArray }
type BuiltinsVal struct{}
type BuiltinFunctionVal struct{ Name string }
type TypeIndicatorVal struct{ TypeID int }
type RangeVal struct {
	Start int32
	End   int32
	Step  uint
}
type PatternVal struct{ Pattern Pattern }
type NullVal struct{}

// DictVal preserves textual key order (§4.10): iterate Keys, not the map.
type DictVal struct {
	Keys    []string
	Entries map[string]ValueRef
}

func NewDict() *DictVal {
	return &DictVal{Entries: make(map[string]ValueRef)}
}

// Set inserts or overwrites a key, appending to Keys only on first insert.
func (d *DictVal) Set(key string, ref ValueRef) {
	if _, ok := d.Entries[key]; !ok {
		d.Keys = append(d.Keys, key)
	}
	d.Entries[key] = ref
}

func (d *DictVal) Get(key string) (ValueRef, bool) {
	ref, ok := d.Entries[key]
	return ref, ok
}

// ObjParam is the wire-shaped encoding of a single Obj field (§6).
type ObjParam interface{ isObjParam() }

type ObjParamNumber struct{ Value float64 }
type ObjParamText struct{ Value string }
type ObjParamGroup struct{ ID ID }
type ObjParamColor struct{ ID ID }
type ObjParamBlock struct{ ID ID }
type ObjParamItem struct{ ID ID }
type ObjParamBool struct{ Value bool }
type ObjParamGroupList struct{ IDs []ID }
type ObjParamEpsilon struct{}

func (ObjParamNumber) isObjParam()    {}
func (ObjParamText) isObjParam()      {}
func (ObjParamGroup) isObjParam()     {}
func (ObjParamColor) isObjParam()     {}
func (ObjParamBlock) isObjParam()     {}
func (ObjParamItem) isObjParam()      {}
func (ObjParamBool) isObjParam()      {}
func (ObjParamGroupList) isObjParam() {}
func (ObjParamEpsilon) isObjParam()   {}

type ObjField struct {
	Key   uint16
	Param ObjParam
}

type ObjVal struct {
	Fields []ObjField
	Mode   ast.ObjectMode
}

func (GroupVal) NumericType(*Storage) int  { return TypeGroup }
func (ColorVal) NumericType(*Storage) int  { return TypeColor }
func (BlockVal) NumericType(*Storage) int  { return TypeBlock }
func (ItemVal) NumericType(*Storage) int   { return TypeItem }
func (NumberVal) NumericType(*Storage) int { return TypeNumber }
func (BoolVal) NumericType(*Storage) int   { return TypeBool }
func (TriggerFuncVal) NumericType(*Storage) int { return TypeTriggerFunction }
func (MacroVal) NumericType(*Storage) int       { return TypeMacro }
func (StrVal) NumericType(*Storage) int         { return TypeString }
func (BuiltinsVal) NumericType(*Storage) int    { return TypeSpwn }
func (BuiltinFunctionVal) NumericType(*Storage) int { return TypeBuiltin }
func (TypeIndicatorVal) NumericType(*Storage) int   { return TypeTypeIndicator }
func (RangeVal) NumericType(*Storage) int           { return TypeRange }
func (PatternVal) NumericType(*Storage) int         { return TypePattern }
func (NullVal) NumericType(*Storage) int            { return TypeNull }

func (o *ObjVal) NumericType(*Storage) int {
	if o.Mode == ast.ObjectModeTrigger {
		return TypeTrigger
	}
	return TypeObject
}

// NumericType for a Dict consults the special TYPE key (§3): if present
// and its stored value is a TypeIndicator(t), report t instead of the
// dictionary fallback.
func (d *DictVal) NumericType(st *Storage) int {
	if ref, ok := d.Entries[TypeKeyName]; ok && st != nil {
		if rec, err := st.read(ref); err == nil {
			if ti, ok := rec.Value.(TypeIndicatorVal); ok {
				return ti.TypeID
			}
		}
	}
	return TypeDictionary
}

// TypeKeyName is the reserved dict/member key `TYPE`.
const TypeKeyName = "TYPE"
