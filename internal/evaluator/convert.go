package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LarsCG/spwn-core/internal/ast"
)

func idSuffix(class ast.IDClass) string {
	switch class {
	case ast.IDGroup:
		return "g"
	case ast.IDColor:
		return "c"
	case ast.IDBlock:
		return "b"
	case ast.IDItem:
		return "i"
	default:
		return "?"
	}
}

func idString(id ID) string {
	if !id.Specific {
		return "?" + idSuffix(id.Class)
	}
	return strconv.Itoa(int(id.Value)) + idSuffix(id.Class)
}

// ToStr implements the stringification side of §4.3: target type string.
func (g *Globals) ToStr(ref ValueRef) string {
	switch v := g.Storage.Read(ref).(type) {
	case NumberVal:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case BoolVal:
		return strconv.FormatBool(v.Value)
	case StrVal:
		return v.Value
	case NullVal:
		return "null"
	case GroupVal:
		return idString(v.ID)
	case ColorVal:
		return idString(v.ID)
	case BlockVal:
		return idString(v.ID)
	case ItemVal:
		return idString(v.ID)
	case TriggerFuncVal:
		return "!{" + idString(v.StartGroup) + "}"
	case TypeIndicatorVal:
		return "@" + g.TypeName(v.TypeID)
	case BuiltinsVal:
		return "$"
	case BuiltinFunctionVal:
		return "<built-in function: " + v.Name + ">"
	case RangeVal:
		return fmt.Sprintf("%d..%d", v.Start, v.End)
	case MacroVal:
		return "<macro>"
	case *ArrayVal:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = g.ToStr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *DictVal:
		parts := make([]string, 0, len(v.Keys))
		for _, k := range v.Keys {
			parts = append(parts, k+": "+g.ToStr(v.Entries[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ObjVal:
		return fmt.Sprintf("<object, %d fields>", len(v.Fields))
	case PatternVal:
		return "<pattern>"
	default:
		return "<unknown>"
	}
}

// Convert implements convert_type (§4.3). It does not mutate the arena;
// callers that need a fresh ref should Store the result themselves.
func (g *Globals) Convert(ref ValueRef, target int, info ast.Info) (Value, error) {
	v := g.Storage.Read(ref)
	if v.NumericType(g.Storage) == target {
		return v, nil
	}
	if target == TypeString {
		return StrVal{Value: g.ToStr(ref)}, nil
	}

	switch src := v.(type) {
	case NumberVal:
		n := src.Value
		switch target {
		case TypeGroup:
			return GroupVal{ID: SpecificID(ast.IDGroup, uint16(n))}, nil
		case TypeColor:
			return ColorVal{ID: SpecificID(ast.IDColor, uint16(n))}, nil
		case TypeBlock:
			return BlockVal{ID: SpecificID(ast.IDBlock, uint16(n))}, nil
		case TypeItem:
			return ItemVal{ID: SpecificID(ast.IDItem, uint16(n))}, nil
		case TypeBool:
			return BoolVal{Value: n != 0}, nil
		}
	case GroupVal:
		if target == TypeNumber {
			if !src.ID.Specific {
				return nil, newRuntimeErr(info, "this group's id isn't known at this time")
			}
			return NumberVal{Value: float64(src.ID.Value)}, nil
		}
	case ColorVal:
		if target == TypeNumber {
			if !src.ID.Specific {
				return nil, newRuntimeErr(info, "this color's id isn't known at this time")
			}
			return NumberVal{Value: float64(src.ID.Value)}, nil
		}
	case BlockVal:
		if target == TypeNumber {
			if !src.ID.Specific {
				return nil, newRuntimeErr(info, "this block's id isn't known at this time")
			}
			return NumberVal{Value: float64(src.ID.Value)}, nil
		}
	case ItemVal:
		if target == TypeNumber {
			if !src.ID.Specific {
				return nil, newRuntimeErr(info, "this item's id isn't known at this time")
			}
			return NumberVal{Value: float64(src.ID.Value)}, nil
		}
	case BoolVal:
		if target == TypeNumber {
			if src.Value {
				return NumberVal{Value: 1}, nil
			}
			return NumberVal{Value: 0}, nil
		}
	case TriggerFuncVal:
		if target == TypeGroup {
			return GroupVal{ID: src.StartGroup}, nil
		}
	case RangeVal:
		if target == TypeArray {
			return g.materializeRange(src), nil
		}
	case StrVal:
		if target == TypeNumber {
			n, err := strconv.ParseFloat(src.Value, 64)
			if err != nil {
				return nil, newRuntimeErr(info, "Cannot convert '%s' to @number", src.Value)
			}
			return NumberVal{Value: n}, nil
		}
		if target == TypeArray {
			elems := make([]ValueRef, 0, len(src.Value))
			for _, r := range src.Value {
				elems = append(elems, g.Storage.StoreConst(StrVal{Value: string(r)}, 0))
			}
			return &ArrayVal{Elements: elems}, nil
		}
	case *ArrayVal:
		if target == TypePattern {
			elements := make([]Pattern, len(src.Elements))
			for i, el := range src.Elements {
				p, err := g.AsPattern(el, info)
				if err != nil {
					return nil, err
				}
				elements[i] = p
			}
			return PatternVal{Pattern: PatternArray{Elements: elements}}, nil
		}
	case TypeIndicatorVal:
		if target == TypePattern {
			return PatternVal{Pattern: PatternType{TypeID: src.TypeID}}, nil
		}
	}

	return nil, newRuntimeErr(info, "cannot convert @%s to @%s", g.TypeName(v.NumericType(g.Storage)), g.TypeName(target))
}

// materializeRange implements the Range->Array leg of §4.3: a..b,
// stepping forward when a<b (stopping before b), reversed when a>b.
func (g *Globals) materializeRange(r RangeVal) *ArrayVal {
	step := r.Step
	if step == 0 {
		step = 1
	}
	var nums []int32
	if r.Start < r.End {
		for n := r.Start; n < r.End; n += int32(step) {
			nums = append(nums, n)
		}
	} else {
		// a > b: materialize (b..a).step(s) ascending, then reverse — the
		// descending sequence never includes a itself (the open end of
		// the forward range it mirrors).
		for n := r.End; n < r.Start; n += int32(step) {
			nums = append(nums, n)
		}
		for i, j := 0, len(nums)-1; i < j; i, j = i+1, j-1 {
			nums[i], nums[j] = nums[j], nums[i]
		}
	}
	elems := make([]ValueRef, len(nums))
	for i, n := range nums {
		elems[i] = g.Storage.StoreConst(NumberVal{Value: float64(n)}, 0)
	}
	return &ArrayVal{Elements: elems}
}
