package delos

import (
	"fmt"
	"math"
	"reflect"
)

// ValueKind discriminates the variants of a Value.
type ValueKind int

// Value kinds.
const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a tagged variant holding one JSON-representable value. It is
// the validated form free-form payloads pass through before they cross
// the wire in either direction.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []Value
	m    map[string]Value
}

// Kind returns the variant kind.
func (v Value) Kind() ValueKind {
	return v.kind
}

// NewValue converts a Go value into a Value. Supported inputs are nil,
// strings, bools, all integer and float kinds, []any, and map[string]any,
// nested to any depth. NaN, infinities, cyclic references, and any other
// type are rejected with a *ConversionError. Integers convert to float64,
// matching what the JSON wire carries.
func NewValue(v any) (Value, error) {
	return newValue(v, "", make(map[uintptr]struct{}))
}

// newValue recursively converts v, tracking container pointers on the
// current path to catch cycles.
func newValue(v any, path string, seen map[uintptr]struct{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{kind: KindNull}, nil
	case string:
		return Value{kind: KindString, str: x}, nil
	case bool:
		return Value{kind: KindBool, b: x}, nil
	case int:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case int8:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case int16:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case int32:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case int64:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case uint:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case uint8:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case uint16:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case uint32:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case uint64:
		return Value{kind: KindNumber, num: float64(x)}, nil
	case float32:
		return newFloat(float64(x), path)
	case float64:
		return newFloat(x, path)
	case []any:
		return newList(x, path, seen)
	case map[string]any:
		return newMap(x, path, seen)
	default:
		return Value{}, &ConversionError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported type %T", v),
		}
	}
}

func newFloat(f float64, path string) (Value, error) {
	if math.IsNaN(f) {
		return Value{}, &ConversionError{Path: path, Reason: "NaN is not representable"}
	}
	if math.IsInf(f, 0) {
		return Value{}, &ConversionError{Path: path, Reason: "infinity is not representable"}
	}
	return Value{kind: KindNumber, num: f}, nil
}

func newList(items []any, path string, seen map[uintptr]struct{}) (Value, error) {
	ptr := uintptr(0)
	if len(items) > 0 {
		ptr = reflect.ValueOf(items).Pointer()
		if _, ok := seen[ptr]; ok {
			return Value{}, &ConversionError{Path: path, Reason: "cyclic reference"}
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
	}

	list := make([]Value, len(items))
	for i, item := range items {
		v, err := newValue(item, fmt.Sprintf("%s[%d]", path, i), seen)
		if err != nil {
			return Value{}, err
		}
		list[i] = v
	}
	return Value{kind: KindList, list: list}, nil
}

func newMap(fields map[string]any, path string, seen map[uintptr]struct{}) (Value, error) {
	ptr := uintptr(0)
	if len(fields) > 0 {
		ptr = reflect.ValueOf(fields).Pointer()
		if _, ok := seen[ptr]; ok {
			return Value{}, &ConversionError{Path: path, Reason: "cyclic reference"}
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
	}

	m := make(map[string]Value, len(fields))
	for k, field := range fields {
		childPath := k
		if path != "" {
			childPath = path + "." + k
		}
		v, err := newValue(field, childPath, seen)
		if err != nil {
			return Value{}, err
		}
		m[k] = v
	}
	return Value{kind: KindMap, m: m}, nil
}

// Interface converts the Value back into its plain Go form: nil, string,
// float64, bool, []any, or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, field := range v.m {
			out[k] = field.Interface()
		}
		return out
	default:
		return nil
	}
}

// toWireMap validates a free-form payload and returns the copy that goes
// on the wire. A nil map stays nil. The first unrepresentable value aborts
// the conversion with a *ConversionError locating it.
func toWireMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		val, err := newValue(v, k, make(map[uintptr]struct{}))
		if err != nil {
			return nil, err
		}
		out[k] = val.Interface()
	}
	return out, nil
}

// fromWireMap copies a decoded wire payload into a fresh map. Wire data
// arrives JSON-decoded, so every value is representable.
func fromWireMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if val, err := NewValue(v); err == nil {
			out[k] = val.Interface()
		} else {
			out[k] = v
		}
	}
	return out
}
