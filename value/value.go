package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Kind identifies which variant of the tagged union a [Value] holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns the lowercase name of the kind, e.g. "object".
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one node of the parse tree. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []*Value
	keys []string
	obj  map[string]*Value
}

// Null returns a null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) *Value { return &Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) *Value { return &Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Array returns an array value holding the given items in order.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, arr: items}
}

// Object returns an empty object value. Keys keep insertion order.
func Object() *Value {
	return &Value{kind: KindObject, obj: make(map[string]*Value)}
}

// Kind reports the variant the value holds.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// BoolVal returns the boolean payload. It is only meaningful for KindBool.
func (v *Value) BoolVal() bool { return v.b }

// IntVal returns the integer payload. It is only meaningful for KindInt.
func (v *Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload. It is only meaningful for KindFloat.
func (v *Value) FloatVal() float64 { return v.f }

// StringVal returns the string payload. It is only meaningful for KindString.
func (v *Value) StringVal() string { return v.s }

// AsFloat returns the numeric payload of an int or float value.
func (v *Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Items returns the backing slice of an array value.
func (v *Value) Items() []*Value { return v.arr }

// Append adds an item to an array value.
func (v *Value) Append(item *Value) {
	v.arr = append(v.arr, item)
}

// Len returns the number of items of an array or entries of an object.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

// Keys returns the object's keys in insertion order.
func (v *Value) Keys() []string { return v.keys }

// Get looks up an object entry by key.
func (v *Value) Get(key string) (*Value, bool) {
	child, ok := v.obj[key]
	return child, ok
}

// Set writes an object entry. A new key keeps insertion order; an existing
// key is overwritten in place.
func (v *Value) Set(key string, child *Value) {
	if _, exists := v.obj[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.obj[key] = child
}

// Interface converts the tree to plain Go values (map[string]any, []any,
// primitives). Object key order is lost; use [Value.MarshalJSON] when order
// matters.
func (v *Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.obj[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface builds a tree from plain Go values as produced by a JSON
// unmarshal into any. Unsupported types return an error.
func FromInterface(data any) (*Value, error) {
	switch d := data.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(d), nil
	case int:
		return Int(int64(d)), nil
	case int64:
		return Int(d), nil
	case float64:
		if d == math.Trunc(d) && !math.IsInf(d, 0) && math.Abs(d) < (1<<53) {
			return Int(int64(d)), nil
		}
		return Float(d), nil
	case string:
		return String(d), nil
	case []any:
		arr := Array()
		for _, item := range d {
			child, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case map[string]any:
		obj := Object()
		for _, k := range sortedKeys(d) {
			child, err := FromInterface(d[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, child)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("value: cannot convert %T", data)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// insertion order is unavailable from a Go map, so fall back to a
	// stable lexical order
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// Clone returns a deep copy of the tree.
func (v *Value) Clone() *Value {
	switch v.kind {
	case KindArray:
		out := Array()
		for _, item := range v.arr {
			out.Append(item.Clone())
		}
		return out
	case KindObject:
		out := Object()
		for _, k := range v.keys {
			out.Set(k, v.obj[k].Clone())
		}
		return out
	default:
		clone := *v
		return &clone
	}
}

// Equal reports deep equality. Arrays compare element-wise in order; objects
// compare by key set regardless of insertion order. Int and float values of
// equal magnitude are distinct.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for _, k := range a.keys {
			bv, ok := b.obj[k]
			if !ok || !Equal(a.obj[k], bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the tree as canonical JSON, preserving object key
// insertion order. NaN and infinite floats are rejected because JSON has no
// representation for them.
func (v *Value) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	if err := v.encode(&sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// Stringify encodes the tree as canonical JSON text.
func Stringify(v *Value) (string, error) {
	if v == nil {
		return "null", nil
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (v *Value) encode(sb *strings.Builder) error {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("value: cannot encode %v as JSON", v.f)
		}
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		quoted, err := gojson.Marshal(v.s)
		if err != nil {
			return err
		}
		sb.Write(quoted)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := item.encode(sb); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			quoted, err := gojson.Marshal(k)
			if err != nil {
				return err
			}
			sb.Write(quoted)
			sb.WriteByte(':')
			if err := v.obj[k].encode(sb); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("value: cannot encode kind %s", v.kind)
	}
	return nil
}
