package ir

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// Value is a sealed interface representing the values a statement can embed.
// Only Null, Text, Int, Float, Bool, Blob and List implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents SQL NULL. An absent value and an explicit null are the same.
type Null struct{}

func (Null) value() {}

// Text represents a string value.
type Text string

func (Text) value() {}

// Int represents an integer value.
type Int int64

func (Int) value() {}

// Float represents a floating point value.
type Float float64

func (Float) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Blob represents binary data. Blobs are embedded as quoted hex text.
type Blob []byte

func (Blob) value() {}

// List is an ordered sequence of scalar values, used for membership tests.
// A List never contains another List.
type List []Value

func (List) value() {}

// TimeLayout is the textual form used when a time.Time is converted to Text.
const TimeLayout = time.RFC3339Nano

// IsScalar reports whether v is one of the scalar variants (anything but List).
func IsScalar(v Value) bool {
	_, isList := v.(List)
	return !isList
}

// FromGo converts a plain Go value into a Value.
//
// Supported inputs:
//   - nil, nil pointers            → Null
//   - Null, Text, Int, Float, Bool, Blob → returned unchanged
//   - List                         → elements converted; nested lists rejected
//   - string                       → Text
//   - []byte                       → Blob
//   - bool                         → Bool
//   - signed and unsigned integers → Int (uint64 above MaxInt64 is rejected)
//   - float32, float64             → Float
//   - json.Number                  → Int when integral, Float otherwise
//   - time.Time                    → Text in UTC using TimeLayout
//   - slices and arrays            → List of converted scalars
//   - pointers                     → converted pointee
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Null, Text, Int, Float, Bool, Blob:
		return val.(Value), nil
	case List:
		return flatten(val)
	case string:
		return Text(val), nil
	case []byte:
		return Blob(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUnsigned(uint64(val))
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return fromUnsigned(val)
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		return fromNumber(val)
	case time.Time:
		return Text(val.UTC().Format(TimeLayout)), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

// MustFromGo is like FromGo but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFromGo(v any) Value {
	val, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return val
}

func fromUnsigned(n uint64) (Value, error) {
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("unsigned integer %d overflows int64", n)
	}
	return Int(n), nil
}

func fromNumber(n json.Number) (Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number: %s", s)
	}
	return Float(f), nil
}

// fromReflect handles pointers and slice/array kinds that the type switch
// cannot enumerate.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}, nil
		}
		list := make(List, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			if !IsScalar(elem) {
				return nil, fmt.Errorf("list[%d]: nested lists are not supported", i)
			}
			list[i] = elem
		}
		return list, nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUnsigned(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Invalid:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", rv.Type())
	}
}

// flatten converts every element of list, so pointer variants such as
// *Text become their pointee, and rejects nested lists.
func flatten(list List) (Value, error) {
	out := make(List, len(list))
	for i, elem := range list {
		v, err := FromGo(elem)
		if err != nil {
			return nil, fmt.Errorf("list[%d]: %w", i, err)
		}
		if !IsScalar(v) {
			return nil, fmt.Errorf("list[%d]: nested lists are not supported", i)
		}
		out[i] = v
	}
	return out, nil
}

// ToGo converts a Value back to a plain Go value suitable for JSON output.
// Blobs become lowercase hex strings.
func ToGo(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case Text:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Blob:
		return hex.EncodeToString(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToGo(elem)
		}
		return out
	default:
		return fmt.Sprintf("%v", val)
	}
}

// KindOf returns a short lowercase name for the variant of v.
func KindOf(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case Text:
		return "text"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Blob:
		return "blob"
	case List:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
