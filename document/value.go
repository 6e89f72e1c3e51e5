package document

import (
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindObject
	KindArray
	KindString
	KindBool
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Value is a JSON value: exactly one of object, array, string, boolean, number or null.
//
// The zero Value is null. Scalars keep their textual form; for parsed values that text is a
// sub-slice of the parsed input. A Value holding a container owns it: Clone copies it, plain
// assignment shares it.
type Value struct {
	kind Kind
	raw  []byte
	obj  *Object
	arr  *Array

	// escape is set on strings built from Go text; they are escaped when written.
	escape bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value holding s unescaped. It is escaped when serialized.
func String(s string) Value {
	return Value{kind: KindString, raw: []byte(s), escape: true}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, raw: boolText(b)}
}

// Int returns a number value.
func Int(i int64) Value {
	return Value{kind: KindNumber, raw: strconv.AppendInt(nil, i, 10)}
}

// Uint returns a number value.
func Uint(u uint64) Value {
	return Value{kind: KindNumber, raw: strconv.AppendUint(nil, u, 10)}
}

// Float returns a number value. NaN and infinities have no JSON form and yield null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, raw: strconv.AppendFloat(nil, f, 'g', -1, 64)}
}

// ObjectValue wraps o. The value takes ownership of o.
func ObjectValue(o *Object) Value {
	return Value{kind: KindObject, obj: o}
}

// ArrayValue wraps a. The value takes ownership of a.
func ArrayValue(a *Array) Value {
	return Value{kind: KindArray, arr: a}
}

func boolText(b bool) []byte {
	if b {
		return []byte("true")
	}
	return []byte("false")
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsObject() bool { return v.kind == KindObject }
func (v Value) IsArray() bool  { return v.kind == KindArray }

// IsEmpty reports whether v is null or an empty container.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindObject:
		return v.obj != nil && v.obj.IsEmpty()
	case KindArray:
		return v.arr != nil && v.arr.IsEmpty()
	}
	return false
}

// Raw returns the stored text of a scalar. For strings it is the text between the quotes,
// still escaped when the value was parsed. Containers and null return nil.
func (v Value) Raw() []byte {
	switch v.kind {
	case KindString, KindBool, KindNumber:
		return v.raw
	}
	return nil
}

// AsString returns the text of a string value.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", &TypeError{Want: KindString, Got: v.kind}
	}
	return string(v.raw), nil
}

// Bool coerces v to a boolean: true, a non-zero number and the string "true" are true.
func (v Value) Bool() bool {
	switch v.kind {
	case KindBool:
		return len(v.raw) > 0 && v.raw[0] == 't'
	case KindNumber:
		i, _ := v.AsInt64()
		return i != 0
	case KindString:
		return string(v.raw) == "true"
	}
	return false
}

// numericText returns the text to interpret as a number, or ok=false for null.
func (v Value) numericText(want Kind) (text string, ok bool, err error) {
	switch v.kind {
	case KindNull:
		return "", false, nil
	case KindNumber, KindString:
		return string(v.raw), true, nil
	}
	return "", false, &TypeError{Want: want, Got: v.kind}
}

// AsInt64 interprets a number or string as an integer. Null is 0. Fractional numbers are
// truncated.
func (v Value) AsInt64() (int64, error) {
	text, ok, err := v.numericText(KindNumber)
	if !ok {
		return 0, err
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &NumberError{Text: text, Err: err}
	}
	return int64(f), nil
}

// AsInt is AsInt64 narrowed to int.
func (v Value) AsInt() (int, error) {
	i, err := v.AsInt64()
	return int(i), err
}

// AsUint interprets a number or string as an unsigned integer. Null is 0.
func (v Value) AsUint() (uint64, error) {
	text, ok, err := v.numericText(KindNumber)
	if !ok {
		return 0, err
	}
	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return u, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 {
		return 0, &NumberError{Text: text, Err: err}
	}
	return uint64(f), nil
}

// AsFloat interprets a number or string as a float. Null is 0.
func (v Value) AsFloat() (float64, error) {
	text, ok, err := v.numericText(KindNumber)
	if !ok {
		return 0, err
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &NumberError{Text: text, Err: err}
	}
	return f, nil
}

// AsObject returns the object held by v.
func (v Value) AsObject() (*Object, error) {
	if v.kind != KindObject {
		return nil, &TypeError{Want: KindObject, Got: v.kind}
	}
	if v.obj == nil {
		return nil, ErrMissingInstance
	}
	return v.obj, nil
}

// AsArray returns the array held by v.
func (v Value) AsArray() (*Array, error) {
	if v.kind != KindArray {
		return nil, &TypeError{Want: KindArray, Got: v.kind}
	}
	if v.arr == nil {
		return nil, ErrMissingInstance
	}
	return v.arr, nil
}

// Clone returns a deep copy of v that shares no memory with it.
func (v Value) Clone() Value {
	c := Value{kind: v.kind, escape: v.escape}
	if v.raw != nil {
		c.raw = append([]byte(nil), v.raw...)
	}
	if v.obj != nil {
		c.obj = v.obj.Clone()
	}
	if v.arr != nil {
		c.arr = v.arr.Clone()
	}
	return c
}

// set replaces a scalar. Values already holding a container cannot be reset.
func (v *Value) set(nv Value) error {
	if v.kind == KindObject || v.kind == KindArray {
		return ErrAlreadySet
	}
	*v = nv
	return nil
}

func (v *Value) SetString(s string) error { return v.set(String(s)) }
func (v *Value) SetBool(b bool) error     { return v.set(Bool(b)) }
func (v *Value) SetInt(i int64) error     { return v.set(Int(i)) }
func (v *Value) SetUint(u uint64) error   { return v.set(Uint(u)) }
func (v *Value) SetFloat(f float64) error { return v.set(Float(f)) }

// SetObject turns a null value into an object owning o.
func (v *Value) SetObject(o *Object) error {
	if v.kind != KindNull {
		return ErrAlreadySet
	}
	*v = ObjectValue(o)
	return nil
}

// SetArray turns a null value into an array owning a.
func (v *Value) SetArray(a *Array) error {
	if v.kind != KindNull {
		return ErrAlreadySet
	}
	*v = ArrayValue(a)
	return nil
}

// String renders v as compact JSON.
func (v Value) String() string {
	return string(AppendCompact(nil, v))
}
