package document

import (
	"iter"
	"maps"
	"slices"
)

// Object is a JSON object: a set of members with unique keys.
// Iteration and serialization visit members in lexicographic key order.
type Object struct {
	members map[string]Value

	// escape holds the keys set from Go text that must be escaped when written.
	// Parsed keys are kept as they appeared on the wire.
	escape map[string]bool
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{members: make(map[string]Value)}
}

func (o *Object) init() {
	if o.members == nil {
		o.members = make(map[string]Value)
	}
}

// Set inserts the member, overwriting any member with the same key. The key is plain text
// and is escaped when written.
func (o *Object) Set(key string, v Value) {
	o.setRaw(key, v)
	if needsEscape(key) {
		if o.escape == nil {
			o.escape = make(map[string]bool)
		}
		o.escape[key] = true
	}
}

// setRaw inserts a member whose key is already in wire form.
func (o *Object) setRaw(key string, v Value) {
	o.init()
	o.members[key] = v
	delete(o.escape, key)
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '"' || c == '\\' || c < 0x20 {
			return true
		}
	}
	return false
}

// appendKey appends the quoted key in wire form.
func (o *Object) appendKey(dst []byte, key string) []byte {
	dst = append(dst, '"')
	if o.escape[key] {
		dst = AppendEscaped(dst, []byte(key))
	} else {
		dst = append(dst, key...)
	}
	return append(dst, '"')
}

// Has reports whether the member exists.
func (o *Object) Has(key string) bool {
	_, ok := o.members[key]
	return ok
}

// Get returns the member and whether it exists.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.members[key]
	return v, ok
}

// Value returns the member, or a *KeyError when it does not exist.
func (o *Object) Value(key string) (Value, error) {
	v, ok := o.members[key]
	if !ok {
		return Value{}, &KeyError{Key: key}
	}
	return v, nil
}

// Delete removes the member if present.
func (o *Object) Delete(key string) {
	delete(o.members, key)
	delete(o.escape, key)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

func (o *Object) IsEmpty() bool  { return o.Len() == 0 }
func (o *Object) Keys() []string { return slices.Sorted(maps.Keys(o.members)) }

func (o *Object) Clear() {
	clear(o.members)
	clear(o.escape)
}

// All iterates over members in key order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range o.Keys() {
			if !yield(k, o.members[k]) {
				return
			}
		}
	}
}

// Append merges the members of other into o. It fails without modifying o when a key exists
// in both objects. A nil other is empty.
func (o *Object) Append(other *Object) error {
	if other == nil {
		return nil
	}
	for k := range other.members {
		if _, ok := o.members[k]; ok {
			return &DuplicateKeyError{Key: k}
		}
	}
	for k, v := range other.members {
		if other.escape[k] {
			o.Set(k, v)
		} else {
			o.setRaw(k, v)
		}
	}
	return nil
}

// Contains reports whether every member of other exists in o with an equal value.
// A nil object is empty.
func (o *Object) Contains(other *Object) bool {
	if other.IsEmpty() {
		return true
	}
	if o == nil {
		return false
	}
	for k, ov := range other.members {
		v, ok := o.members[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Equal reports whether both objects hold the same keys with equal values.
// A nil object equals an empty one.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	return o.Contains(other)
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	c := &Object{members: make(map[string]Value, len(o.members))}
	for k, v := range o.members {
		c.members[k] = v.Clone()
	}
	if len(o.escape) > 0 {
		c.escape = maps.Clone(o.escape)
	}
	return c
}

// String renders the object as compact JSON.
func (o *Object) String() string {
	return string(appendObject(nil, o))
}
